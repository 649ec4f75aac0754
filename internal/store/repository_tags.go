package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-journal-keeper/internal/logger"
	"github.com/MKhiriev/go-journal-keeper/models"
)

// tagRepository is the PostgreSQL-backed implementation of [TagRepository].
// It maintains the per-user tag catalogue ("tags") and the entry_tags
// junction table.
//
// Catalogue identity is case-insensitive: lookups match on lower(name) and
// the unique index on (user_id, lower(name)) guards concurrent creation.
type tagRepository struct {
	*DB
	logger *logger.Logger
}

// NewTagRepository constructs a [TagRepository] backed by the provided
// database connection and logger.
func NewTagRepository(db *DB, logger *logger.Logger) TagRepository {
	return &tagRepository{
		DB:     db,
		logger: logger,
	}
}

// FindTagsByNames retrieves catalogue rows whose lowercased name is in
// normalizedNames. The caller is expected to normalize with
// [models.NormalizeTagName] beforehand.
func (r *tagRepository) FindTagsByNames(ctx context.Context, userID string, normalizedNames []string) ([]models.Tag, error) {
	log := logger.FromContext(ctx)

	if len(normalizedNames) == 0 {
		return []models.Tag{}, nil
	}

	query, args, err := buildTagsByNamesQuery(userID, normalizedNames)
	if err != nil {
		log.Err(err).
			Str("func", "tagRepository.FindTagsByNames").
			Str("user_id", userID).
			Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "tagRepository.FindTagsByNames").
			Str("user_id", userID).
			Int("names count", len(normalizedNames)).
			Msg("failed to execute query for finding tags by names")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	tags := make([]models.Tag, 0, len(normalizedNames))

	for rows.Next() {
		var tag models.Tag

		if scanErr := rows.Scan(&tag.ID, &tag.UserID, &tag.Name); scanErr != nil {
			log.Err(scanErr).
				Str("func", "tagRepository.FindTagsByNames").
				Str("user_id", userID).
				Msg("failed to scan tag row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		tags = append(tags, tag)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "tagRepository.FindTagsByNames").
			Str("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return tags, nil
}

// CreateTags inserts catalogue rows for the given display names, keeping
// their original casing. Names that raced with a concurrent save still
// return the winning row thanks to the no-op DO UPDATE in [upsertTag].
//
// Multiple names are inserted inside one transaction with a prepared
// statement.
func (r *tagRepository) CreateTags(ctx context.Context, userID string, names []string) ([]models.Tag, error) {
	log := logger.FromContext(ctx)

	if len(names) == 0 {
		return []models.Tag{}, nil
	}

	if len(names) == 1 {
		var tag models.Tag
		row := r.DB.QueryRowContext(ctx, upsertTag, userID, names[0])
		if err := row.Scan(&tag.ID, &tag.UserID, &tag.Name); err != nil {
			log.Err(err).
				Str("func", "tagRepository.CreateTags").
				Str("user_id", userID).
				Str("tag_name", names[0]).
				Msg("error executing query for creating tag")
			return nil, fmt.Errorf("%w: %w", ErrTagNotSaved, err)
		}
		return []models.Tag{tag}, nil
	}

	// begin transaction
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "tagRepository.CreateTags").Msg("error during opening transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	// prepare statement
	stmt, err := tx.PrepareContext(ctx, upsertTag)
	if err != nil {
		log.Err(err).Str("func", "tagRepository.CreateTags").Msg("error during preparing statement")
		return nil, fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	tags := make([]models.Tag, 0, len(names))

	// for each tag name
	for idx, name := range names {
		log.Debug().
			Str("func", "tagRepository.CreateTags").
			Int("iteration", idx).
			Str("tag_name", name).
			Msg("trying to create tag")

		var tag models.Tag
		if scanErr := stmt.QueryRowContext(ctx, userID, name).Scan(&tag.ID, &tag.UserID, &tag.Name); scanErr != nil {
			log.Err(scanErr).
				Str("func", "tagRepository.CreateTags").
				Str("tag_name", name).
				Msg("error executing prepared query for creating tag")
			return nil, fmt.Errorf("%w: %w", ErrTagNotSaved, scanErr)
		}

		tags = append(tags, tag)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).Str("func", "tagRepository.CreateTags").Msg("error committing transaction")
		return nil, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return tags, nil
}

// GetEntryTagIDs retrieves the current tag relation set of an entry.
func (r *tagRepository) GetEntryTagIDs(ctx context.Context, entryID string) ([]int64, error) {
	log := logger.FromContext(ctx)

	rows, queryErr := r.DB.QueryContext(ctx, getEntryTagIDs, entryID)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "tagRepository.GetEntryTagIDs").
			Str("entry_id", entryID).
			Msg("failed to execute query for getting entry tag relations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	tagIDs := make([]int64, 0, 8)

	for rows.Next() {
		var tagID int64
		if scanErr := rows.Scan(&tagID); scanErr != nil {
			log.Err(scanErr).
				Str("func", "tagRepository.GetEntryTagIDs").
				Str("entry_id", entryID).
				Msg("failed to scan tag relation row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		tagIDs = append(tagIDs, tagID)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "tagRepository.GetEntryTagIDs").
			Str("entry_id", entryID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return tagIDs, nil
}

// TagNamesByEntryIDs resolves the tag names of many entries in one batched
// join. Entries without tags are absent from the result map.
func (r *tagRepository) TagNamesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]string, error) {
	log := logger.FromContext(ctx)

	if len(entryIDs) == 0 {
		return map[string][]string{}, nil
	}

	query, args, err := buildTagNamesByEntryIDsQuery(entryIDs)
	if err != nil {
		log.Err(err).
			Str("func", "tagRepository.TagNamesByEntryIDs").
			Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "tagRepository.TagNamesByEntryIDs").
			Int("entry ids count", len(entryIDs)).
			Msg("failed to execute batched tag names query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	names := make(map[string][]string, len(entryIDs))

	for rows.Next() {
		var entryID, name string
		if scanErr := rows.Scan(&entryID, &name); scanErr != nil {
			log.Err(scanErr).
				Str("func", "tagRepository.TagNamesByEntryIDs").
				Msg("failed to scan tag name row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		names[entryID] = append(names[entryID], name)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "tagRepository.TagNamesByEntryIDs").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return names, nil
}

// InsertEntryTags adds relation rows for a diff plan. Conflicting pairs are
// ignored so replays stay idempotent.
//
// Multiple relations are inserted inside one transaction with a prepared
// statement.
func (r *tagRepository) InsertEntryTags(ctx context.Context, entryID string, tagIDs []int64) error {
	log := logger.FromContext(ctx)

	if len(tagIDs) == 0 {
		return nil
	}

	if len(tagIDs) == 1 {
		if _, err := r.DB.ExecContext(ctx, insertEntryTag, entryID, tagIDs[0]); err != nil {
			log.Err(err).
				Str("func", "tagRepository.InsertEntryTags").
				Str("entry_id", entryID).
				Msg("error executing query for inserting tag relation")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "tagRepository.InsertEntryTags").Msg("error during opening transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertEntryTag)
	if err != nil {
		log.Err(err).Str("func", "tagRepository.InsertEntryTags").Msg("error during preparing statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	for idx, tagID := range tagIDs {
		log.Debug().
			Str("func", "tagRepository.InsertEntryTags").
			Int("iteration", idx).
			Int64("tag_id", tagID).
			Msg("trying to insert tag relation")

		if _, execErr := stmt.ExecContext(ctx, entryID, tagID); execErr != nil {
			log.Err(execErr).
				Str("func", "tagRepository.InsertEntryTags").
				Int64("tag_id", tagID).
				Msg("error executing prepared query for inserting tag relation")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).Str("func", "tagRepository.InsertEntryTags").Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}

// DeleteEntryTags removes relation rows for a diff plan.
func (r *tagRepository) DeleteEntryTags(ctx context.Context, entryID string, tagIDs []int64) error {
	log := logger.FromContext(ctx)

	if len(tagIDs) == 0 {
		return nil
	}

	query, args, err := buildDeleteEntryTagsQuery(entryID, tagIDs)
	if err != nil {
		log.Err(err).
			Str("func", "tagRepository.DeleteEntryTags").
			Str("entry_id", entryID).
			Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, execErr := r.DB.ExecContext(ctx, query, args...); execErr != nil {
		log.Err(execErr).
			Str("func", "tagRepository.DeleteEntryTags").
			Str("entry_id", entryID).
			Int("tag ids count", len(tagIDs)).
			Msg("failed to delete tag relations")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	return nil
}

// DeleteAllEntryTags removes every tag relation of an entry. Used by the
// entry delete cascade.
func (r *tagRepository) DeleteAllEntryTags(ctx context.Context, entryID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, deleteAllEntryTags, entryID); err != nil {
		log.Err(err).
			Str("func", "tagRepository.DeleteAllEntryTags").
			Str("entry_id", entryID).
			Msg("failed to delete all tag relations")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
