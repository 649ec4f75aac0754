package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-journal-keeper/internal/logger"
)

// imageRepository is the PostgreSQL-backed implementation of
// [ImageRepository]. It maintains the entry_images junction table whose
// primary key (entry_id, url) collapses duplicate references.
type imageRepository struct {
	*DB
	logger *logger.Logger
}

// NewImageRepository constructs an [ImageRepository] backed by the provided
// database connection and logger.
func NewImageRepository(db *DB, logger *logger.Logger) ImageRepository {
	return &imageRepository{
		DB:     db,
		logger: logger,
	}
}

// GetEntryImageURLs retrieves the current image relation set of an entry.
func (r *imageRepository) GetEntryImageURLs(ctx context.Context, entryID string) ([]string, error) {
	log := logger.FromContext(ctx)

	rows, queryErr := r.DB.QueryContext(ctx, getEntryImageURLs, entryID)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "imageRepository.GetEntryImageURLs").
			Str("entry_id", entryID).
			Msg("failed to execute query for getting entry image relations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	urls := make([]string, 0, 8)

	for rows.Next() {
		var url string
		if scanErr := rows.Scan(&url); scanErr != nil {
			log.Err(scanErr).
				Str("func", "imageRepository.GetEntryImageURLs").
				Str("entry_id", entryID).
				Msg("failed to scan image relation row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		urls = append(urls, url)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "imageRepository.GetEntryImageURLs").
			Str("entry_id", entryID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return urls, nil
}

// ImageURLsByEntryIDs resolves the gallery references of many entries in one
// batched query. Entries without images are absent from the result map.
func (r *imageRepository) ImageURLsByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]string, error) {
	log := logger.FromContext(ctx)

	if len(entryIDs) == 0 {
		return map[string][]string{}, nil
	}

	query, args, err := buildImageURLsByEntryIDsQuery(entryIDs)
	if err != nil {
		log.Err(err).
			Str("func", "imageRepository.ImageURLsByEntryIDs").
			Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "imageRepository.ImageURLsByEntryIDs").
			Int("entry ids count", len(entryIDs)).
			Msg("failed to execute batched image urls query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	urls := make(map[string][]string, len(entryIDs))

	for rows.Next() {
		var entryID, url string
		if scanErr := rows.Scan(&entryID, &url); scanErr != nil {
			log.Err(scanErr).
				Str("func", "imageRepository.ImageURLsByEntryIDs").
				Msg("failed to scan image url row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		urls[entryID] = append(urls[entryID], url)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "imageRepository.ImageURLsByEntryIDs").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return urls, nil
}

// InsertEntryImages adds relation rows for a diff plan. Conflicting pairs
// are ignored so replays stay idempotent.
//
// Multiple relations are inserted inside one transaction with a prepared
// statement.
func (r *imageRepository) InsertEntryImages(ctx context.Context, userID, entryID string, urls []string) error {
	log := logger.FromContext(ctx)

	if len(urls) == 0 {
		return nil
	}

	if len(urls) == 1 {
		if _, err := r.DB.ExecContext(ctx, insertEntryImage, entryID, urls[0], userID); err != nil {
			log.Err(err).
				Str("func", "imageRepository.InsertEntryImages").
				Str("entry_id", entryID).
				Msg("error executing query for inserting image relation")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "imageRepository.InsertEntryImages").Msg("error during opening transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertEntryImage)
	if err != nil {
		log.Err(err).Str("func", "imageRepository.InsertEntryImages").Msg("error during preparing statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	for idx, url := range urls {
		log.Debug().
			Str("func", "imageRepository.InsertEntryImages").
			Int("iteration", idx).
			Str("entry_id", entryID).
			Msg("trying to insert image relation")

		if _, execErr := stmt.ExecContext(ctx, entryID, url, userID); execErr != nil {
			log.Err(execErr).
				Str("func", "imageRepository.InsertEntryImages").
				Str("entry_id", entryID).
				Msg("error executing prepared query for inserting image relation")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).Str("func", "imageRepository.InsertEntryImages").Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}

// DeleteEntryImages removes relation rows for a diff plan.
func (r *imageRepository) DeleteEntryImages(ctx context.Context, entryID string, urls []string) error {
	log := logger.FromContext(ctx)

	if len(urls) == 0 {
		return nil
	}

	query, args, err := buildDeleteEntryImagesQuery(entryID, urls)
	if err != nil {
		log.Err(err).
			Str("func", "imageRepository.DeleteEntryImages").
			Str("entry_id", entryID).
			Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, execErr := r.DB.ExecContext(ctx, query, args...); execErr != nil {
		log.Err(execErr).
			Str("func", "imageRepository.DeleteEntryImages").
			Str("entry_id", entryID).
			Int("urls count", len(urls)).
			Msg("failed to delete image relations")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	return nil
}

// DeleteAllEntryImages removes every image relation of an entry. Used by the
// entry delete cascade.
func (r *imageRepository) DeleteAllEntryImages(ctx context.Context, entryID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, deleteAllEntryImages, entryID); err != nil {
		log.Err(err).
			Str("func", "imageRepository.DeleteAllEntryImages").
			Str("entry_id", entryID).
			Msg("failed to delete all image relations")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
