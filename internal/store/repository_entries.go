package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/MKhiriev/go-journal-keeper/internal/logger"
	"github.com/MKhiriev/go-journal-keeper/models"
)

// entryRepository is the PostgreSQL-backed implementation of
// [EntryRepository]. It executes all entry CRUD operations directly against
// the "entries" table using the embedded [*DB] connection.
//
// The repository discovers lazily whether the deployment carries the cover
// position columns: the first undefined_column error flips coverPosAbsent
// and every later read uses the reduced column set.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced
// with structured fields (user_id, entry_id, etc.).
type entryRepository struct {
	*DB
	logger *logger.Logger

	coverPosAbsent atomic.Bool
}

// NewEntryRepository constructs an [EntryRepository] backed by the provided
// database connection and logger.
func NewEntryRepository(db *DB, logger *logger.Logger) EntryRepository {
	return &entryRepository{
		DB:     db,
		logger: logger,
	}
}

// UpsertEntry inserts the entry or, when the id already exists, updates its
// scalar columns. The cover position is deliberately not part of the upsert
// column list; it is written separately by [entryRepository.UpdateCoverPosition]
// so the upsert also succeeds on deployments lacking the position columns.
//
// Returns the entry with remote-assigned timestamps filled in.
func (r *entryRepository) UpsertEntry(ctx context.Context, entry models.Entry) (models.Entry, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, upsertEntry,
		entry.ID,
		entry.UserID,
		entry.Title,
		entry.Content,
		entry.Visibility,
		entry.Favorite,
		entry.CoverImage,
	)

	if err := row.Scan(&entry.CreatedAt, &entry.UpdatedAt); err != nil {
		log.Err(err).
			Str("func", "entryRepository.UpsertEntry").
			Str("user_id", entry.UserID).
			Str("entry_id", entry.ID).
			Msg("failed to upsert entry")
		if errors.Is(err, sql.ErrNoRows) {
			return models.Entry{}, ErrEntryNotSaved
		}
		return models.Entry{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return entry, nil
}

// GetEntry retrieves a single entry scoped to its owner.
//
// Returns [ErrEntryNotFound] when no row matches.
func (r *entryRepository) GetEntry(ctx context.Context, userID, entryID string) (models.Entry, error) {
	log := logger.FromContext(ctx)

	withCoverPos := !r.coverPosAbsent.Load()
	query, args, err := buildEntryByIDQuery(userID, entryID, withCoverPos)
	if err != nil {
		log.Err(err).
			Str("func", "entryRepository.GetEntry").
			Str("user_id", userID).
			Msg("failed to create query")
		return models.Entry{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	entry, scanErr := r.scanEntry(r.DB.QueryRowContext(ctx, query, args...), withCoverPos)
	if scanErr != nil {
		if withCoverPos && IsUndefinedColumn(scanErr) {
			r.rememberCoverPosAbsent(log)
			return r.GetEntry(ctx, userID, entryID)
		}
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Entry{}, ErrEntryNotFound
		}
		log.Err(scanErr).
			Str("func", "entryRepository.GetEntry").
			Str("user_id", userID).
			Str("entry_id", entryID).
			Msg("failed to scan entry row")
		return models.Entry{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return entry, nil
}

// GetEntries retrieves every entry owned by the given user, newest first
// (created_at descending).
//
// Returns an empty slice when no records are found.
func (r *entryRepository) GetEntries(ctx context.Context, userID string) ([]models.Entry, error) {
	log := logger.FromContext(ctx)

	withCoverPos := !r.coverPosAbsent.Load()
	query, args, err := buildEntriesQuery(userID, withCoverPos)
	if err != nil {
		log.Err(err).
			Str("func", "entryRepository.GetEntries").
			Str("user_id", userID).
			Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		if withCoverPos && IsUndefinedColumn(queryErr) {
			r.rememberCoverPosAbsent(log)
			return r.GetEntries(ctx, userID)
		}
		log.Err(queryErr).
			Str("func", "entryRepository.GetEntries").
			Str("user_id", userID).
			Msg("failed to execute query for getting user entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	entries := make([]models.Entry, 0, 50)

	for rows.Next() {
		entry, scanErr := r.scanEntry(rows, withCoverPos)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "entryRepository.GetEntries").
				Str("user_id", userID).
				Msg("failed to scan entry row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "entryRepository.GetEntries").
			Str("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return entries, nil
}

// DeleteEntry removes the entry row scoped to its owner.
//
// Returns [ErrEntryNotFound] when no row was deleted. Junction rows and
// blobs are cleaned up by the caller beforehand.
func (r *entryRepository) DeleteEntry(ctx context.Context, userID, entryID string) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, deleteEntry, entryID, userID)
	if err != nil {
		log.Err(err).
			Str("func", "entryRepository.DeleteEntry").
			Str("user_id", userID).
			Str("entry_id", entryID).
			Msg("failed to delete entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Error().
			Str("func", "entryRepository.DeleteEntry").
			Str("user_id", userID).
			Str("entry_id", entryID).
			Msg("entry to delete was not found")
		return ErrEntryNotFound
	}

	return nil
}

// UpdateCoverPosition writes the cover focal point to the entries table.
//
// Returns [ErrSchemaMismatch] when the deployment lacks the position
// columns; the caller degrades to the overlay cache.
func (r *entryRepository) UpdateCoverPosition(ctx context.Context, userID, entryID string, position models.CoverPosition) error {
	log := logger.FromContext(ctx)

	if r.coverPosAbsent.Load() {
		return ErrSchemaMismatch
	}

	result, err := r.DB.ExecContext(ctx, updateCoverPosition, position.X, position.Y, entryID, userID)
	if err != nil {
		if IsUndefinedColumn(err) {
			r.rememberCoverPosAbsent(log)
			return fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
		}
		log.Err(err).
			Str("func", "entryRepository.UpdateCoverPosition").
			Str("user_id", userID).
			Str("entry_id", entryID).
			Msg("failed to update cover position")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// SetFavorite flips the favorite flag of an entry.
func (r *entryRepository) SetFavorite(ctx context.Context, userID, entryID string, favorite bool) error {
	return r.updateEntryField(ctx, userID, entryID, "favorite", favorite)
}

// SetVisibility changes the visibility of an entry (publishing).
func (r *entryRepository) SetVisibility(ctx context.Context, userID, entryID string, visibility models.Visibility) error {
	return r.updateEntryField(ctx, userID, entryID, "visibility", string(visibility))
}

func (r *entryRepository) updateEntryField(ctx context.Context, userID, entryID, column string, value any) error {
	log := logger.FromContext(ctx)

	query, args, err := buildEntryFieldUpdateQuery(userID, entryID, column, value)
	if err != nil {
		log.Err(err).
			Str("func", "entryRepository.updateEntryField").
			Str("column", column).
			Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, execErr := r.DB.ExecContext(ctx, query, args...)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "entryRepository.updateEntryField").
			Str("user_id", userID).
			Str("entry_id", entryID).
			Str("column", column).
			Msg("failed to update entry field")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (r *entryRepository) scanEntry(row scanner, withCoverPos bool) (models.Entry, error) {
	var entry models.Entry
	var visibility string
	var coverImage sql.NullString

	dest := []any{
		&entry.ID,
		&entry.UserID,
		&entry.Title,
		&entry.Content,
		&visibility,
		&entry.Favorite,
		&coverImage,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	}

	var posX, posY sql.NullFloat64
	if withCoverPos {
		dest = append(dest, &posX, &posY)
	}

	if err := row.Scan(dest...); err != nil {
		return models.Entry{}, err
	}

	entry.Visibility = models.Visibility(visibility)
	entry.CoverImage = coverImage.String
	entry.CoverPosition = models.DefaultCoverPosition()
	if posX.Valid && posY.Valid {
		entry.CoverPosition = models.CoverPosition{X: posX.Float64, Y: posY.Float64}.Clamp()
	}

	return entry, nil
}

func (r *entryRepository) rememberCoverPosAbsent(log *logger.Logger) {
	if r.coverPosAbsent.CompareAndSwap(false, true) {
		log.Warn().
			Str("func", "entryRepository.rememberCoverPosAbsent").
			Msg("entries table has no cover position columns, switching to overlay cache")
	}
}
