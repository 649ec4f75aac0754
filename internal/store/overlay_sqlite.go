package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-journal-keeper/internal/config"
	"github.com/MKhiriev/go-journal-keeper/internal/logger"
	"github.com/MKhiriev/go-journal-keeper/models"
)

const (
	createOverlayTable = `CREATE TABLE IF NOT EXISTS cover_positions (
        entry_id TEXT PRIMARY KEY,
        x REAL NOT NULL,
        y REAL NOT NULL,
        updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
    );`

	upsertOverlayPosition = `INSERT INTO cover_positions (entry_id, x, y)
    VALUES (?, ?, ?)
    ON CONFLICT (entry_id) DO UPDATE SET
        x = excluded.x,
        y = excluded.y,
        updated_at = CURRENT_TIMESTAMP;`

	getOverlayPosition = `SELECT x, y
    FROM cover_positions
    WHERE entry_id = ?;`

	deleteOverlayPosition = `DELETE FROM cover_positions
    WHERE entry_id = ?;`
)

// overlayStore is the SQLite-backed implementation of [OverlayStore]. It
// keeps cover focal positions in a local file so they survive restarts on
// deployments whose entries table lacks the position columns.
//
// A mutex serializes writes; the sqlite3 driver does not tolerate
// concurrent writers on one handle.
type overlayStore struct {
	db     *sql.DB
	logger *logger.Logger
	mu     sync.Mutex
}

// NewOverlayStore opens (creating if necessary) the overlay cache file and
// ensures its schema.
func NewOverlayStore(ctx context.Context, cfg config.Cache, log *logger.Logger) (OverlayStore, error) {
	// db will be in file
	if err := createLocalDBFileIfNotExists(cfg.Path); err != nil {
		log.Err(err).Str("func", "NewOverlayStore").Msg("error creating overlay cache file")
		return nil, fmt.Errorf("error creating overlay cache file: %w", err)
	}

	conn, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		log.Err(err).Str("func", "NewOverlayStore").Msg("error opening overlay cache")
		return nil, fmt.Errorf("error opening connection to overlay cache: %w", err)
	}

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewOverlayStore").Msg("error connecting overlay cache (ping)")
		return nil, err
	}

	if _, err = conn.ExecContext(ctx, createOverlayTable); err != nil {
		log.Err(err).Str("func", "NewOverlayStore").Msg("error creating overlay cache schema")
		return nil, fmt.Errorf("error creating overlay cache schema: %w", err)
	}
	log.Debug().Str("func", "NewOverlayStore").Msg("connected to overlay cache successfully")

	return &overlayStore{
		db:     conn,
		logger: log,
	}, nil
}

// SetCoverPosition stores (or replaces) the focal position of an entry.
func (s *overlayStore) SetCoverPosition(ctx context.Context, entryID string, position models.CoverPosition) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	position = position.Clamp()
	if _, err := s.db.ExecContext(ctx, upsertOverlayPosition, entryID, position.X, position.Y); err != nil {
		log.Err(err).
			Str("func", "overlayStore.SetCoverPosition").
			Str("entry_id", entryID).
			Msg("failed to store cover position in overlay cache")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// GetCoverPosition returns the cached focal position of an entry and
// whether one is present.
func (s *overlayStore) GetCoverPosition(ctx context.Context, entryID string) (models.CoverPosition, bool, error) {
	log := logger.FromContext(ctx)

	var position models.CoverPosition
	err := s.db.QueryRowContext(ctx, getOverlayPosition, entryID).Scan(&position.X, &position.Y)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CoverPosition{}, false, nil
		}
		log.Err(err).
			Str("func", "overlayStore.GetCoverPosition").
			Str("entry_id", entryID).
			Msg("failed to read cover position from overlay cache")
		return models.CoverPosition{}, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return position.Clamp(), true, nil
}

// DeleteCoverPosition drops the cached focal position of an entry. Deleting
// an absent key is not an error.
func (s *overlayStore) DeleteCoverPosition(ctx context.Context, entryID string) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, deleteOverlayPosition, entryID); err != nil {
		log.Err(err).
			Str("func", "overlayStore.DeleteCoverPosition").
			Str("entry_id", entryID).
			Msg("failed to delete cover position from overlay cache")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		// if not found - create
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	// file already exists
	return nil
}
