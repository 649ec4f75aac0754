package store

import (
	"github.com/MKhiriev/go-journal-keeper/internal/config"
	"github.com/MKhiriev/go-journal-keeper/internal/logger"
)

// Storages aggregates every repository the service layer depends on.
type Storages struct {
	EntryRepository   EntryRepository
	TagRepository     TagRepository
	ImageRepository   ImageRepository
	ProfileRepository ProfileRepository
	OverlayStore      OverlayStore
}

// NewStorages wires the PostgreSQL repositories and the overlay cache into
// one container.
func NewStorages(db *DB, overlay OverlayStore, cfg config.StructuredConfig, logger *logger.Logger) *Storages {
	return &Storages{
		EntryRepository:   NewEntryRepository(db, logger),
		TagRepository:     NewTagRepository(db, logger),
		ImageRepository:   NewImageRepository(db, logger),
		ProfileRepository: NewProfileRepository(db, cfg.Schema, logger),
		OverlayStore:      overlay,
	}
}
