package service

import (
	"github.com/MKhiriev/go-journal-keeper/internal/blob"
	"github.com/MKhiriev/go-journal-keeper/internal/config"
	"github.com/MKhiriev/go-journal-keeper/internal/logger"
	"github.com/MKhiriev/go-journal-keeper/internal/store"
)

type Services struct {
	EntryService   EntryService
	ProfileService ProfileService
}

func NewServices(storages *store.Storages, blobStore blob.BlobStore, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	migrator := NewImageMigrator(blobStore, cfg.Blob, logger)

	return &Services{
		EntryService:   NewEntryService(storages, blobStore, migrator, cfg.Schema, logger),
		ProfileService: NewProfileService(storages.ProfileRepository, blobStore, cfg.Blob, logger),
	}
}
