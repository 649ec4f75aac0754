package service

import (
	"context"

	"github.com/MKhiriev/go-journal-keeper/models"
)

// EntryService reconciles journal entries between callers and the remote
// store: scalar upsert, relation diffing, inline image migration, and the
// cover position overlay.
type EntryService interface {
	SaveEntry(ctx context.Context, entry models.Entry) (models.Entry, error)
	LoadEntries(ctx context.Context, userID string) ([]models.Entry, error)
	GetEntry(ctx context.Context, userID, entryID string) (models.Entry, error)
	DeleteEntry(ctx context.Context, userID, entryID string) error
	SetFavorite(ctx context.Context, userID, entryID string, favorite bool) error
	PublishEntry(ctx context.Context, userID, entryID string) error
}

// ProfileService persists user profile attributes and avatars.
type ProfileService interface {
	SaveProfile(ctx context.Context, profile models.Profile) error
	SaveAvatar(ctx context.Context, userID string, data []byte, contentType string) (string, error)
}

// ImageMigrator moves inline (data-URL) image payloads to object storage.
// It never fails the surrounding operation: references that cannot be
// migrated stay inline.
type ImageMigrator interface {
	MigrateInlineImages(ctx context.Context, entry models.Entry) (models.Entry, bool)
}
