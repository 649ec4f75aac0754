package store

import (
	"context"

	"github.com/MKhiriev/go-journal-keeper/models"
)

// EntryRepository persists journal entries and their scalar columns.
type EntryRepository interface {
	UpsertEntry(ctx context.Context, entry models.Entry) (models.Entry, error)
	GetEntry(ctx context.Context, userID, entryID string) (models.Entry, error)
	GetEntries(ctx context.Context, userID string) ([]models.Entry, error)
	DeleteEntry(ctx context.Context, userID, entryID string) error
	UpdateCoverPosition(ctx context.Context, userID, entryID string, position models.CoverPosition) error
	SetFavorite(ctx context.Context, userID, entryID string, favorite bool) error
	SetVisibility(ctx context.Context, userID, entryID string, visibility models.Visibility) error
}

// TagRepository maintains the per-user tag catalogue and the entry_tags
// junction table.
type TagRepository interface {
	FindTagsByNames(ctx context.Context, userID string, normalizedNames []string) ([]models.Tag, error)
	CreateTags(ctx context.Context, userID string, names []string) ([]models.Tag, error)
	GetEntryTagIDs(ctx context.Context, entryID string) ([]int64, error)
	TagNamesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]string, error)
	InsertEntryTags(ctx context.Context, entryID string, tagIDs []int64) error
	DeleteEntryTags(ctx context.Context, entryID string, tagIDs []int64) error
	DeleteAllEntryTags(ctx context.Context, entryID string) error
}

// ImageRepository maintains the entry_images junction table.
type ImageRepository interface {
	GetEntryImageURLs(ctx context.Context, entryID string) ([]string, error)
	ImageURLsByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]string, error)
	InsertEntryImages(ctx context.Context, userID, entryID string, urls []string) error
	DeleteEntryImages(ctx context.Context, entryID string, urls []string) error
	DeleteAllEntryImages(ctx context.Context, entryID string) error
}

// ProfileRepository writes user profile attributes through the
// schema-adaptive strategy chain.
type ProfileRepository interface {
	UpsertProfileFields(ctx context.Context, userID string, fields map[string]any) error
}

// OverlayStore is the local fallback keyed store for cover focal positions
// on deployments whose entries table lacks the position columns.
type OverlayStore interface {
	SetCoverPosition(ctx context.Context, entryID string, position models.CoverPosition) error
	GetCoverPosition(ctx context.Context, entryID string) (models.CoverPosition, bool, error)
	DeleteCoverPosition(ctx context.Context, entryID string) error
}
