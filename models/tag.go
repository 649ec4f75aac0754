package models

import "strings"

// Tag is a per-user label that can be applied to any number of entries.
// Tags are created lazily the first time a name is referenced and are never
// purged automatically when they become unreferenced.
type Tag struct {
	// ID is the database-assigned identifier.
	ID int64 `json:"id"`

	// UserID is the owner of the tag catalogue entry.
	UserID string `json:"user_id"`

	// Name is the display name with its original casing. Uniqueness is
	// enforced per user on the lowercased form.
	Name string `json:"name"`
}

// NormalizedName returns the lowercase form used for identity comparison.
func (t Tag) NormalizedName() string {
	return NormalizeTagName(t.Name)
}

// NormalizeTagName lowercases and trims a tag name for identity purposes.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// TableName returns the name of the database table associated with Tag.
func (t *Tag) TableName() string {
	return "tags"
}

// EntryTagRelation is a row of the entry_tags junction table. Existence of
// the pair means the tag is applied to the entry.
type EntryTagRelation struct {
	EntryID string `json:"entry_id"`
	TagID   int64  `json:"tag_id"`
}

// TableName returns the name of the junction table for entry-tag relations.
func (r *EntryTagRelation) TableName() string {
	return "entry_tags"
}
