package models

import "time"

// DefaultTitle is substituted when an entry is saved with an empty title.
const DefaultTitle = "Untitled"

// Visibility describes who may see a journal entry.
type Visibility string

const (
	// VisibilityPrivate means the entry is visible to its owner only.
	VisibilityPrivate Visibility = "private"

	// VisibilityPublic means the entry has been published.
	VisibilityPublic Visibility = "public"
)

// Valid reports whether v is one of the known visibility values.
func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

// CoverPosition is the focal point of an entry's cover image, expressed as
// percentages of the image dimensions. Both coordinates are in [0,100];
// {50,50} is the centered default.
type CoverPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DefaultCoverPosition returns the centered focal point.
func DefaultCoverPosition() CoverPosition {
	return CoverPosition{X: 50, Y: 50}
}

// Clamp returns a copy of p with both coordinates forced into [0,100].
func (p CoverPosition) Clamp() CoverPosition {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 100 {
			return 100
		}
		return v
	}
	return CoverPosition{X: clamp(p.X), Y: clamp(p.Y)}
}

// Entry represents a single journal page with its content, metadata and
// media references. It is the primary persistence model of the application.
//
// Tags and Images are the desired relation sets for the entry; after a
// successful save they are exactly the rows of the entry_tags and
// entry_images junction tables for this entry id.
type Entry struct {
	// ID is the client-generated unique identifier of the entry.
	// The remote store never reassigns it.
	ID string `json:"id"`

	// UserID is the owner of the entry. Immutable once set.
	UserID string `json:"user_id"`

	// Title is the display title. Empty titles are persisted as
	// [DefaultTitle].
	Title string `json:"title"`

	// Content is the body text of the entry.
	Content string `json:"content"`

	// Tags holds the display names of the tags applied to the entry.
	// Names are unique per user case-insensitively; original casing is
	// preserved for display.
	Tags []string `json:"tags"`

	// CoverImage is the durable URL of the cover image, or an inline
	// data-URL payload for entries authored before object storage was
	// wired up. Empty when the entry has no cover.
	CoverImage string `json:"cover_image"`

	// CoverPosition is the focal point of the cover image. It may be
	// served from the local overlay cache when the remote schema lacks
	// the position columns.
	CoverPosition CoverPosition `json:"cover_position"`

	// Images holds the gallery image references. Duplicates collapse;
	// the cover reference is not required to be a member.
	Images []string `json:"images"`

	// Visibility is private or public.
	Visibility Visibility `json:"visibility"`

	// Favorite marks the entry as a favorite on the dashboard.
	Favorite bool `json:"favorite"`

	// CreatedAt and UpdatedAt are remote-assigned timestamps.
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TableName returns the name of the database table associated with Entry.
func (e *Entry) TableName() string {
	return "entries"
}
