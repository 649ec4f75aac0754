// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Profile holds the user-facing profile attributes. The backing table's
// column set varies across deployments (it may key on "id" or "user_id" and
// may lack "bio"), so writes go through the schema-adaptive profile writer
// rather than a fixed column list.
type Profile struct {
	// UserID is the owning user, regardless of which column the
	// deployment keys the table on.
	UserID string `json:"user_id"`

	// Name is the display name.
	Name string `json:"name"`

	// Bio is the optional free-text biography.
	Bio string `json:"bio"`

	// AvatarURL is the durable URL of the profile photo.
	AvatarURL string `json:"avatar_url"`
}

// Fields returns the profile attributes as a column->value map, the shape
// consumed by the schema-adaptive writer. The key column is not included.
func (p Profile) Fields() map[string]any {
	return map[string]any{
		"name":       p.Name,
		"bio":        p.Bio,
		"avatar_url": p.AvatarURL,
	}
}

// TableName returns the name of the database table associated with Profile.
func (p *Profile) TableName() string {
	return "profiles"
}
