// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	upsertEntry = `INSERT INTO entries (id, user_id, title, content, visibility, favorite, cover_image_url, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
    ON CONFLICT (id) DO UPDATE SET
        title = EXCLUDED.title,
        content = EXCLUDED.content,
        visibility = EXCLUDED.visibility,
        favorite = EXCLUDED.favorite,
        cover_image_url = EXCLUDED.cover_image_url,
        updated_at = now()
    RETURNING created_at, updated_at;`

	updateCoverPosition = `UPDATE entries
    SET cover_pos_x = $1, cover_pos_y = $2, updated_at = now()
    WHERE id = $3 AND user_id = $4;`

	deleteEntry = `DELETE FROM entries
    WHERE id = $1 AND user_id = $2;`

	// upsertTag resolves the per-user catalogue row for a name. The no-op
	// DO UPDATE makes RETURNING produce a row even when a concurrent save
	// created the tag first.
	upsertTag = `INSERT INTO tags (user_id, name)
    VALUES ($1, $2)
    ON CONFLICT (user_id, lower(name)) DO UPDATE SET name = tags.name
    RETURNING id, user_id, name;`

	getEntryTagIDs = `SELECT tag_id
    FROM entry_tags
    WHERE entry_id = $1;`

	insertEntryTag = `INSERT INTO entry_tags (entry_id, tag_id)
    VALUES ($1, $2)
    ON CONFLICT DO NOTHING;`

	deleteAllEntryTags = `DELETE FROM entry_tags
    WHERE entry_id = $1;`

	getEntryImageURLs = `SELECT url
    FROM entry_images
    WHERE entry_id = $1;`

	insertEntryImage = `INSERT INTO entry_images (entry_id, url, user_id)
    VALUES ($1, $2, $3)
    ON CONFLICT DO NOTHING;`

	deleteAllEntryImages = `DELETE FROM entry_images
    WHERE entry_id = $1;`

	probeProfileColumns = `SELECT * FROM profiles LIMIT 1;`
)

// Entry columns in scan order. The cover position pair sits at the tail so
// the reduced variant is a prefix of the full one.
var (
	entryColumns = []string{
		"id", "user_id", "title", "content", "visibility", "favorite",
		"cover_image_url", "created_at", "updated_at",
	}
	entryCoverPosColumns = []string{"cover_pos_x", "cover_pos_y"}
)

// psql is the shared squirrel statement builder configured for PostgreSQL
// ($N) placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildEntriesQuery builds the newest-first entry listing for a user.
// When withCoverPos is false the position columns are omitted so the query
// also runs against deployments whose entries table predates them.
func buildEntriesQuery(userID string, withCoverPos bool) (string, []any, error) {
	columns := entryColumns
	if withCoverPos {
		columns = append(append([]string{}, entryColumns...), entryCoverPosColumns...)
	}

	return psql.Select(columns...).
		From("entries").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
}

// buildEntryByIDQuery builds a single-entry lookup scoped to its owner.
func buildEntryByIDQuery(userID, entryID string, withCoverPos bool) (string, []any, error) {
	columns := entryColumns
	if withCoverPos {
		columns = append(append([]string{}, entryColumns...), entryCoverPosColumns...)
	}

	return psql.Select(columns...).
		From("entries").
		Where(sq.Eq{"id": entryID, "user_id": userID}).
		ToSql()
}

// buildEntryFieldUpdateQuery builds a single-column entry update (favorite
// toggle, publishing) scoped to the owning user.
func buildEntryFieldUpdateQuery(userID, entryID, column string, value any) (string, []any, error) {
	return psql.Update("entries").
		Set(column, value).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": entryID, "user_id": userID}).
		ToSql()
}

// buildTagsByNamesQuery builds the case-insensitive catalogue lookup for a
// set of normalized (lowercased) tag names.
func buildTagsByNamesQuery(userID string, normalizedNames []string) (string, []any, error) {
	return psql.Select("id", "user_id", "name").
		From("tags").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"lower(name)": normalizedNames}).
		ToSql()
}

// buildTagNamesByEntryIDsQuery builds the batched join resolving the tag
// names of many entries in one round trip.
func buildTagNamesByEntryIDsQuery(entryIDs []string) (string, []any, error) {
	return psql.Select("et.entry_id", "t.name").
		From("entry_tags et").
		Join("tags t ON t.id = et.tag_id").
		Where(sq.Eq{"et.entry_id": entryIDs}).
		OrderBy("et.entry_id").
		ToSql()
}

// buildDeleteEntryTagsQuery builds the relation delete for a diff plan.
func buildDeleteEntryTagsQuery(entryID string, tagIDs []int64) (string, []any, error) {
	return psql.Delete("entry_tags").
		Where(sq.Eq{"entry_id": entryID}).
		Where(sq.Eq{"tag_id": tagIDs}).
		ToSql()
}

// buildImageURLsByEntryIDsQuery builds the batched gallery lookup for many
// entries in one round trip.
func buildImageURLsByEntryIDsQuery(entryIDs []string) (string, []any, error) {
	return psql.Select("entry_id", "url").
		From("entry_images").
		Where(sq.Eq{"entry_id": entryIDs}).
		OrderBy("entry_id").
		ToSql()
}

// buildDeleteEntryImagesQuery builds the relation delete for a diff plan.
func buildDeleteEntryImagesQuery(entryID string, urls []string) (string, []any, error) {
	return psql.Delete("entry_images").
		Where(sq.Eq{"entry_id": entryID}).
		Where(sq.Eq{"url": urls}).
		ToSql()
}

// buildProfileUpdateQuery builds the pruned profile update keyed on the
// given column.
func buildProfileUpdateQuery(keyColumn, userID string, fields map[string]any) (string, []any, error) {
	return psql.Update("profiles").
		SetMap(fields).
		Where(sq.Eq{keyColumn: userID}).
		ToSql()
}

// buildProfileInsertQuery builds the fallback profile insert. No conflict
// target: by the time this runs both keyed updates matched nothing.
func buildProfileInsertQuery(keyColumn, userID string, fields map[string]any) (string, []any, error) {
	values := make(map[string]any, len(fields)+1)
	for column, value := range fields {
		values[column] = value
	}
	values[keyColumn] = userID

	return psql.Insert("profiles").
		SetMap(values).
		ToSql()
}
