// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MKhiriev/go-journal-keeper/internal/blob"
	"github.com/MKhiriev/go-journal-keeper/internal/config"
	"github.com/MKhiriev/go-journal-keeper/internal/logger"
	"github.com/MKhiriev/go-journal-keeper/internal/store"
	"github.com/MKhiriev/go-journal-keeper/internal/utils"
	"github.com/MKhiriev/go-journal-keeper/internal/validators"
	"github.com/MKhiriev/go-journal-keeper/models"
)

type entryService struct {
	entries store.EntryRepository
	tags    store.TagRepository
	images  store.ImageRepository
	overlay store.OverlayStore

	blobStore blob.BlobStore
	migrator  ImageMigrator

	schema    config.Schema
	uuid      *utils.UUIDGenerator
	validator validators.Validator

	saveLocks *keyedMutex

	logger *logger.Logger
}

// NewEntryService wires the repositories, the overlay cache and the blob
// store into the [EntryService] implementation.
func NewEntryService(storages *store.Storages, blobStore blob.BlobStore, migrator ImageMigrator, schema config.Schema, logger *logger.Logger) EntryService {
	return &entryService{
		entries:   storages.EntryRepository,
		tags:      storages.TagRepository,
		images:    storages.ImageRepository,
		overlay:   storages.OverlayStore,
		blobStore: blobStore,
		migrator:  migrator,
		schema:    schema,
		uuid:      utils.NewUUIDGenerator(),
		validator: validators.NewJournalValidator(),
		saveLocks: newKeyedMutex(),
		logger:    logger,
	}
}

// SaveEntry implements [EntryService]. The entry row upsert is the hard
// step; the cover position write and the image reconciliation run after it
// and degrade or log on error. A tag catalogue lookup or creation failure is
// surfaced as [ErrTagSyncFailed] with the entry row already committed, so
// the caller can tell the user the tags did not stick. Saves of the same
// entry are serialized so concurrent relation writes cannot interleave.
func (s *entryService) SaveEntry(ctx context.Context, entry models.Entry) (models.Entry, error) {
	log := logger.FromContext(ctx)

	if err := s.prepareEntry(ctx, &entry); err != nil {
		return models.Entry{}, err
	}

	unlock := s.saveLocks.Lock(entry.ID)
	defer unlock()

	entry, _ = s.migrator.MigrateInlineImages(ctx, entry)

	saved, err := s.entries.UpsertEntry(ctx, entry)
	if err != nil {
		log.Err(err).
			Str("func", "entryService.SaveEntry").
			Str("entry ID", entry.ID).
			Msg("entry upsert failed")
		return models.Entry{}, err
	}
	entry.CreatedAt, entry.UpdatedAt = saved.CreatedAt, saved.UpdatedAt

	s.storeCoverPosition(ctx, entry)

	var wg sync.WaitGroup
	var tagErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		tagErr = s.reconcileTags(ctx, entry)
	}()
	go func() {
		defer wg.Done()
		s.reconcileImages(ctx, entry)
	}()
	wg.Wait()

	if tagErr != nil {
		return entry, tagErr
	}

	return entry, nil
}

// prepareEntry validates and normalizes an entry before persistence: missing
// IDs are generated, empty titles become the default, the visibility gets
// its default and the focal point is clamped.
func (s *entryService) prepareEntry(ctx context.Context, entry *models.Entry) error {
	if err := s.validator.Validate(ctx, entry, validators.FieldUserID, validators.FieldVisibility); err != nil {
		return err
	}

	if entry.ID == "" {
		entry.ID = s.uuid.Generate()
	}
	if entry.Title == "" {
		entry.Title = models.DefaultTitle
	}
	if entry.Visibility == "" {
		entry.Visibility = models.VisibilityPrivate
	}
	entry.CoverPosition = entry.CoverPosition.Clamp()

	return nil
}

// storeCoverPosition persists the cover focal point. Remote mode writes to
// the entries table only and logs a failed write. Auto mode tries the table
// first and degrades to the local overlay on a schema mismatch or any other
// write failure. A successful remote write clears the overlay so a stale
// cached value cannot shadow the row.
func (s *entryService) storeCoverPosition(ctx context.Context, entry models.Entry) {
	log := logger.FromContext(ctx)

	if s.schema.CoverPosition == config.CoverPositionOverlay {
		if err := s.overlay.SetCoverPosition(ctx, entry.ID, entry.CoverPosition); err != nil {
			log.Warn().Err(err).
				Str("func", "entryService.storeCoverPosition").
				Str("entry ID", entry.ID).
				Msg("overlay write failed, focal point not cached")
		}
		return
	}

	err := s.entries.UpdateCoverPosition(ctx, entry.UserID, entry.ID, entry.CoverPosition)
	if err == nil {
		if err = s.overlay.DeleteCoverPosition(ctx, entry.ID); err != nil {
			log.Warn().Err(err).
				Str("func", "entryService.storeCoverPosition").
				Str("entry ID", entry.ID).
				Msg("stale overlay focal point was not cleared")
		}
		return
	}

	if s.schema.CoverPosition == config.CoverPositionRemote {
		log.Warn().Err(err).
			Str("func", "entryService.storeCoverPosition").
			Str("entry ID", entry.ID).
			Msg("remote focal point write failed")
		return
	}

	if errors.Is(err, store.ErrSchemaMismatch) {
		log.Debug().
			Str("func", "entryService.storeCoverPosition").
			Str("entry ID", entry.ID).
			Msg("position columns absent, caching focal point in overlay")
	} else {
		log.Warn().Err(err).
			Str("func", "entryService.storeCoverPosition").
			Str("entry ID", entry.ID).
			Msg("remote focal point write failed, caching in overlay")
	}

	if err = s.overlay.SetCoverPosition(ctx, entry.ID, entry.CoverPosition); err != nil {
		log.Warn().Err(err).
			Str("func", "entryService.storeCoverPosition").
			Str("entry ID", entry.ID).
			Msg("overlay write failed, focal point not cached")
	}
}

// reconcileTags brings the entry_tags rows to the entry's desired tag set.
// Inserts run before deletes so an interrupted reconciliation leaves extra
// relations rather than missing ones. A catalogue resolution failure is
// returned to the caller; failures past that point only lose relation rows
// and are logged.
func (s *entryService) reconcileTags(ctx context.Context, entry models.Entry) error {
	log := logger.FromContext(ctx)

	desiredIDs, err := s.resolveTagIDs(ctx, entry.UserID, entry.Tags)
	if err != nil {
		log.Err(err).
			Str("func", "entryService.reconcileTags").
			Str("entry ID", entry.ID).
			Msg("tag catalogue resolution failed, tag sync skipped")
		return fmt.Errorf("%w: %w", ErrTagSyncFailed, err)
	}

	currentIDs, err := s.tags.GetEntryTagIDs(ctx, entry.ID)
	if err != nil {
		log.Err(err).
			Str("func", "entryService.reconcileTags").
			Str("entry ID", entry.ID).
			Msg("reading current tag relations failed, tag sync skipped")
		return nil
	}

	toInsert, toDelete := diffKeys(desiredIDs, currentIDs)

	if err = s.tags.InsertEntryTags(ctx, entry.ID, toInsert); err != nil {
		log.Err(err).
			Str("func", "entryService.reconcileTags").
			Str("entry ID", entry.ID).
			Msg("inserting tag relations failed, deletes skipped")
		return nil
	}
	if err = s.tags.DeleteEntryTags(ctx, entry.ID, toDelete); err != nil {
		log.Err(err).
			Str("func", "entryService.reconcileTags").
			Str("entry ID", entry.ID).
			Msg("deleting stale tag relations failed")
	}

	return nil
}

// resolveTagIDs maps tag display names to catalogue IDs, creating missing
// tags with their original casing. Names deduplicate case-insensitively; the
// first casing encountered wins.
func (s *entryService) resolveTagIDs(ctx context.Context, userID string, names []string) ([]int64, error) {
	var normalized, display []string
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		norm := models.NormalizeTagName(name)
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		normalized = append(normalized, norm)
		display = append(display, strings.TrimSpace(name))
	}
	if len(normalized) == 0 {
		return nil, nil
	}

	existing, err := s.tags.FindTagsByNames(ctx, userID, normalized)
	if err != nil {
		return nil, err
	}

	idsByName := make(map[string]int64, len(normalized))
	for _, tag := range existing {
		idsByName[tag.NormalizedName()] = tag.ID
	}

	var missing []string
	for i, norm := range normalized {
		if _, found := idsByName[norm]; !found {
			missing = append(missing, display[i])
		}
	}
	if len(missing) > 0 {
		created, err := s.tags.CreateTags(ctx, userID, missing)
		if err != nil {
			return nil, err
		}
		for _, tag := range created {
			idsByName[tag.NormalizedName()] = tag.ID
		}
	}

	ids := make([]int64, 0, len(normalized))
	for _, norm := range normalized {
		if id, found := idsByName[norm]; found {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// reconcileImages brings the entry_images rows to the entry's desired image
// set. Inserts run before deletes, same as tags.
func (s *entryService) reconcileImages(ctx context.Context, entry models.Entry) {
	log := logger.FromContext(ctx)

	desired := dedupeKeys(entry.Images)

	current, err := s.images.GetEntryImageURLs(ctx, entry.ID)
	if err != nil {
		log.Err(err).
			Str("func", "entryService.reconcileImages").
			Str("entry ID", entry.ID).
			Msg("reading current image relations failed, image sync skipped")
		return
	}

	plan := BuildRelationPlan(desired, current)

	if err = s.images.InsertEntryImages(ctx, entry.UserID, entry.ID, plan.ToInsert); err != nil {
		log.Err(err).
			Str("func", "entryService.reconcileImages").
			Str("entry ID", entry.ID).
			Msg("inserting image relations failed, deletes skipped")
		return
	}
	if err = s.images.DeleteEntryImages(ctx, entry.ID, plan.ToDelete); err != nil {
		log.Err(err).
			Str("func", "entryService.reconcileImages").
			Str("entry ID", entry.ID).
			Msg("deleting stale image relations failed")
	}
}

// LoadEntries implements [EntryService]. Entries come back newest first with
// their tag names and image URLs attached through two batched queries.
// Overlay focal points take precedence over the row values, and entries
// still carrying inline image payloads are migrated and re-persisted on the
// way out.
func (s *entryService) LoadEntries(ctx context.Context, userID string) ([]models.Entry, error) {
	if userID == "" {
		return nil, ErrValidationNoUserID
	}

	entries, err := s.entries.GetEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}

	entryIDs := make([]string, len(entries))
	for i := range entries {
		entryIDs[i] = entries[i].ID
	}

	tagsByEntry, err := s.tags.TagNamesByEntryIDs(ctx, entryIDs)
	if err != nil {
		return nil, err
	}
	imagesByEntry, err := s.images.ImageURLsByEntryIDs(ctx, entryIDs)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Tags = tagsByEntry[entries[i].ID]
		entries[i].Images = imagesByEntry[entries[i].ID]
		s.applyOverlayPosition(ctx, &entries[i])
	}

	for i := range entries {
		migrated, migratedChanged := s.migrator.MigrateInlineImages(ctx, entries[i])
		if !migratedChanged {
			continue
		}
		entries[i] = migrated
		s.persistMigration(ctx, migrated)
	}

	return entries, nil
}

// GetEntry implements [EntryService].
func (s *entryService) GetEntry(ctx context.Context, userID, entryID string) (models.Entry, error) {
	if userID == "" {
		return models.Entry{}, ErrValidationNoUserID
	}
	if entryID == "" {
		return models.Entry{}, ErrValidationNoEntryID
	}

	entry, err := s.entries.GetEntry(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return models.Entry{}, ErrEntryNotFound
		}
		return models.Entry{}, err
	}

	tagsByEntry, err := s.tags.TagNamesByEntryIDs(ctx, []string{entryID})
	if err != nil {
		return models.Entry{}, err
	}
	entry.Tags = tagsByEntry[entryID]

	entry.Images, err = s.images.GetEntryImageURLs(ctx, entryID)
	if err != nil {
		return models.Entry{}, err
	}

	s.applyOverlayPosition(ctx, &entry)

	if migrated, migratedChanged := s.migrator.MigrateInlineImages(ctx, entry); migratedChanged {
		entry = migrated
		s.persistMigration(ctx, migrated)
	}

	return entry, nil
}

func (s *entryService) applyOverlayPosition(ctx context.Context, entry *models.Entry) {
	log := logger.FromContext(ctx)

	position, found, err := s.overlay.GetCoverPosition(ctx, entry.ID)
	if err != nil {
		log.Warn().Err(err).
			Str("func", "entryService.applyOverlayPosition").
			Str("entry ID", entry.ID).
			Msg("overlay read failed, using row focal point")
		return
	}
	if found {
		entry.CoverPosition = position
	}
}

// persistMigration writes migrated image references back so the migration
// happens once per reference. Failures are logged; the caller still serves
// the migrated values.
func (s *entryService) persistMigration(ctx context.Context, entry models.Entry) {
	log := logger.FromContext(ctx)

	unlock := s.saveLocks.Lock(entry.ID)
	defer unlock()

	if _, err := s.entries.UpsertEntry(ctx, entry); err != nil {
		log.Err(err).
			Str("func", "entryService.persistMigration").
			Str("entry ID", entry.ID).
			Msg("persisting migrated image references failed")
		return
	}
	s.reconcileImages(ctx, entry)
}

// DeleteEntry implements [EntryService]. Blob objects and relation rows are
// cleaned up best effort before the entry row delete, which is the only hard
// failure. All removable object paths are batched into one request per
// bucket.
func (s *entryService) DeleteEntry(ctx context.Context, userID, entryID string) error {
	log := logger.FromContext(ctx)

	if userID == "" {
		return ErrValidationNoUserID
	}
	if entryID == "" {
		return ErrValidationNoEntryID
	}

	unlock := s.saveLocks.Lock(entryID)
	defer unlock()

	entry, err := s.entries.GetEntry(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	imageURLs, err := s.images.GetEntryImageURLs(ctx, entryID)
	if err != nil {
		log.Warn().Err(err).
			Str("func", "entryService.DeleteEntry").
			Str("entry ID", entryID).
			Msg("reading image relations failed, blob cleanup may be partial")
	}

	s.removeBlobs(ctx, append(imageURLs, entry.CoverImage))

	if err = s.images.DeleteAllEntryImages(ctx, entryID); err != nil {
		log.Warn().Err(err).
			Str("func", "entryService.DeleteEntry").
			Str("entry ID", entryID).
			Msg("deleting image relations failed")
	}
	if err = s.tags.DeleteAllEntryTags(ctx, entryID); err != nil {
		log.Warn().Err(err).
			Str("func", "entryService.DeleteEntry").
			Str("entry ID", entryID).
			Msg("deleting tag relations failed")
	}

	if err = s.entries.DeleteEntry(ctx, userID, entryID); err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	if err = s.overlay.DeleteCoverPosition(ctx, entryID); err != nil {
		log.Warn().Err(err).
			Str("func", "entryService.DeleteEntry").
			Str("entry ID", entryID).
			Msg("overlay focal point was not cleared")
	}

	return nil
}

// removeBlobs deletes the object-storage blobs behind the given references.
// Inline payloads and foreign URLs are skipped; duplicates collapse so each
// bucket receives at most one batched request.
func (s *entryService) removeBlobs(ctx context.Context, refs []string) {
	log := logger.FromContext(ctx)

	pathsByBucket := make(map[string][]string)
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		bucket, path, ok := s.blobStore.ParsePublicURL(ref)
		if !ok {
			continue
		}
		key := bucket + "/" + path
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		pathsByBucket[bucket] = append(pathsByBucket[bucket], path)
	}

	for bucket, paths := range pathsByBucket {
		if err := s.blobStore.Remove(ctx, bucket, paths); err != nil {
			log.Warn().Err(err).
				Str("func", "entryService.removeBlobs").
				Str("bucket", bucket).
				Int("paths count", len(paths)).
				Msg("blob removal failed")
		}
	}
}

// SetFavorite implements [EntryService].
func (s *entryService) SetFavorite(ctx context.Context, userID, entryID string, favorite bool) error {
	if userID == "" {
		return ErrValidationNoUserID
	}
	if entryID == "" {
		return ErrValidationNoEntryID
	}

	if err := s.entries.SetFavorite(ctx, userID, entryID, favorite); err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	return nil
}

// PublishEntry implements [EntryService].
func (s *entryService) PublishEntry(ctx context.Context, userID, entryID string) error {
	if userID == "" {
		return ErrValidationNoUserID
	}
	if entryID == "" {
		return ErrValidationNoEntryID
	}

	if err := s.entries.SetVisibility(ctx, userID, entryID, models.VisibilityPublic); err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	return nil
}
