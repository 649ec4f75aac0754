// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-journal-keeper/internal/blob"
	"github.com/MKhiriev/go-journal-keeper/internal/config"
	"github.com/MKhiriev/go-journal-keeper/internal/logger"
	"github.com/MKhiriev/go-journal-keeper/internal/utils"
	"github.com/MKhiriev/go-journal-keeper/models"
)

// Object name prefixes distinguish migrated gallery images from migrated
// covers inside the same <userID>/<entryID>/ folder.
const (
	galleryObjectPrefix = "migr"
	coverObjectPrefix   = "cover-migr"
)

const inlineURLScheme = "data:"

type imageMigrator struct {
	blobStore blob.BlobStore
	bucket    string

	uuid *utils.UUIDGenerator
	now  func() time.Time

	logger *logger.Logger
}

// NewImageMigrator returns the [ImageMigrator] that uploads inline payloads
// to the entry-images bucket.
func NewImageMigrator(blobStore blob.BlobStore, cfg config.Blob, logger *logger.Logger) ImageMigrator {
	return &imageMigrator{
		blobStore: blobStore,
		bucket:    cfg.EntryImagesBucket,
		uuid:      utils.NewUUIDGenerator(),
		now:       time.Now,
		logger:    logger,
	}
}

// MigrateInlineImages implements [ImageMigrator]. Every data-URL reference
// among the gallery images and the cover is decoded and uploaded; successful
// uploads replace the inline value with the returned durable URL. A
// reference that fails to decode or upload keeps its inline value and the
// remaining references are still processed. Durable URLs pass through
// untouched, so replaying the migration on an already-migrated entry changes
// nothing.
func (m *imageMigrator) MigrateInlineImages(ctx context.Context, entry models.Entry) (models.Entry, bool) {
	changed := false

	images := make([]string, len(entry.Images))
	copy(images, entry.Images)
	for i, ref := range images {
		if migrated, ok := m.migrateReference(ctx, entry, ref, galleryObjectPrefix); ok {
			images[i] = migrated
			changed = true
		}
	}
	entry.Images = images

	if migrated, ok := m.migrateReference(ctx, entry, entry.CoverImage, coverObjectPrefix); ok {
		entry.CoverImage = migrated
		changed = true
	}

	return entry, changed
}

func (m *imageMigrator) migrateReference(ctx context.Context, entry models.Entry, ref, prefix string) (string, bool) {
	log := logger.FromContext(ctx)

	if !strings.HasPrefix(ref, inlineURLScheme) {
		return "", false
	}

	data, contentType, err := decodeDataURL(ref)
	if err != nil {
		log.Warn().Err(err).
			Str("func", "imageMigrator.migrateReference").
			Str("entry ID", entry.ID).
			Msg("undecodable inline image kept as is")
		return "", false
	}

	path := m.objectPath(entry, prefix, extensionFor(contentType))
	publicURL, err := m.blobStore.Upload(ctx, m.bucket, path, data, contentType)
	if err != nil {
		log.Warn().Err(err).
			Str("func", "imageMigrator.migrateReference").
			Str("entry ID", entry.ID).
			Str("path", path).
			Msg("inline image upload failed, reference kept inline")
		return "", false
	}

	return publicURL, true
}

func (m *imageMigrator) objectPath(entry models.Entry, prefix, ext string) string {
	return fmt.Sprintf("%s/%s/%s-%d-%s.%s", entry.UserID, entry.ID, prefix, m.now().UnixMilli(), m.uuid.Generate(), ext)
}

// decodeDataURL splits a data:[<mediatype>];base64,<payload> reference into
// its decoded bytes and content type. Only base64 payloads are supported.
func decodeDataURL(raw string) ([]byte, string, error) {
	meta, payload, found := strings.Cut(strings.TrimPrefix(raw, inlineURLScheme), ",")
	if !found {
		return nil, "", errors.New("malformed data url: no payload separator")
	}

	meta, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", errors.New("unsupported data url encoding")
	}

	contentType := meta
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decoding data url payload: %w", err)
	}

	return data, contentType, nil
}

// extensionFor derives a file extension from a content type.
// "image/svg+xml" maps to "svg"; unknown shapes fall back to "png".
func extensionFor(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	_, subtype, found := strings.Cut(mediaType, "/")
	if !found || subtype == "" {
		return "png"
	}
	if base, _, suffixed := strings.Cut(subtype, "+"); suffixed {
		return base
	}
	return subtype
}
