package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/MKhiriev/go-journal-keeper/internal/logger"
	"github.com/MKhiriev/go-journal-keeper/internal/utils"
	"github.com/MKhiriev/go-journal-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMigrator(blobStore *fakeBlobStore) *imageMigrator {
	return &imageMigrator{
		blobStore: blobStore,
		bucket:    "entry-images",
		uuid:      utils.NewUUIDGenerator(),
		now:       func() time.Time { return time.UnixMilli(1700000000000) },
		logger:    logger.Nop(),
	}
}

func TestMigrateInlineImages_UploadsDataURLs(t *testing.T) {
	blobStore := &fakeBlobStore{}
	migrator := newTestMigrator(blobStore)

	entry := models.Entry{
		ID:     "e-1",
		UserID: "u-1",
		Images: []string{"data:image/png;base64,AAAA", "data:image/png;base64,BBBB"},
	}

	migrated, changed := migrator.MigrateInlineImages(context.Background(), entry)

	require.True(t, changed)
	require.Len(t, blobStore.uploads, 2)

	pathPattern := regexp.MustCompile(`^u-1/e-1/migr-1700000000000-[0-9a-f-]+\.png$`)
	for i, upload := range blobStore.uploads {
		assert.Equal(t, "entry-images", upload.bucket)
		assert.Regexp(t, pathPattern, upload.path)
		assert.Equal(t, "image/png", upload.contentType)
		assert.Equal(t, migrated.Images[i], blobStore.PublicURL(upload.bucket, upload.path))
	}

	// base64 "AAAA" and "BBBB" decode to three bytes each
	assert.Equal(t, []byte{0x00, 0x00, 0x00}, blobStore.uploads[0].data)
	assert.Equal(t, []byte{0x04, 0x10, 0x41}, blobStore.uploads[1].data)

	assert.NotEqual(t, migrated.Images[0], migrated.Images[1])
}

func TestMigrateInlineImages_CoverUsesOwnPrefix(t *testing.T) {
	blobStore := &fakeBlobStore{}
	migrator := newTestMigrator(blobStore)

	entry := models.Entry{ID: "e-1", UserID: "u-1", CoverImage: "data:image/jpeg;base64,AAAA"}

	migrated, changed := migrator.MigrateInlineImages(context.Background(), entry)

	require.True(t, changed)
	require.Len(t, blobStore.uploads, 1)
	assert.Regexp(t, `^u-1/e-1/cover-migr-1700000000000-[0-9a-f-]+\.jpeg$`, blobStore.uploads[0].path)
	assert.Equal(t, blobStore.PublicURL("entry-images", blobStore.uploads[0].path), migrated.CoverImage)
}

func TestMigrateInlineImages_DurableURLsPassThrough(t *testing.T) {
	blobStore := &fakeBlobStore{}
	migrator := newTestMigrator(blobStore)

	entry := models.Entry{
		ID:         "e-1",
		UserID:     "u-1",
		CoverImage: "https://blob.test/storage/v1/object/public/entry-images/u-1/e-1/cover.png",
		Images:     []string{"https://blob.test/storage/v1/object/public/entry-images/u-1/e-1/a.png"},
	}

	migrated, changed := migrator.MigrateInlineImages(context.Background(), entry)

	assert.False(t, changed)
	assert.Equal(t, entry.CoverImage, migrated.CoverImage)
	assert.Equal(t, entry.Images, migrated.Images)
	assert.Empty(t, blobStore.uploads)
}

func TestMigrateInlineImages_UploadFailureKeepsInlineValue(t *testing.T) {
	blobStore := &fakeBlobStore{uploadErr: errors.New("storage down")}
	migrator := newTestMigrator(blobStore)

	entry := models.Entry{ID: "e-1", UserID: "u-1", Images: []string{"data:image/png;base64,AAAA"}}

	migrated, changed := migrator.MigrateInlineImages(context.Background(), entry)

	assert.False(t, changed)
	assert.Equal(t, entry.Images, migrated.Images)
}

func TestMigrateInlineImages_BadPayloadDoesNotStopOthers(t *testing.T) {
	blobStore := &fakeBlobStore{}
	migrator := newTestMigrator(blobStore)

	entry := models.Entry{
		ID:     "e-1",
		UserID: "u-1",
		Images: []string{"data:image/png;base64,!!!!", "data:image/png;base64,AAAA"},
	}

	migrated, changed := migrator.MigrateInlineImages(context.Background(), entry)

	require.True(t, changed)
	assert.Equal(t, "data:image/png;base64,!!!!", migrated.Images[0])
	assert.NotEqual(t, entry.Images[1], migrated.Images[1])
	require.Len(t, blobStore.uploads, 1)
}

func TestMigrateInlineImages_DoesNotMutateInput(t *testing.T) {
	blobStore := &fakeBlobStore{}
	migrator := newTestMigrator(blobStore)

	images := []string{"data:image/png;base64,AAAA"}
	entry := models.Entry{ID: "e-1", UserID: "u-1", Images: images}

	_, changed := migrator.MigrateInlineImages(context.Background(), entry)

	require.True(t, changed)
	assert.Equal(t, "data:image/png;base64,AAAA", images[0])
}

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		name            string
		raw             string
		wantData        []byte
		wantContentType string
		wantErr         bool
	}{
		{
			name:            "png payload",
			raw:             "data:image/png;base64,AAAA",
			wantData:        []byte{0x00, 0x00, 0x00},
			wantContentType: "image/png",
		},
		{
			name:            "missing media type defaults",
			raw:             "data:;base64,AAAA",
			wantData:        []byte{0x00, 0x00, 0x00},
			wantContentType: "application/octet-stream",
		},
		{
			name:    "no payload separator",
			raw:     "data:image/png",
			wantErr: true,
		},
		{
			name:    "unsupported encoding",
			raw:     "data:text/plain,hello",
			wantErr: true,
		},
		{
			name:    "broken base64",
			raw:     "data:image/png;base64,!!!!",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, contentType, err := decodeDataURL(tt.raw)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantData, data)
			assert.Equal(t, tt.wantContentType, contentType)
		})
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/png", "png"},
		{"image/jpeg", "jpeg"},
		{"image/svg+xml", "svg"},
		{"image/webp;charset=binary", "webp"},
		{"", "png"},
		{"image/", "png"},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, extensionFor(tt.contentType))
		})
	}
}
