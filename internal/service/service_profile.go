package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-journal-keeper/internal/blob"
	"github.com/MKhiriev/go-journal-keeper/internal/config"
	"github.com/MKhiriev/go-journal-keeper/internal/logger"
	"github.com/MKhiriev/go-journal-keeper/internal/store"
	"github.com/MKhiriev/go-journal-keeper/internal/validators"
	"github.com/MKhiriev/go-journal-keeper/models"
)

type profileService struct {
	profiles  store.ProfileRepository
	blobStore blob.BlobStore
	bucket    string

	validator validators.Validator
	now       func() time.Time

	logger *logger.Logger
}

// NewProfileService wires the schema-adaptive profile repository and the
// avatar bucket into the [ProfileService] implementation.
func NewProfileService(profiles store.ProfileRepository, blobStore blob.BlobStore, cfg config.Blob, logger *logger.Logger) ProfileService {
	return &profileService{
		profiles:  profiles,
		blobStore: blobStore,
		bucket:    cfg.ProfileAvatarsBucket,
		validator: validators.NewJournalValidator(),
		now:       time.Now,
		logger:    logger,
	}
}

// SaveProfile implements [ProfileService]. The column map goes through the
// schema-adaptive writer, which prunes attributes the deployment's profiles
// table does not carry.
func (s *profileService) SaveProfile(ctx context.Context, profile models.Profile) error {
	if err := s.validator.Validate(ctx, profile); err != nil {
		return err
	}

	return s.profiles.UpsertProfileFields(ctx, profile.UserID, profile.Fields())
}

// SaveAvatar implements [ProfileService]. The upload is the hard step; the
// follow-up avatar_url write is best effort because the object is already
// durable and addressable once uploaded.
func (s *profileService) SaveAvatar(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return "", ErrValidationNoUserID
	}

	path := fmt.Sprintf("%s/avatar-%d.%s", userID, s.now().UnixMilli(), extensionFor(contentType))

	publicURL, err := s.blobStore.Upload(ctx, s.bucket, path, data, contentType)
	if err != nil {
		log.Err(err).
			Str("func", "profileService.SaveAvatar").
			Str("path", path).
			Msg("avatar upload failed")
		return "", err
	}

	if err = s.profiles.UpsertProfileFields(ctx, userID, map[string]any{"avatar_url": publicURL}); err != nil {
		log.Warn().Err(err).
			Str("func", "profileService.SaveAvatar").
			Str("user ID", userID).
			Msg("avatar uploaded but profile row was not updated")
	}

	return publicURL, nil
}
