package service

import (
	"errors"

	"github.com/MKhiriev/go-journal-keeper/internal/validators"
)

// The validation sentinels are shared with the validators package so that
// errors.Is matches across layers.
var (
	ErrValidationNoUserID      = validators.ErrNoUserID
	ErrValidationNoEntryID     = validators.ErrNoEntryID
	ErrValidationBadVisibility = validators.ErrBadVisibility

	ErrEntryNotFound = errors.New("entry was not found")

	// ErrTagSyncFailed wraps a tag catalogue lookup or creation failure
	// during a save. The entry row itself is already committed when it is
	// returned.
	ErrTagSyncFailed = errors.New("tag synchronization failed")
)
