package validators

import "errors"

// Validation sentinels. The service layer re-exports them so transport code
// can map them to HTTP statuses without importing this package.
var (
	ErrNoUserID      = errors.New("no user ID was given")
	ErrNoEntryID     = errors.New("no entry ID was given")
	ErrBadVisibility = errors.New("unknown visibility value")
)
