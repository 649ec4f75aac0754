package blob

import "errors"

var (
	ErrBadRequest     = errors.New("storage rejected the request")
	ErrUnauthorized   = errors.New("storage authorization failed")
	ErrBucketNotFound = errors.New("bucket or object was not found")
	ErrStorageFailure = errors.New("storage request failed")
)
