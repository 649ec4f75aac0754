// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package blob provides the object-storage adapter for entry images and
// profile avatars.
//
// The primary abstraction is [BlobStore], which decouples the service layer
// from the storage wire protocol. The package ships an HTTP implementation
// ([NewHTTPBlobStore]) speaking the conventional
// /storage/v1/object/... endpoint shape.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrBucketNotFound] for 404).
package blob

import "context"

// BlobStore defines transport-agnostic access to the object-storage backend.
// Implementations are responsible for authentication headers and for mapping
// transport-level errors to the sentinel values defined in this package.
type BlobStore interface {
	// Upload stores data under bucket/path with the given content type and
	// returns the durable public URL of the object. An existing object at
	// the same path is replaced.
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)

	// Remove deletes the given object paths from a bucket in one request.
	// Paths that no longer exist are not an error.
	Remove(ctx context.Context, bucket string, paths []string) error

	// List probes a bucket by listing at most one object. Used at startup
	// to verify the configured buckets exist.
	List(ctx context.Context, bucket string) error

	// PublicURL builds the durable public URL of an object without any
	// network round trip.
	PublicURL(bucket, path string) string

	// ParsePublicURL inverts PublicURL. ok is false when rawURL is not a
	// public object URL of this store.
	ParsePublicURL(rawURL string) (bucket, path string, ok bool)
}
