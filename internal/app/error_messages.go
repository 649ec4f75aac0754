// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// go-journal-keeper server handlers and middleware.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries to describe the outcome of an operation.
// Keeping them in one place ensures consistent wording throughout the API.
package app

const (
	// MsgInvalidJSON is returned when the request body cannot be decoded.
	MsgInvalidJSON = "invalid JSON was passed"

	// MsgMissingUserIdentity is returned when no user identity was resolved
	// for the request.
	MsgMissingUserIdentity = "missing user identity"

	// MsgErrorLoadingEntries is returned when the journal entries of a user
	// cannot be read.
	MsgErrorLoadingEntries = "error loading entries"

	// MsgErrorLoadingEntry is returned when a single entry cannot be read.
	MsgErrorLoadingEntry = "error loading entry"

	// MsgErrorSavingEntry is returned when the entry upsert fails.
	MsgErrorSavingEntry = "error saving entry"

	// MsgErrorDeletingEntry is returned when the entry row delete fails.
	MsgErrorDeletingEntry = "error deleting entry"

	// MsgErrorUpdatingFavorite is returned when the favorite flag update
	// fails.
	MsgErrorUpdatingFavorite = "error updating favorite flag"

	// MsgErrorPublishingEntry is returned when the visibility update fails.
	MsgErrorPublishingEntry = "error publishing entry"

	// MsgErrorSavingProfile is returned when the profile write fails on
	// every known strategy.
	MsgErrorSavingProfile = "error saving profile"

	// MsgErrorUploadingAvatar is returned when the avatar cannot be stored.
	MsgErrorUploadingAvatar = "error uploading avatar"

	// MsgEmptyAvatarPayload is returned when an avatar upload carries no
	// body.
	MsgEmptyAvatarPayload = "empty or unreadable avatar payload"
)
