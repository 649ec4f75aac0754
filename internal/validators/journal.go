package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-journal-keeper/models"
)

// Field names accepted by [JournalValidator.Validate] for scoped validation.
const (
	FieldUserID     = "user_id"
	FieldEntryID    = "entry_id"
	FieldVisibility = "visibility"
)

type JournalValidator struct {
}

func NewJournalValidator() Validator {
	return &JournalValidator{}
}

// Validate checks journal models. With no fields given, every known rule for
// the model runs; otherwise only the named fields are checked.
func (v *JournalValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Entry:
		return v.validateEntry(ctx, value, fields...)
	case *models.Entry:
		return v.validateEntry(ctx, *value, fields...)

	case models.Profile:
		return v.validateProfile(ctx, value)
	case *models.Profile:
		return v.validateProfile(ctx, *value)

	default:
		return fmt.Errorf("unsupported type for validation: %T", obj)
	}
}

func (v *JournalValidator) validateEntry(_ context.Context, entry models.Entry, fields ...string) error {
	scoped := newFieldScope(fields)

	if scoped.has(FieldUserID) && entry.UserID == "" {
		return ErrNoUserID
	}
	if scoped.has(FieldEntryID) && entry.ID == "" {
		return ErrNoEntryID
	}
	// an empty visibility is filled with the default later, only set values
	// are checked
	if scoped.has(FieldVisibility) && entry.Visibility != "" && !entry.Visibility.Valid() {
		return ErrBadVisibility
	}

	return nil
}

func (v *JournalValidator) validateProfile(_ context.Context, profile models.Profile) error {
	if profile.UserID == "" {
		return ErrNoUserID
	}

	return nil
}

// fieldScope resolves which fields a Validate call covers. An empty scope
// covers everything.
type fieldScope map[string]struct{}

func newFieldScope(fields []string) fieldScope {
	if len(fields) == 0 {
		return nil
	}
	scope := make(fieldScope, len(fields))
	for _, field := range fields {
		scope[field] = struct{}{}
	}
	return scope
}

func (s fieldScope) has(field string) bool {
	if s == nil {
		return true
	}
	_, ok := s[field]
	return ok
}
