package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidSchemaConfigs indicates an unrecognized schema capability
	// value (for example, an unknown profile key column name).
	ErrInvalidSchemaConfigs = errors.New("invalid schema configuration")
	// ErrInvalidServerConfigs indicates invalid server or blob transport
	// settings (for example, a negative request timeout).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a negative auto-save interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
