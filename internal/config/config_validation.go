// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Empty schema fields are allowed here; merge order guarantees the defaults
// fill them when GetStructuredConfig is used, and tests build partial configs.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Schema.ProfileKeyColumn {
	case "", ProfileKeyID, ProfileKeyUserID, ProfileKeyAuto:
	default:
		return ErrInvalidSchemaConfigs
	}

	switch cfg.Schema.CoverPosition {
	case "", CoverPositionRemote, CoverPositionOverlay, CoverPositionAuto:
	default:
		return ErrInvalidSchemaConfigs
	}

	if cfg.Server.RequestTimeout < 0 || cfg.Blob.RequestTimeout < 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Workers.AutoSaveInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
