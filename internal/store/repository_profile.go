// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-journal-keeper/internal/config"
	"github.com/MKhiriev/go-journal-keeper/internal/logger"
)

// profileRepository is the schema-adaptive implementation of
// [ProfileRepository]. Profile tables drift across deployments: the key
// column is "id" on some and "user_id" on others, and optional columns
// ("bio", "avatar_url") may be missing entirely.
//
// Writes therefore run through a strategy chain:
//  1. UPDATE keyed on the primary candidate column
//  2. UPDATE keyed on the alternate column
//  3. plain INSERT carrying the primary candidate column
//
// The first strategy that affects a row wins; the write fails only when all
// three do, and the returned error wraps the last underlying cause.
//
// In auto mode the repository probes one row before the first write to
// discover the actual column set; fields naming unknown columns are pruned
// from the payload so one missing column never sinks the whole write. When
// the probe itself fails the payload is written unpruned.
type profileRepository struct {
	*DB
	logger *logger.Logger
	schema config.Schema

	probeOnce sync.Once
	columns   map[string]struct{}
}

// NewProfileRepository constructs a [ProfileRepository] backed by the
// provided database connection. The schema configuration selects the key
// column strategy ("id", "user_id", or "auto").
func NewProfileRepository(db *DB, schema config.Schema, logger *logger.Logger) ProfileRepository {
	return &profileRepository{
		DB:     db,
		logger: logger,
		schema: schema,
	}
}

// UpsertProfileFields persists the given column->value payload for a user
// through the strategy chain described on [profileRepository].
func (r *profileRepository) UpsertProfileFields(ctx context.Context, userID string, fields map[string]any) error {
	log := logger.FromContext(ctx)

	if len(fields) == 0 {
		return nil
	}

	r.probeOnce.Do(func() { r.probeColumns(ctx) })

	pruned := r.pruneFields(fields)
	if len(pruned) == 0 {
		log.Warn().
			Str("func", "profileRepository.UpsertProfileFields").
			Str("user_id", userID).
			Msg("every payload field was pruned, profiles table carries none of them")
		return nil
	}

	primary, alternate := r.keyColumns()

	var lastErr error
	for _, keyColumn := range []string{primary, alternate} {
		updated, err := r.updateByKey(ctx, keyColumn, userID, pruned)
		if err != nil {
			log.Warn().Err(err).
				Str("func", "profileRepository.UpsertProfileFields").
				Str("user_id", userID).
				Str("key_column", keyColumn).
				Msg("keyed profile update failed, trying next strategy")
			lastErr = err
			continue
		}
		if updated {
			return nil
		}
	}

	// No row matched either key: create one.
	if err := r.insert(ctx, primary, userID, pruned); err != nil {
		log.Err(err).
			Str("func", "profileRepository.UpsertProfileFields").
			Str("user_id", userID).
			Msg("all profile write strategies failed")
		lastErr = err
		return fmt.Errorf("%w: %w", ErrProfileNotSaved, lastErr)
	}

	return nil
}

func (r *profileRepository) updateByKey(ctx context.Context, keyColumn, userID string, fields map[string]any) (bool, error) {
	query, args, err := buildProfileUpdateQuery(keyColumn, userID, fields)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, execErr := r.DB.ExecContext(ctx, query, args...)
	if execErr != nil {
		if IsUndefinedColumn(execErr) {
			return false, fmt.Errorf("%w: %w", ErrSchemaMismatch, execErr)
		}
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

func (r *profileRepository) insert(ctx context.Context, keyColumn, userID string, fields map[string]any) error {
	query, args, err := buildProfileInsertQuery(keyColumn, userID, fields)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, execErr := r.DB.ExecContext(ctx, query, args...); execErr != nil {
		if IsUndefinedColumn(execErr) {
			return fmt.Errorf("%w: %w", ErrSchemaMismatch, execErr)
		}
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	return nil
}

// probeColumns discovers the column set of the profiles table from a single
// row. Runs once, only in auto mode. A failed probe leaves columns nil,
// which disables pruning.
func (r *profileRepository) probeColumns(ctx context.Context) {
	if r.schema.ProfileKeyColumn != config.ProfileKeyAuto &&
		r.schema.ProfileKeyColumn != "" {
		return
	}

	rows, err := r.DB.QueryContext(ctx, probeProfileColumns)
	if err != nil {
		r.logger.Warn().Err(err).
			Str("func", "profileRepository.probeColumns").
			Msg("profile column probe failed, writing unpruned")
		return
	}
	defer rows.Close()

	columnNames, err := rows.Columns()
	if err != nil {
		r.logger.Warn().Err(err).
			Str("func", "profileRepository.probeColumns").
			Msg("failed to read probe columns, writing unpruned")
		return
	}

	columns := make(map[string]struct{}, len(columnNames))
	for _, name := range columnNames {
		columns[name] = struct{}{}
	}
	r.columns = columns

	r.logger.Debug().
		Str("func", "profileRepository.probeColumns").
		Strs("columns", columnNames).
		Msg("discovered profiles column set")
}

// pruneFields drops payload entries naming columns the probed table does not
// have. Without probe results the payload passes through untouched.
func (r *profileRepository) pruneFields(fields map[string]any) map[string]any {
	if r.columns == nil {
		return fields
	}

	pruned := make(map[string]any, len(fields))
	for column, value := range fields {
		if _, ok := r.columns[column]; ok {
			pruned[column] = value
		}
	}

	return pruned
}

// keyColumns returns the candidate key columns in attempt order.
func (r *profileRepository) keyColumns() (primary, alternate string) {
	switch r.schema.ProfileKeyColumn {
	case config.ProfileKeyID:
		return config.ProfileKeyID, config.ProfileKeyUserID
	case config.ProfileKeyUserID:
		return config.ProfileKeyUserID, config.ProfileKeyID
	}

	// Auto: prefer whichever key the probed column set carries.
	if r.columns != nil {
		if _, ok := r.columns[config.ProfileKeyUserID]; ok {
			return config.ProfileKeyUserID, config.ProfileKeyID
		}
	}

	return config.ProfileKeyID, config.ProfileKeyUserID
}
