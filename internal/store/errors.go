package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEntryNotFound is returned when a query targets an entry
	// (identified by id and user_id) that does not exist in the database.
	ErrEntryNotFound = errors.New("entry was not found")

	// ErrEntryNotSaved is returned when an entry upsert completes without
	// error but the number of affected rows is zero, indicating that no
	// data was actually persisted.
	ErrEntryNotSaved = errors.New("entry was not saved")

	// ErrTagNotSaved is returned when a tag catalogue insert completes
	// without error but produces no row.
	ErrTagNotSaved = errors.New("tag was not saved")

	// ErrProfileNotSaved is returned when every strategy of the
	// schema-adaptive profile writer fails. The last underlying cause is
	// wrapped alongside it.
	ErrProfileNotSaved = errors.New("profile was not saved")

	// ErrSchemaMismatch is returned when the remote schema lacks a column
	// the operation needs (PostgreSQL undefined_column). Callers degrade
	// to the overlay cache or prune the offending field.
	ErrSchemaMismatch = errors.New("remote schema mismatch")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrPreparingStatement is returned when a SQL statement cannot be
	// prepared (e.g. syntax error or connection issue).
	ErrPreparingStatement = errors.New("failed to prepare statement")

	// ErrExecutingStatement is returned when executing a prepared DML
	// statement (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
