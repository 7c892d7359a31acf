package store

import "errors"

// ErrKeyNotFound is returned by Get for a key that was never set or was
// removed. Callers should use [errors.Is] to match against it.
var ErrKeyNotFound = errors.New("key not found")

// Low-level database operation errors. These are returned (or wrapped) by
// storage methods when a SQL-level operation fails.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
