package framesql

import "errors"

// Standard errors returned by write and read operations. Engine errors
// (statement failures, constraint violations, sync failures) are wrapped
// with context and surfaced unmodified otherwise.
var (
	// ErrTableExists is returned when the target table already exists and
	// the existence policy is ExistsFail.
	ErrTableExists = errors.New("framesql: table already exists")

	// ErrInvalidChunkSize is returned when the configured chunk size is
	// zero or negative.
	ErrInvalidChunkSize = errors.New("framesql: chunk size must be positive")

	// ErrConstraintColumns is returned when a primary-key, unique-group,
	// index, or upsert column does not exist in the written columns.
	ErrConstraintColumns = errors.New("framesql: constraint references unknown column")

	// ErrEmptyFrame is returned when a frame has no columns.
	ErrEmptyFrame = errors.New("framesql: frame has no columns")

	// ErrDuplicateColumn is returned when a frame declares the same column
	// name twice.
	ErrDuplicateColumn = errors.New("framesql: duplicate column name")

	// ErrColumnLength is returned when frame columns have differing lengths.
	ErrColumnLength = errors.New("framesql: columns must have equal length")

	// ErrUnsupportedFile is returned by FromPath for file types it does not
	// recognize.
	ErrUnsupportedFile = errors.New("framesql: unsupported file type")

	// ErrEmptyData is returned by the file loaders for inputs without a
	// header row.
	ErrEmptyData = errors.New("framesql: empty data source")
)
