package framesql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultChunkSize is the number of rows written per statement invocation
// when no chunk size is configured.
const DefaultChunkSize = 1000

// maxBindVariables is SQLITE_MAX_VARIABLE_NUMBER as compiled into current
// engines (the default since SQLite 3.32). A multi-row statement must not
// carry more placeholders than this, so wide frames flush in smaller batches
// than the configured chunk size.
const maxBindVariables = 32766

// ExistencePolicy controls what happens when the target table already exists.
type ExistencePolicy int

const (
	// ExistsAppend keeps the existing table and appends rows (default).
	ExistsAppend ExistencePolicy = iota
	// ExistsReplace drops the existing table and recreates it.
	ExistsReplace
	// ExistsFail aborts with ErrTableExists before any mutation.
	ExistsFail
)

// String returns the policy name.
func (p ExistencePolicy) String() string {
	switch p {
	case ExistsAppend:
		return "append"
	case ExistsReplace:
		return "replace"
	case ExistsFail:
		return "fail"
	default:
		return "append"
	}
}

// IndexSpec declares a secondary index created together with the table.
type IndexSpec struct {
	Name    string
	Columns []string
	Unique  bool
}

// WriteOptions configures one write operation. Construct with
// NewWriteOptions and adjust with the With* methods:
//
//	opts := framesql.NewWriteOptions("events").
//		WithIfExists(framesql.ExistsReplace).
//		WithChunkSize(500).
//		WithPrimaryKey("id").
//		WithUpsert([]string{"id"}, nil)
//
// The value is immutable for the duration of the call.
type WriteOptions struct {
	table           string
	ifExists        ExistencePolicy
	index           bool
	chunkSize       int
	primaryKey      []string
	uniqueGroups    [][]string
	indexes         []IndexSpec
	conflictColumns []string
	updateColumns   []string
	syncURL         string
	authToken       string
	logger          *zap.Logger
}

// NewWriteOptions creates write options for the named table with defaults:
// append policy, no index column, chunk size 1000, no constraints, no
// upsert, no remote sync.
func NewWriteOptions(table string) WriteOptions {
	return WriteOptions{
		table:     table,
		ifExists:  ExistsAppend,
		chunkSize: DefaultChunkSize,
		logger:    zap.NewNop(),
	}
}

// WithIfExists sets the existence policy.
func (o WriteOptions) WithIfExists(policy ExistencePolicy) WriteOptions {
	o.ifExists = policy
	return o
}

// WithIndex persists row positions as an INTEGER "index" column.
func (o WriteOptions) WithIndex(index bool) WriteOptions {
	o.index = index
	return o
}

// WithChunkSize sets the number of rows per statement invocation.
func (o WriteOptions) WithChunkSize(size int) WriteOptions {
	o.chunkSize = size
	return o
}

// WithPrimaryKey declares a table-level primary key over the given columns.
func (o WriteOptions) WithPrimaryKey(columns ...string) WriteOptions {
	o.primaryKey = columns
	return o
}

// WithUniqueGroup declares a table-level UNIQUE constraint over the given
// columns. Call repeatedly for multiple groups; constraints are emitted in
// declaration order.
func (o WriteOptions) WithUniqueGroup(columns ...string) WriteOptions {
	o.uniqueGroups = append(o.uniqueGroups, columns)
	return o
}

// WithIndexes declares secondary indexes created after the table, in order.
func (o WriteOptions) WithIndexes(indexes ...IndexSpec) WriteOptions {
	o.indexes = append(o.indexes, indexes...)
	return o
}

// WithUpsert turns inserts into upserts. conflictColumns is the ON CONFLICT
// target and must match a primary key, unique group, or unique index (the
// engine raises a constraint error otherwise). updateColumns names the
// columns updated on conflict; when nil, every insert column outside the
// conflict set is updated.
func (o WriteOptions) WithUpsert(conflictColumns, updateColumns []string) WriteOptions {
	o.conflictColumns = conflictColumns
	o.updateColumns = updateColumns
	return o
}

// WithSync configures the remote replica endpoint and credential. Empty
// values fall back to the LIBSQL_URL and LIBSQL_AUTH_TOKEN environment
// variables.
func (o WriteOptions) WithSync(syncURL, authToken string) WriteOptions {
	o.syncURL = syncURL
	o.authToken = authToken
	return o
}

// WithLogger sets the logger for debug-level write events. Defaults to a
// no-op logger.
func (o WriteOptions) WithLogger(logger *zap.Logger) WriteOptions {
	if logger != nil {
		o.logger = logger
	}
	return o
}

// validate checks the options against the frame being written.
func (o WriteOptions) validate(frame *Frame) error {
	if o.table == "" {
		return errors.New("framesql: table name must not be empty")
	}
	if o.chunkSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidChunkSize, o.chunkSize)
	}

	known := make(map[string]bool, frame.NumColumns()+1)
	for _, name := range frame.ColumnNames() {
		if o.index && strings.TrimSpace(name) == indexColumnName {
			return fmt.Errorf("%w: %s collides with the index column", ErrDuplicateColumn, name)
		}
		known[name] = true
	}
	if o.index {
		known[indexColumnName] = true
	}

	check := func(kind string, columns []string) error {
		for _, col := range columns {
			if !known[col] {
				return fmt.Errorf("%w: %s column %q", ErrConstraintColumns, kind, col)
			}
		}
		return nil
	}

	if err := check("primary key", o.primaryKey); err != nil {
		return err
	}
	for _, group := range o.uniqueGroups {
		if err := check("unique group", group); err != nil {
			return err
		}
	}
	for _, idx := range o.indexes {
		if err := check("index", idx.Columns); err != nil {
			return err
		}
	}
	if err := check("conflict", o.conflictColumns); err != nil {
		return err
	}
	return check("update", o.updateColumns)
}

// Write persists a frame into the database at dbPath, creating the target
// table when needed, then commits and synchronizes with the remote replica.
// It is the synchronous entry point; see WriteContext for the context-aware
// one.
func Write(frame *Frame, dbPath string, opts WriteOptions) error {
	return WriteContext(context.Background(), frame, dbPath, opts)
}

// WriteContext persists a frame into the database at dbPath.
//
// The operation opens one connection, applies the existence policy and
// creates the table (with declared constraints and indexes) when needed,
// inserts all rows in chunks inside a single transaction, commits, performs
// a replica sync, and closes the connection. The connection is released on
// every exit path; on failure the written-but-uncommitted rows are not
// durable.
func WriteContext(ctx context.Context, frame *Frame, dbPath string, opts WriteOptions) error {
	if frame == nil || frame.NumColumns() == 0 {
		return ErrEmptyFrame
	}
	if err := opts.validate(frame); err != nil {
		return err
	}
	if opts.logger == nil {
		opts.logger = zap.NewNop()
	}

	syncURL, authToken := resolveSync(opts.syncURL, opts.authToken)

	conn, err := openConnection(ctx, dbPath, syncURL, authToken)
	if err != nil {
		return err
	}
	writeErr := writeFrame(ctx, conn, frame, opts)
	return errors.Join(writeErr, conn.close())
}

// writeFrame runs the schema setup, the chunked insert loop, and the
// commit+sync envelope on an already-open connection.
func writeFrame(ctx context.Context, conn *connection, frame *Frame, opts WriteOptions) error {
	if err := ensureTable(ctx, conn.db, frame, opts); err != nil {
		return err
	}

	columns := make([]string, 0, frame.NumColumns()+1)
	if opts.index {
		columns = append(columns, indexColumnName)
	}
	columns = append(columns, frame.ColumnNames()...)

	stmt := buildInsertStatement(opts.table, columns, opts.conflictColumns, opts.updateColumns)

	tx, err := conn.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("framesql: begin transaction: %w", err)
	}

	if err := insertRows(ctx, tx, frame, stmt, opts); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("framesql: commit: %w", err)
	}

	if err := conn.sync(); err != nil {
		return err
	}
	opts.logger.Debug("write committed",
		zap.String("table", opts.table),
		zap.Int("rows", frame.NumRows()),
		zap.Bool("synced", conn.connector != nil))
	return nil
}

// insertRows iterates the frame's rows, coercing each cell and flushing a
// multi-row statement whenever the batch reaches the effective chunk size,
// then flushes the partial tail. The effective chunk size is the configured
// one clamped so that rows times columns stays within the engine's bind
// variable limit. Chunk executions are strictly sequential; statement
// execution on one connection is not safely concurrent.
func insertRows(ctx context.Context, tx *sql.Tx, frame *Frame, stmt insertStatement, opts WriteOptions) error {
	rowsPerFlush := opts.chunkSize
	if limit := maxBindVariables / stmt.width; limit < rowsPerFlush {
		rowsPerFlush = limit
		if rowsPerFlush < 1 {
			rowsPerFlush = 1
		}
	}

	args := make([]any, 0, rowsPerFlush*stmt.width)
	batched := 0

	flush := func() error {
		if batched == 0 {
			return nil
		}
		if _, err := tx.ExecContext(ctx, stmt.SQL(batched), args...); err != nil {
			return fmt.Errorf("framesql: insert into %s: %w", opts.table, err)
		}
		opts.logger.Debug("flushed chunk",
			zap.String("table", opts.table),
			zap.Int("rows", batched))
		args = args[:0]
		batched = 0
		return nil
	}

	for i := range frame.NumRows() {
		if opts.index {
			args = append(args, int64(i))
		}
		for _, cell := range frame.Row(i) {
			args = append(args, coerceValue(cell))
		}
		batched++

		if batched >= rowsPerFlush {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}
