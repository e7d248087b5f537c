package framesql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ReadOptions configures the read entry points.
type ReadOptions struct {
	// SyncURL is the remote replica endpoint; when set (or provided via
	// LIBSQL_URL), a replica pull runs before the query executes.
	SyncURL string
	// AuthToken is the credential for the remote replica (LIBSQL_AUTH_TOKEN
	// fallback).
	AuthToken string
	// ParseDates lists result columns reinterpreted as datetimes after
	// materialization. Parsing is best effort: unparseable cells become
	// Missing instead of failing the read.
	ParseDates []string
	// Logger receives debug-level read events. Defaults to a no-op logger.
	Logger *zap.Logger
}

// TableQuery describes the SELECT statement ReadTable assembles. All fields
// are optional.
type TableQuery struct {
	// Columns restricts the selected columns; empty selects *.
	Columns []string
	// Where is a raw WHERE fragment with ?-style placeholders bound from
	// WhereParams.
	Where       string
	WhereParams []any
	// OrderBy is a raw ORDER BY fragment, e.g. "publish_time DESC".
	OrderBy string
	// Limit caps the number of rows; values below 1 mean no limit.
	Limit int
}

// ReadSQL executes arbitrary parameterized SQL and materializes all result
// rows into a frame. It is the synchronous entry point; see ReadSQLContext.
func ReadSQL(dbPath, query string, params []any, opts ReadOptions) (*Frame, error) {
	return ReadSQLContext(context.Background(), dbPath, query, params, opts)
}

// ReadSQLContext executes arbitrary parameterized SQL against the database
// at dbPath and returns the result as a frame with the statement's column
// names. When a remote is configured the replica is synchronized before the
// query runs. The connection is closed on every exit path.
func ReadSQLContext(ctx context.Context, dbPath, query string, params []any, opts ReadOptions) (*Frame, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	syncURL, authToken := resolveSync(opts.SyncURL, opts.AuthToken)

	conn, err := openConnection(ctx, dbPath, syncURL, authToken)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = conn.close()
	}()

	// Pull the latest remote state before reading.
	if err := conn.sync(); err != nil {
		return nil, err
	}

	frame, err := queryFrame(ctx, conn, query, params)
	if err != nil {
		return nil, err
	}

	for _, name := range opts.ParseDates {
		reinterpretDatetime(frame, name)
	}

	logger.Debug("read completed",
		zap.Int("rows", frame.NumRows()),
		zap.Int("columns", frame.NumColumns()))
	return frame, nil
}

// ReadTable assembles a SELECT over one table from structured arguments and
// delegates to ReadSQLContext.
func ReadTable(ctx context.Context, dbPath, table string, query TableQuery, opts ReadOptions) (*Frame, error) {
	columnSQL := "*"
	if len(query.Columns) > 0 {
		columnSQL = strings.Join(quoteIdents(query.Columns), ", ")
	}

	parts := []string{"SELECT " + columnSQL + " FROM " + quoteIdent(table)}
	params := make([]any, 0, len(query.WhereParams)+1)

	if query.Where != "" {
		parts = append(parts, "WHERE "+query.Where)
		params = append(params, query.WhereParams...)
	}
	if query.OrderBy != "" {
		parts = append(parts, "ORDER BY "+query.OrderBy)
	}
	if query.Limit > 0 {
		parts = append(parts, "LIMIT ?")
		params = append(params, query.Limit)
	}

	return ReadSQLContext(ctx, dbPath, strings.Join(parts, " "), params, opts)
}

// queryFrame runs the query and materializes every row.
func queryFrame(ctx context.Context, conn *connection, query string, params []any) (*Frame, error) {
	rows, err := conn.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("framesql: query: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("framesql: read columns: %w", err)
	}

	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{Name: name, Kind: KindObject}
	}

	scan := make([]any, len(names))
	for i := range scan {
		scan[i] = new(any)
	}

	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("framesql: scan row: %w", err)
		}
		for i := range columns {
			value := *(scan[i].(*any))
			if b, ok := value.([]byte); ok {
				value = string(b)
			}
			columns[i].Values = append(columns[i].Values, value)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("framesql: iterate rows: %w", err)
	}

	for i := range columns {
		columns[i].Kind = kindOfValues(columns[i].Values)
	}
	return NewFrame(columns...)
}

// kindOfValues picks the column kind from the first non-nil scanned value.
func kindOfValues(values []any) Kind {
	for _, v := range values {
		switch v.(type) {
		case int64:
			return KindInt64
		case float64:
			return KindFloat64
		case bool:
			return KindBool
		case string:
			return KindObject
		case nil:
			continue
		default:
			return KindObject
		}
	}
	return KindObject
}

// reinterpretDatetime converts the named column's cells to time.Time in
// place. Cells that cannot be parsed become Missing rather than failing the
// read; this leniency mirrors the write path, which stores datetimes as
// ISO-8601 text.
func reinterpretDatetime(frame *Frame, name string) {
	for i := range frame.columns {
		col := &frame.columns[i]
		if col.Name != name {
			continue
		}
		for j, v := range col.Values {
			switch val := v.(type) {
			case string:
				if t, ok := parseDatetime(val); ok {
					col.Values[j] = t
				} else {
					col.Values[j] = Missing
				}
			case time.Time:
				col.Values[j] = val
			default:
				col.Values[j] = Missing
			}
		}
		col.Kind = KindDatetime
		return
	}
}
