package framesql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// indexColumnName is the synthetic column that persists row positions when
// WithIndex is enabled.
const indexColumnName = "index"

// tableExists reports whether the named table exists.
func tableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var name string
	err := db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name=?`,
		table,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("framesql: check table existence: %w", err)
	}
	return true, nil
}

// ensureTable applies the existence policy and creates the target table and
// its secondary indexes when needed. DDL executes directly against the
// connection outside the write transaction; every statement uses IF NOT
// EXISTS semantics so reruns are idempotent.
func ensureTable(ctx context.Context, db *sql.DB, frame *Frame, opts WriteOptions) error {
	exists, err := tableExists(ctx, db, opts.table)
	if err != nil {
		return err
	}

	if exists && opts.ifExists == ExistsFail {
		return fmt.Errorf("%w: %s", ErrTableExists, opts.table)
	}

	if exists && opts.ifExists == ExistsReplace {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(opts.table)); err != nil {
			return fmt.Errorf("framesql: drop table %s: %w", opts.table, err)
		}
		exists = false
	}

	if exists {
		return nil
	}

	columnDefs := make([]string, 0, frame.NumColumns()+1)
	if opts.index {
		columnDefs = append(columnDefs, quoteIdent(indexColumnName)+" "+sqlTypeInteger)
	}
	for _, col := range frame.Columns() {
		columnDefs = append(columnDefs, quoteIdent(col.Name)+" "+col.Kind.StorageClass())
	}

	constraints := make([]string, 0, 1+len(opts.uniqueGroups))
	if len(opts.primaryKey) > 0 {
		constraints = append(constraints,
			"PRIMARY KEY ("+strings.Join(quoteIdents(opts.primaryKey), ", ")+")")
	}
	for _, group := range opts.uniqueGroups {
		constraints = append(constraints,
			"UNIQUE ("+strings.Join(quoteIdents(group), ", ")+")")
	}

	ddl := "CREATE TABLE IF NOT EXISTS " + quoteIdent(opts.table) +
		" (" + strings.Join(append(columnDefs, constraints...), ", ") + ")"
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("framesql: create table %s: %w", opts.table, err)
	}
	opts.logger.Debug("created table",
		zap.String("table", opts.table),
		zap.Int("columns", len(columnDefs)))

	// Secondary indexes are created only on first creation, in declared order.
	for _, idx := range opts.indexes {
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		stmt := "CREATE " + unique + "INDEX IF NOT EXISTS " + quoteIdent(idx.Name) +
			" ON " + quoteIdent(opts.table) +
			" (" + strings.Join(quoteIdents(idx.Columns), ", ") + ")"
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("framesql: create index %s: %w", idx.Name, err)
		}
	}

	return nil
}
