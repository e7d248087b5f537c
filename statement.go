package framesql

import "strings"

// quoteIdent quotes an identifier for safe interpolation into SQL text:
// wrapped in double quotes with embedded double quotes doubled. Values are
// never interpolated, they are always bound as parameters; quoting applies
// only to table, column, and index names.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteIdents quotes each identifier in a list.
func quoteIdents(names []string) []string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quoteIdent(name)
	}
	return quoted
}

// insertStatement is a parameterized INSERT or UPSERT statement template.
// SQL builds the final text for a given number of batched rows by repeating
// the placeholder tuple, so each chunk executes as one statement.
type insertStatement struct {
	prefix string // INSERT INTO "t" ("a", "b") VALUES
	row    string // (?, ?)
	suffix string // optional ON CONFLICT clause
	width  int    // placeholders per row
}

// buildInsertStatement assembles the write statement for the given table and
// insert columns (unquoted names, in insert order).
//
// Without conflict columns the statement is a plain INSERT. With conflict
// columns an ON CONFLICT clause is appended: the update set is updateColumns
// when given, otherwise every insert column not in the conflict set. An
// empty update set produces DO NOTHING instead of an empty SET. Whether the
// conflict target actually has a matching unique or primary-key constraint
// is left to the engine, which raises a constraint error otherwise.
func buildInsertStatement(table string, columns []string, conflictColumns, updateColumns []string) insertStatement {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	stmt := insertStatement{
		prefix: "INSERT INTO " + quoteIdent(table) +
			" (" + strings.Join(quoteIdents(columns), ", ") + ") VALUES",
		row:   "(" + strings.Join(placeholders, ", ") + ")",
		width: len(columns),
	}

	if len(conflictColumns) == 0 {
		return stmt
	}

	conflictSQL := strings.Join(quoteIdents(conflictColumns), ", ")

	updateTargets := updateColumns
	if len(updateTargets) == 0 {
		conflictSet := make(map[string]bool, len(conflictColumns))
		for _, c := range conflictColumns {
			conflictSet[c] = true
		}
		for _, c := range columns {
			if !conflictSet[c] {
				updateTargets = append(updateTargets, c)
			}
		}
	}

	if len(updateTargets) == 0 {
		stmt.suffix = " ON CONFLICT (" + conflictSQL + ") DO NOTHING"
		return stmt
	}

	assignments := make([]string, len(updateTargets))
	for i, c := range updateTargets {
		ident := quoteIdent(c)
		assignments[i] = ident + " = excluded." + ident
	}
	stmt.suffix = " ON CONFLICT (" + conflictSQL + ") DO UPDATE SET " + strings.Join(assignments, ", ")
	return stmt
}

// SQL returns the statement text with the placeholder tuple repeated rows
// times.
func (s insertStatement) SQL(rows int) string {
	var b strings.Builder
	b.WriteString(s.prefix)
	for i := range rows {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(" ")
		b.WriteString(s.row)
	}
	b.WriteString(s.suffix)
	return b.String()
}
