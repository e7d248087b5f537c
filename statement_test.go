package framesql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		ident string
		want  string
	}{
		{
			name:  "plain identifier",
			ident: "events",
			want:  `"events"`,
		},
		{
			name:  "reserved word",
			ident: "index",
			want:  `"index"`,
		},
		{
			name:  "embedded double quote is doubled",
			ident: `a"b`,
			want:  `"a""b"`,
		},
		{
			name:  "spaces survive",
			ident: "publish time",
			want:  `"publish time"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, quoteIdent(tt.ident))
		})
	}
}

func TestBuildInsertStatement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		table           string
		columns         []string
		conflictColumns []string
		updateColumns   []string
		rows            int
		want            string
	}{
		{
			name:    "plain insert single row",
			table:   "events",
			columns: []string{"id", "status"},
			rows:    1,
			want:    `INSERT INTO "events" ("id", "status") VALUES (?, ?)`,
		},
		{
			name:    "plain insert three rows",
			table:   "events",
			columns: []string{"id", "status"},
			rows:    3,
			want:    `INSERT INTO "events" ("id", "status") VALUES (?, ?), (?, ?), (?, ?)`,
		},
		{
			name:            "upsert with default update set",
			table:           "events",
			columns:         []string{"id", "status", "updated_at"},
			conflictColumns: []string{"id"},
			rows:            1,
			want: `INSERT INTO "events" ("id", "status", "updated_at") VALUES (?, ?, ?)` +
				` ON CONFLICT ("id") DO UPDATE SET "status" = excluded."status", "updated_at" = excluded."updated_at"`,
		},
		{
			name:            "upsert with explicit update columns",
			table:           "events",
			columns:         []string{"id", "status", "updated_at"},
			conflictColumns: []string{"id"},
			updateColumns:   []string{"status"},
			rows:            1,
			want: `INSERT INTO "events" ("id", "status", "updated_at") VALUES (?, ?, ?)` +
				` ON CONFLICT ("id") DO UPDATE SET "status" = excluded."status"`,
		},
		{
			name:            "conflict over every column falls back to do nothing",
			table:           "events",
			columns:         []string{"id", "status"},
			conflictColumns: []string{"id", "status"},
			rows:            1,
			want: `INSERT INTO "events" ("id", "status") VALUES (?, ?)` +
				` ON CONFLICT ("id", "status") DO NOTHING`,
		},
		{
			name:            "upsert expands per row with suffix once",
			table:           "events",
			columns:         []string{"id", "status"},
			conflictColumns: []string{"id"},
			rows:            2,
			want: `INSERT INTO "events" ("id", "status") VALUES (?, ?), (?, ?)` +
				` ON CONFLICT ("id") DO UPDATE SET "status" = excluded."status"`,
		},
		{
			name:    "quoting applies to table and columns",
			table:   `odd"name`,
			columns: []string{`a"b`},
			rows:    1,
			want:    `INSERT INTO "odd""name" ("a""b") VALUES (?)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stmt := buildInsertStatement(tt.table, tt.columns, tt.conflictColumns, tt.updateColumns)
			assert.Equal(t, tt.want, stmt.SQL(tt.rows))
			assert.Equal(t, len(tt.columns), stmt.width)
		})
	}
}
