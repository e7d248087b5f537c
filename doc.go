// Package framesql moves tabular data between in-memory column frames and a
// SQLite-compatible database, optionally synchronized with a remote libSQL
// replica (for example a Turso database).
//
// The write path creates the target table from the frame's column kinds,
// optionally with primary-key, unique, and index constraints, then inserts
// rows in chunks inside one transaction and finishes with a commit plus a
// replica sync. The read path runs arbitrary or templated SELECT statements
// and materializes the result into a new frame.
//
// # Writing
//
//	frame, err := framesql.NewFrame(
//		framesql.Column{Name: "id", Kind: framesql.KindInt64, Values: []any{int64(1), int64(2)}},
//		framesql.Column{Name: "status", Kind: framesql.KindObject, Values: []any{"open", "closed"}},
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	opts := framesql.NewWriteOptions("events").
//		WithPrimaryKey("id").
//		WithUpsert([]string{"id"}, nil)
//	if err := framesql.Write(frame, "events.db", opts); err != nil {
//		log.Fatal(err)
//	}
//
// # Reading
//
//	result, err := framesql.ReadSQL("events.db",
//		"SELECT * FROM events WHERE status = ?", []any{"open"},
//		framesql.ReadOptions{})
//
// # Remote synchronization
//
// When a sync URL is configured (WithSync, ReadOptions.SyncURL, or the
// LIBSQL_URL / LIBSQL_AUTH_TOKEN environment variables), the database is
// opened as a libSQL embedded replica: writes push local changes to the
// remote after commit, reads pull the latest remote state first. Without a
// sync URL the database is a plain local SQLite file and sync is a no-op.
//
// # Missing values
//
// nil cells, NaN floats, and the Missing sentinel are all written as SQL
// NULL. Timestamps are written as ISO-8601 text without timezone conversion.
//
// Values are always passed as bound parameters. Table, column, and index
// names are quoted and escaped, so identifiers containing quotes or spaces
// are safe.
package framesql
