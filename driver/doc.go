// Package driver provides a database/sql driver whose transactions finish
// with a replica sync: after every successful commit, local changes are
// pushed to the configured remote libSQL replica. It is integration glue for
// callers that want ORM-style database/sql access with the same
// commit-then-sync behavior as framesql.Write; the core read and write paths
// do not depend on it.
//
// The DSN is a local database path with optional query parameters:
//
//	import _ "github.com/swoiow/framesql/driver"
//
//	db, err := sql.Open("framesql", "events.db?sync_url=libsql://name.turso.io&auth_token=...")
//
// Without sync_url the database is a plain local SQLite file and the
// post-commit sync is a no-op.
package driver
