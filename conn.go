package framesql

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	libsql "github.com/tursodatabase/go-libsql"
	_ "modernc.org/sqlite" // local database engine when no remote is configured
)

// Environment variables consulted when a sync URL or auth token is not
// passed explicitly. They are resolved once at the call boundary, never
// inside core logic.
const (
	// EnvSyncURL names the remote replica endpoint, e.g. "libsql://name.turso.io".
	EnvSyncURL = "LIBSQL_URL"
	// EnvAuthToken names the credential for the remote replica.
	EnvAuthToken = "LIBSQL_AUTH_TOKEN"
)

// resolveSync fills an empty sync URL or auth token from the environment.
func resolveSync(syncURL, authToken string) (string, string) {
	if syncURL == "" {
		syncURL = os.Getenv(EnvSyncURL)
	}
	if authToken == "" {
		authToken = os.Getenv(EnvAuthToken)
	}
	return syncURL, authToken
}

// connection ties a local database file to an optional remote replica. It is
// owned exclusively for the duration of one read or one write operation and
// must be closed on every exit path.
type connection struct {
	db *sql.DB
	// connector drives replica synchronization; nil when no remote is
	// configured, in which case sync is a no-op.
	connector *libsql.Connector
}

// openConnection opens the database at dbPath. With a sync URL it becomes a
// libSQL embedded replica; without one it is a plain local SQLite file.
func openConnection(ctx context.Context, dbPath, syncURL, authToken string) (*connection, error) {
	if syncURL == "" {
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("framesql: open %s: %w", dbPath, err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("framesql: open %s: %w", dbPath, err)
		}
		return &connection{db: db}, nil
	}

	var opts []libsql.Option
	if authToken != "" {
		opts = append(opts, libsql.WithAuthToken(authToken))
	}
	connector, err := libsql.NewEmbeddedReplicaConnector(dbPath, syncURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("framesql: open embedded replica %s: %w", dbPath, err)
	}
	return &connection{
		db:        sql.OpenDB(connector),
		connector: connector,
	}, nil
}

// sync performs a round-trip with the remote replica. It is a no-op when no
// remote endpoint is configured.
func (c *connection) sync() error {
	if c.connector == nil {
		return nil
	}
	if _, err := c.connector.Sync(); err != nil {
		return fmt.Errorf("framesql: sync: %w", err)
	}
	return nil
}

// close releases the connection and, when present, the replica connector.
func (c *connection) close() error {
	err := c.db.Close()
	if c.connector != nil {
		if closeErr := c.connector.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}
