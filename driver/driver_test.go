package driver

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		dsn           string
		wantPath      string
		wantSyncURL   string
		wantAuthToken string
		wantErr       error
	}{
		{
			name:     "plain path",
			dsn:      "/tmp/local.db",
			wantPath: "/tmp/local.db",
		},
		{
			name:          "path with sync parameters",
			dsn:           "/tmp/replica.db?sync_url=libsql://name.turso.io&auth_token=secret",
			wantPath:      "/tmp/replica.db",
			wantSyncURL:   "libsql://name.turso.io",
			wantAuthToken: "secret",
		},
		{
			name:        "sync url without token",
			dsn:         "replica.db?sync_url=libsql://name.turso.io",
			wantPath:    "replica.db",
			wantSyncURL: "libsql://name.turso.io",
		},
		{
			name:    "empty dsn",
			dsn:     "",
			wantErr: ErrEmptyDSN,
		},
		{
			name:    "query without path",
			dsn:     "?sync_url=libsql://name.turso.io",
			wantErr: ErrEmptyDSN,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path, syncURL, authToken, err := parseDSN(tt.dsn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.wantSyncURL, syncURL)
			assert.Equal(t, tt.wantAuthToken, authToken)
		})
	}
}

func TestParseDSN_MalformedQuery(t *testing.T) {
	t.Parallel()

	_, _, _, err := parseDSN("local.db?sync_url=%zz")
	assert.Error(t, err)
}

func TestDriver_LocalRoundTrip(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "local.db")
	db, err := sql.Open(DriverName, dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()

	_, err = db.Exec(`CREATE TABLE events (id INTEGER PRIMARY KEY, status TEXT)`)
	require.NoError(t, err)

	// Commit passes through the sync hook; without a remote it is a no-op.
	tx, err := db.Begin()
	require.NoError(t, err)
	_, err = tx.Exec(`INSERT INTO events (id, status) VALUES (?, ?)`, 1, "open")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	var status string
	err = db.QueryRow(`SELECT status FROM events WHERE id = ?`, 1).Scan(&status)
	require.NoError(t, err)
	assert.Equal(t, "open", status)
}

func TestDriver_Rollback(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "local.db")
	db, err := sql.Open(DriverName, dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()

	_, err = db.Exec(`CREATE TABLE events (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)

	tx, err := db.Begin()
	require.NoError(t, err)
	_, err = tx.Exec(`INSERT INTO events (id) VALUES (1)`)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}
