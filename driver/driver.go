package driver

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"net/url"
	"strings"

	libsql "github.com/tursodatabase/go-libsql"
	"modernc.org/sqlite"
)

// DriverName is the name the driver registers under.
const DriverName = "framesql"

func init() {
	sql.Register(DriverName, NewDriver())
}

// syncer reconciles local and remote replica state after a commit.
type syncer interface {
	Sync() error
	Close() error
}

// noopSyncer is used when no remote endpoint is configured.
type noopSyncer struct{}

func (noopSyncer) Sync() error  { return nil }
func (noopSyncer) Close() error { return nil }

// replicaSyncer delegates to the libSQL embedded replica connector.
type replicaSyncer struct {
	connector *libsql.Connector
}

func (s replicaSyncer) Sync() error {
	_, err := s.connector.Sync()
	return err
}

func (s replicaSyncer) Close() error {
	return s.connector.Close()
}

// Driver implements database/sql/driver.Driver for sync-on-commit access.
type Driver struct{}

// NewDriver creates a new sync-on-commit driver.
func NewDriver() *Driver {
	return &Driver{}
}

// Open implements driver.Driver.
func (d *Driver) Open(dsn string) (driver.Conn, error) {
	connector, err := d.OpenConnector(dsn)
	if err != nil {
		return nil, err
	}
	return connector.Connect(context.Background())
}

// OpenConnector implements driver.DriverContext.
func (d *Driver) OpenConnector(dsn string) (driver.Connector, error) {
	path, syncURL, authToken, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}
	return &Connector{
		driver:    d,
		path:      path,
		syncURL:   syncURL,
		authToken: authToken,
	}, nil
}

// parseDSN splits "path[?sync_url=...&auth_token=...]".
func parseDSN(dsn string) (path, syncURL, authToken string, err error) {
	path = dsn
	if i := strings.IndexByte(dsn, '?'); i >= 0 {
		path = dsn[:i]
		values, parseErr := url.ParseQuery(dsn[i+1:])
		if parseErr != nil {
			return "", "", "", fmt.Errorf("framesql driver: parse dsn: %w", parseErr)
		}
		syncURL = values.Get("sync_url")
		authToken = values.Get("auth_token")
	}
	if path == "" {
		return "", "", "", ErrEmptyDSN
	}
	return path, syncURL, authToken, nil
}

// Connector implements driver.Connector, holding the connection parameters.
type Connector struct {
	driver    *Driver
	path      string
	syncURL   string
	authToken string
}

// Connect implements driver.Connector.
func (c *Connector) Connect(ctx context.Context) (driver.Conn, error) {
	if c.syncURL == "" {
		conn, err := (&sqlite.Driver{}).Open(c.path)
		if err != nil {
			return nil, fmt.Errorf("framesql driver: open %s: %w", c.path, err)
		}
		return &Connection{conn: conn, syncer: noopSyncer{}}, nil
	}

	var opts []libsql.Option
	if c.authToken != "" {
		opts = append(opts, libsql.WithAuthToken(c.authToken))
	}
	replica, err := libsql.NewEmbeddedReplicaConnector(c.path, c.syncURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("framesql driver: open embedded replica %s: %w", c.path, err)
	}
	conn, err := replica.Connect(ctx)
	if err != nil {
		closeErr := replica.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("framesql driver: connect: %w (also failed to close connector: %w)", err, closeErr)
		}
		return nil, fmt.Errorf("framesql driver: connect: %w", err)
	}
	return &Connection{conn: conn, syncer: replicaSyncer{connector: replica}}, nil
}

// Driver implements driver.Connector.
func (c *Connector) Driver() driver.Driver {
	return c.driver
}

// Connection wraps the underlying engine connection so transactions can
// trigger a replica sync after commit.
type Connection struct {
	conn   driver.Conn
	syncer syncer
}

// Prepare implements driver.Conn.
func (c *Connection) Prepare(query string) (driver.Stmt, error) {
	return c.conn.Prepare(query)
}

// Close implements driver.Conn, releasing the engine connection and the
// replica connector.
func (c *Connection) Close() error {
	err := c.conn.Close()
	if syncErr := c.syncer.Close(); err == nil {
		err = syncErr
	}
	return err
}

// Begin implements driver.Conn.
func (c *Connection) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

// BeginTx implements driver.ConnBeginTx.
func (c *Connection) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	var (
		tx  driver.Tx
		err error
	)
	if connBeginTx, ok := c.conn.(driver.ConnBeginTx); ok {
		tx, err = connBeginTx.BeginTx(ctx, opts)
	} else {
		tx, err = c.conn.Begin() //nolint:staticcheck // fallback for drivers without BeginTx
	}
	if err != nil {
		return nil, err
	}
	return &Transaction{tx: tx, syncer: c.syncer}, nil
}

// ExecContext implements driver.ExecerContext when the underlying engine
// supports it.
func (c *Connection) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if execer, ok := c.conn.(driver.ExecerContext); ok {
		return execer.ExecContext(ctx, query, args)
	}
	return nil, driver.ErrSkip
}

// QueryContext implements driver.QueryerContext when the underlying engine
// supports it.
func (c *Connection) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if queryer, ok := c.conn.(driver.QueryerContext); ok {
		return queryer.QueryContext(ctx, query, args)
	}
	return nil, driver.ErrSkip
}

// Transaction implements driver.Tx with a sync after commit.
type Transaction struct {
	tx     driver.Tx
	syncer syncer
}

// Commit commits the underlying transaction, then pushes local changes to
// the remote replica. A sync failure is reported even though the local
// commit already succeeded.
func (t *Transaction) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return err
	}
	if err := t.syncer.Sync(); err != nil {
		return fmt.Errorf("framesql driver: transaction committed but sync failed: %w", err)
	}
	return nil
}

// Rollback implements driver.Tx.
func (t *Transaction) Rollback() error {
	return t.tx.Rollback()
}
