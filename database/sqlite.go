package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/utilities"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// created_at holds unix nanoseconds so that ORDER BY sorts chronologically.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	completed   INTEGER NOT NULL DEFAULT 0,
	priority    TEXT NOT NULL DEFAULT 'Medium',
	summary     TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS tasks_created_at_idx ON tasks (created_at DESC, id DESC);
`

var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=ON",
	"PRAGMA temp_store=MEMORY",
}

// SQLitePool is a fixed-size pool of connections to one database file.
// Callers Take a connection for the duration of a single operation and Put
// it back before returning; connections are not safe for concurrent use.
type SQLitePool struct {
	inner *sqlitex.Pool
	path  string
}

// OpenSQLite opens (creating if needed) the database file at path and makes
// sure the tasks table exists.
func OpenSQLite(ctx context.Context, path string, poolSize int) (*SQLitePool, error) {
	if path == "" {
		return nil, errors.New("database: sqlite path is required")
	}
	if poolSize <= 0 {
		poolSize = 4
	}

	inner, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConn,
	})
	if err != nil {
		return nil, fmt.Errorf("database: opening %s: %w", path, err)
	}
	pool := &SQLitePool{inner: inner, path: path}

	conn, err := pool.Take(ctx)
	if err != nil {
		inner.Close()
		return nil, err
	}
	err = sqlitex.ExecuteScript(conn, sqliteSchema, nil)
	pool.Put(conn)
	if err != nil {
		inner.Close()
		return nil, fmt.Errorf("database: creating schema in %s: %w", path, err)
	}

	utilities.LogInfo("sqlite database opened", "path", path, "pool_size", poolSize)
	return pool, nil
}

func prepareConn(conn *sqlite.Conn) error {
	for _, pragma := range sqlitePragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("database: %s: %w", pragma, err)
		}
	}
	return nil
}

// Take borrows a connection, blocking until one is free or ctx is done.
func (p *SQLitePool) Take(ctx context.Context) (*sqlite.Conn, error) {
	conn, err := p.inner.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("database: take: %w", err)
	}
	return conn, nil
}

// Put returns a connection taken with Take. Nil is ignored.
func (p *SQLitePool) Put(conn *sqlite.Conn) {
	if conn != nil {
		p.inner.Put(conn)
	}
}

func (p *SQLitePool) Path() string {
	return p.path
}

// Close waits for borrowed connections to come back and closes them all.
func (p *SQLitePool) Close() error {
	if err := p.inner.Close(); err != nil {
		return fmt.Errorf("database: closing %s: %w", p.path, err)
	}
	utilities.LogInfo("sqlite database closed", "path", p.path)
	return nil
}
