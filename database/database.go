package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/utilities"

	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id          BIGSERIAL PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	completed   BOOLEAN NOT NULL DEFAULT FALSE,
	priority    TEXT NOT NULL DEFAULT 'Medium',
	summary     TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS tasks_created_at_idx ON tasks (created_at DESC, id DESC);
`

// ConnectPostgres opens a PostgreSQL connection pool for dsn, checks it is
// reachable and creates the tasks table if it does not exist yet.
func ConnectPostgres(ctx context.Context, dsn string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating postgres schema: %w", err)
	}

	utilities.LogInfo("connected to postgres", "max_conns", maxConns)
	return db, nil
}
