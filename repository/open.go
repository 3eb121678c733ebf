package repository

import (
	"context"
	"fmt"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/config"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/database"
)

// Open connects the configured store, creating its schema if needed, and
// returns the repository together with the function that releases the store.
func Open(ctx context.Context, cfg *config.Config) (TaskRepository, func() error, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		pool, err := database.OpenSQLite(ctx, cfg.DBPath, cfg.DBPoolSize)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLiteRepository(pool), pool.Close, nil
	case config.DriverPostgres:
		db, err := database.ConnectPostgres(ctx, cfg.DatabaseURL, cfg.DBPoolSize)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresRepository(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("repository: unsupported driver %q", cfg.DBDriver)
	}
}
