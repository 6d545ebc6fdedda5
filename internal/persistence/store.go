package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-capture-service/internal/config"
)

// Store is the opened submission store. Exactly one of Postgres and SQLite is set.
type Store struct {
	Driver   string
	Postgres *Postgres
	SQLite   *SQLite
}

// OpenStore connects to the configured driver and applies its migrations when enabled.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		lite, err := NewSQLite(ctx, cfg.SQLite, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Store.RunMigrations {
			if err := RunSQLiteMigrations(ctx, lite.DB, logger); err != nil {
				lite.Close()
				return nil, err
			}
		}
		return &Store{Driver: config.StoreDriverSQLite, SQLite: lite}, nil
	case config.StoreDriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Store.RunMigrations {
			if err := RunMigrations(ctx, pg.Pool, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &Store{Driver: config.StoreDriverPostgres, Postgres: pg}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if s.SQLite != nil {
		return s.SQLite.Ping(ctx)
	}
	return s.Postgres.Ping(ctx)
}

func (s *Store) Close() {
	if s == nil {
		return
	}
	s.SQLite.Close()
	s.Postgres.Close()
}
