package client

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/wombguard/wombguard-cli/internal/client/migrations"
	"github.com/wombguard/wombguard-cli/internal/client/repositories/metadata"
	"github.com/wombguard/wombguard-cli/internal/filex"
)

// Store drivers accepted by OpenMetadata.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite file at dsn and brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if filex.IsPlainPath(dsn) {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenMetadata returns the key/value repository for driver together with
// the handle that must be closed on shutdown.
func OpenMetadata(ctx context.Context, driver, path, redisURL string) (metadata.Repository, io.Closer, error) {
	switch driver {
	case "", DriverSQLite:
		db, err := InitDatabase(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store %s: %w", path, err)
		}
		return metadata.NewSQLiteRepository(db), db, nil
	case DriverRedis:
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("%w: redis: %v", ErrUnavailable, err)
		}
		return metadata.NewRedisRepository(rdb, ""), rdb, nil
	case DriverMemory:
		return metadata.NewMemoryRepository(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
