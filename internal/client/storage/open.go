package storage

import (
	"context"
	"fmt"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Open builds the Store selected by driver. The returned close func releases
// the underlying connection and is never nil.
func Open(ctx context.Context, driver, dsn string) (Store, func() error, error) {
	noop := func() error { return nil }

	switch driver {
	case DriverMemory, "":
		return NewMemoryStore(), noop, nil
	case DriverSQLite:
		db, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, noop, err
		}
		return NewSQLiteStore(db), db.Close, nil
	case DriverPostgres:
		pool, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, noop, err
		}
		return NewPostgresStore(pool), func() error { pool.Close(); return nil }, nil
	case DriverRedis:
		client, err := OpenRedis(ctx, dsn)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisStore(client, DefaultRedisPrefix), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", driver)
	}
}
