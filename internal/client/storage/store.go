// Package storage holds the durable key-value cells that survive client
// restarts: the bearer token and the active tenant id.
//
// Every backend follows the same contract: Get returns an empty string and
// a nil error when the key is absent, Delete of a missing key succeeds.
package storage

import (
	"context"
)

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
