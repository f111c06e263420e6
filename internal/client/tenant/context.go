// Package tenant keeps the active tenant of the client and decides which
// tenant a navigation operates on.
package tenant

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
)

// ContextStore is a single durable cell holding the active tenant id.
// It performs no validation.
type ContextStore struct {
	mu        sync.RWMutex
	tenantID  string
	listeners []func(string)

	store storage.Store
}

// NewContextStore loads the persisted tenant id, if any.
func NewContextStore(ctx context.Context, store storage.Store) (*ContextStore, error) {
	v, err := store.Get(ctx, common.TenantStorageKey)
	if err != nil {
		return nil, fmt.Errorf("load tenant context: %w", err)
	}
	return &ContextStore{tenantID: v, store: store}, nil
}

func (c *ContextStore) TenantID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tenantID
}

// SetTenantID overwrites the cell. An empty value clears it.
// The in-memory value changes even when persisting fails.
func (c *ContextStore) SetTenantID(ctx context.Context, value string) error {
	c.mu.Lock()
	changed := c.tenantID != value
	c.tenantID = value
	listeners := c.listeners
	c.mu.Unlock()

	var err error
	if value == "" {
		err = c.store.Delete(ctx, common.TenantStorageKey)
	} else {
		err = c.store.Set(ctx, common.TenantStorageKey, value)
	}

	if changed {
		for _, fn := range listeners {
			fn(value)
		}
	}

	if err != nil {
		return fmt.Errorf("persist tenant context: %w", err)
	}
	return nil
}

// Subscribe registers fn to be called with the new value after each change.
func (c *ContextStore) Subscribe(fn func(string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}
