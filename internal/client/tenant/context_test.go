package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextStore_LoadOnInit(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, common.TenantStorageKey, "t-042"))

	c, err := NewContextStore(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "t-042", c.TenantID())
}

func TestContextStore_SetAndClear(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	c, err := NewContextStore(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, c.TenantID())

	require.NoError(t, c.SetTenantID(ctx, "t-001"))
	assert.Equal(t, "t-001", c.TenantID())
	v, _ := store.Get(ctx, common.TenantStorageKey)
	assert.Equal(t, "t-001", v)

	require.NoError(t, c.SetTenantID(ctx, ""))
	assert.Empty(t, c.TenantID())
	v, _ = store.Get(ctx, common.TenantStorageKey)
	assert.Empty(t, v)
}

func TestContextStore_SubscribeNotifiesOnChangeOnly(t *testing.T) {
	ctx := context.Background()
	c, err := NewContextStore(ctx, storage.NewMemoryStore())
	require.NoError(t, err)

	var seen []string
	c.Subscribe(func(v string) { seen = append(seen, v) })

	require.NoError(t, c.SetTenantID(ctx, "t-1"))
	require.NoError(t, c.SetTenantID(ctx, "t-1"))
	require.NoError(t, c.SetTenantID(ctx, "t-2"))
	require.NoError(t, c.SetTenantID(ctx, ""))

	assert.Equal(t, []string{"t-1", "t-2", ""}, seen)
}

type brokenStore struct{ err error }

func (b brokenStore) Get(context.Context, string) (string, error) { return "", b.err }
func (b brokenStore) Set(context.Context, string, string) error   { return b.err }
func (b brokenStore) Delete(context.Context, string) error        { return b.err }

func TestContextStore_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := NewContextStore(ctx, brokenStore{err: boom})
	require.ErrorIs(t, err, boom)

	c := &ContextStore{store: brokenStore{err: boom}}
	require.ErrorIs(t, c.SetTenantID(ctx, "t-1"), boom)
	assert.Equal(t, "t-1", c.TenantID())
}
