package guard

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/client/auth"
	"github.com/dmitrijs2005/shopkeeper/internal/client/auth/authtest"
	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
	"github.com/dmitrijs2005/shopkeeper/internal/client/tenant"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	guard     *Guard
	validator *auth.Validator
	context   *tenant.ContextStore
}

func newFixture(t *testing.T, sessionTenant, stored string) fixture {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()

	v, err := auth.NewValidator(ctx, store, logging.Nop())
	require.NoError(t, err)
	if sessionTenant != "" {
		require.NoError(t, v.SetToken(ctx, authtest.TenantToken(sessionTenant, time.Now(), time.Hour)))
	}

	c, err := tenant.NewContextStore(ctx, store)
	require.NoError(t, err)
	if stored != "" {
		require.NoError(t, c.SetTenantID(ctx, stored))
	}

	r := tenant.NewResolver(v, c, logging.Nop())
	return fixture{guard: New(r, DefaultRoutes, logging.Nop()), validator: v, context: c}
}

func nav(t *testing.T, raw, pattern string) Navigation {
	t.Helper()
	n, ok, err := ParseNavigation(raw, pattern)
	require.NoError(t, err)
	require.True(t, ok)
	return n
}

func TestSoft_AllowsWhenTenantResolves(t *testing.T) {
	tests := []struct {
		name    string
		session string
		stored  string
		raw     string
		want    string
	}{
		{name: "query hint", raw: "/catalog?tenantId=A", want: "A"},
		{name: "session", session: "B", raw: "/catalog", want: "B"},
		{name: "stored", stored: "C", raw: "/catalog", want: "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.session, tt.stored)

			d := f.guard.Soft(context.Background(), nav(t, tt.raw, ""))
			assert.True(t, d.Allowed())
			assert.Equal(t, tt.want, f.context.TenantID())
		})
	}
}

func TestSoft_RedirectsToOnboarding(t *testing.T) {
	f := newFixture(t, "", "")

	d := f.guard.Soft(context.Background(), nav(t, "/orders?page=2", ""))

	assert.False(t, d.Allowed())
	assert.Equal(t, "/wizard", d.Path)
	assert.Equal(t, "/orders?page=2", d.Params.Get(ReturnParam))
	assert.ErrorIs(t, d.Reason, ErrTenantUnresolved)
	assert.Equal(t, "/wizard?redirectTo=%2Forders%3Fpage%3D2", d.Location())
}

func TestStrict_RedirectsUnauthenticatedToAuth(t *testing.T) {
	f := newFixture(t, "", "C")

	d := f.guard.Strict(context.Background(), nav(t, "/admin", ""))

	assert.False(t, d.Allowed())
	assert.Equal(t, "/auth", d.Path)
	assert.Equal(t, "/admin", d.Params.Get(ReturnParam))
	assert.ErrorIs(t, d.Reason, common.ErrUnauthenticated)
	assert.Equal(t, "C", f.context.TenantID())
}

func TestStrict_TenantMismatchForcesSessionTenant(t *testing.T) {
	tests := []struct{ raw, pattern string }{
		{raw: "/admin?tenantId=A"},
		{raw: "/admin/A/usage", pattern: "/admin/:tenantId/usage"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			f := newFixture(t, "B", "A")

			d := f.guard.Strict(context.Background(), nav(t, tt.raw, tt.pattern))

			assert.False(t, d.Allowed())
			assert.Equal(t, "/catalog", d.Path)
			assert.Equal(t, url.Values{"tenantId": {"B"}}, d.Params)
			assert.ErrorIs(t, d.Reason, common.ErrTenantMismatch)
			assert.Equal(t, "B", f.context.TenantID())
		})
	}
}

func TestStrict_AllowsMatchingOrAbsentHint(t *testing.T) {
	for _, raw := range []string{"/admin?tenantId=B", "/admin"} {
		t.Run(raw, func(t *testing.T) {
			f := newFixture(t, "B", "stale")

			d := f.guard.Strict(context.Background(), nav(t, raw, ""))

			assert.True(t, d.Allowed())
			assert.Nil(t, d.Reason)
			assert.Equal(t, "B", f.context.TenantID())
		})
	}
}

func TestStrict_ExpiredSessionIsUnauthenticated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "", "")
	require.NoError(t, f.validator.SetToken(ctx, authtest.TenantToken("B", time.Now(), -time.Second)))

	d := f.guard.Strict(ctx, nav(t, "/admin", ""))
	assert.Equal(t, "/auth", d.Path)
}

func TestDecision_Location(t *testing.T) {
	assert.Equal(t, "", Decision{Kind: Allow}.Location())
	assert.Equal(t, "/catalog?tenantId=B", Decision{Kind: Redirect, Path: "/catalog", Params: url.Values{"tenantId": {"B"}}}.Location())
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "redirect", Redirect.String())
}
