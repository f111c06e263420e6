package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.MapClaims, secret []byte) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return tok
}

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	in := Principal{Subject: "owner", TenantID: "t-1", Roles: []string{"admin"}, AllowedTenants: []string{"t-2"}}

	tok, exp, err := GenerateToken(in, secret, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	got, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "owner", got.Subject)
	assert.Equal(t, "t-1", got.TenantID)
	assert.Equal(t, []string{"admin"}, got.Roles)
	assert.Equal(t, []string{"t-2"}, got.AllowedTenants)
	assert.True(t, got.ExpiresAt.Equal(exp))
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	tok, _, err := GenerateToken(Principal{TenantID: "t-1"}, []byte("secret"), -time.Second)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("secret"))
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_Invalid(t *testing.T) {
	t.Parallel()

	good, _, err := GenerateToken(Principal{TenantID: "t-1"}, []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong secret", token: good},
		{name: "garbage", token: "a.b.c"},
		{name: "no exp", token: sign(t, jwt.MapClaims{"tenantId": "t-1"}, []byte("other"))},
		{name: "alg none", token: func() string {
			s, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}).
				SignedString(jwt.UnsafeAllowNoneSignatureType)
			require.NoError(t, err)
			return s
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, []byte("other"))
			require.ErrorIs(t, err, common.ErrTokenInvalid)
		})
	}
}

func TestParseToken_ClaimVariants(t *testing.T) {
	t.Parallel()
	secret := []byte("s")
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name    string
		claims  jwt.MapClaims
		tenant  string
		roles   []string
		allowed []string
	}{
		{
			name:   "cognito style",
			claims: jwt.MapClaims{"exp": exp, "custom:tenantId": "t-1", "cognito:groups": []string{"Super_Admin"}},
			tenant: "t-1",
			roles:  []string{"Super_Admin"},
		},
		{
			name:    "fallback keys and comma strings",
			claims:  jwt.MapClaims{"exp": exp, "tenant_id": "t-2", "roles": "viewer, admin", "allowedTenants": "t-3,t-4"},
			tenant:  "t-2",
			roles:   []string{"viewer", "admin"},
			allowed: []string{"t-3", "t-4"},
		},
		{
			name:   "tenant key order",
			claims: jwt.MapClaims{"exp": exp, "tenant": "last", "tenantId": "second"},
			tenant: "second",
		},
		{
			name:   "no tenant",
			claims: jwt.MapClaims{"exp": exp, "sub": "ops"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseToken(sign(t, tt.claims, secret), secret)
			require.NoError(t, err)
			assert.Equal(t, tt.tenant, p.TenantID)
			assert.Equal(t, tt.roles, p.Roles)
			assert.Equal(t, tt.allowed, p.AllowedTenants)
		})
	}
}

func TestPrincipal_IsAdmin(t *testing.T) {
	assert.True(t, (&Principal{Roles: []string{"viewer", "ADMIN"}}).IsAdmin())
	assert.True(t, (&Principal{Roles: []string{"super_admin"}}).IsAdmin())
	assert.False(t, (&Principal{Roles: []string{"super-admin"}}).IsAdmin())
	assert.False(t, (&Principal{}).IsAdmin())
}

func TestPrincipal_MayAccess(t *testing.T) {
	p := &Principal{TenantID: "t-1", AllowedTenants: []string{"t-2"}}
	assert.True(t, p.MayAccess("t-1"))
	assert.True(t, p.MayAccess("t-2"))
	assert.False(t, p.MayAccess("t-3"))
}
