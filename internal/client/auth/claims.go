// Package auth decodes bearer tokens issued by the identity provider and
// keeps the single authenticated session of the client.
//
// The client never verifies signatures: the backend does. It only needs the
// expiry and the tenant scope carried in the payload.
package auth

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the decoded payload of a bearer token. Empty strings mean
// the claim was absent.
type TokenClaims struct {
	ExpiresAt *time.Time
	TenantID  string
	Subject   string
	Extra     map[string]any
}

// Session pairs the raw token with its claims.
type Session struct {
	RawToken string
	Claims   TokenClaims
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Inspect decodes raw and checks it is usable at now. The returned error
// wraps common.ErrTokenMalformed, common.ErrTokenExpired or
// common.ErrTenantClaimMissing.
func Inspect(raw string, now time.Time) (TokenClaims, error) {
	segments := strings.Split(raw, ".")
	if len(segments) < 2 {
		return TokenClaims{}, fmt.Errorf("%w: %d segment(s)", common.ErrTokenMalformed, len(segments))
	}

	payload, err := segmentParser.DecodeSegment(segments[1])
	if err != nil {
		return TokenClaims{}, fmt.Errorf("%w: payload: %w", common.ErrTokenMalformed, err)
	}

	var mc jwt.MapClaims
	if err := json.Unmarshal(payload, &mc); err != nil {
		return TokenClaims{}, fmt.Errorf("%w: payload: %w", common.ErrTokenMalformed, err)
	}
	if mc == nil {
		return TokenClaims{}, fmt.Errorf("%w: payload is not an object", common.ErrTokenMalformed)
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return TokenClaims{}, fmt.Errorf("%w: exp: %w", common.ErrTokenMalformed, err)
	}
	// a token without expiry can never be proven current
	if exp == nil {
		return TokenClaims{}, fmt.Errorf("%w: no exp claim", common.ErrTokenExpired)
	}
	if !exp.After(now) {
		return TokenClaims{}, fmt.Errorf("%w: at %s", common.ErrTokenExpired, exp.UTC().Format(time.RFC3339))
	}

	tenantID := stringClaim(mc, common.TenantClaimKey)
	if tenantID == "" {
		tenantID = stringClaim(mc, common.FallbackTenantClaimKey)
	}
	if tenantID == "" {
		return TokenClaims{}, common.ErrTenantClaimMissing
	}

	subject, _ := mc.GetSubject()

	expiresAt := exp.Time
	claims := TokenClaims{
		ExpiresAt: &expiresAt,
		TenantID:  tenantID,
		Subject:   subject,
		Extra:     make(map[string]any),
	}
	for k, v := range mc {
		switch k {
		case "exp", "sub", common.TenantClaimKey, common.FallbackTenantClaimKey:
			continue
		}
		claims.Extra[k] = v
	}
	return claims, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	s, _ := mc[key].(string)
	return s
}

// Valid reports whether the claims still authorize requests at now.
func (c TokenClaims) Valid(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.After(now) && c.TenantID != ""
}

// Roles collects role names from the "roles" and "cognito:groups" claims.
func (c TokenClaims) Roles() []string {
	var roles []string
	for _, key := range []string{"roles", "cognito:groups"} {
		switch v := c.Extra[key].(type) {
		case []any:
			for _, r := range v {
				if s, ok := r.(string); ok {
					roles = append(roles, s)
				}
			}
		case string:
			roles = append(roles, v)
		}
	}
	return roles
}
