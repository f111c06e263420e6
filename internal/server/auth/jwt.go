// Package auth issues and verifies the HS256 bearer tokens of the
// development backend.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Principal is the verified identity behind a request.
type Principal struct {
	Subject        string
	TenantID       string
	Roles          []string
	AllowedTenants []string
	ExpiresAt      time.Time
}

// tenantClaimKeys are tried in order; identity providers disagree on the name.
var tenantClaimKeys = []string{common.TenantClaimKey, common.FallbackTenantClaimKey, "tenant_id", "tenant"}

// IsAdmin reports whether any role is admin or super_admin, case-insensitively.
func (p *Principal) IsAdmin() bool {
	for _, r := range p.Roles {
		switch strings.ToLower(r) {
		case "admin", "super_admin":
			return true
		}
	}
	return false
}

// MayAccess reports whether the principal may act on tenantID: its own
// tenant or one listed in allowedTenants.
func (p *Principal) MayAccess(tenantID string) bool {
	if tenantID == p.TenantID {
		return true
	}
	for _, t := range p.AllowedTenants {
		if t == tenantID {
			return true
		}
	}
	return false
}

// GenerateToken signs a token for p valid for validityDuration. It returns
// the token and its expiry.
func GenerateToken(p Principal, secretKey []byte, validityDuration time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(validityDuration)

	claims := jwt.MapClaims{
		"exp":                 jwt.NewNumericDate(exp),
		"iat":                 jwt.NewNumericDate(now),
		common.TenantClaimKey: p.TenantID,
	}
	if p.Subject != "" {
		claims["sub"] = p.Subject
	}
	if len(p.Roles) > 0 {
		claims["roles"] = p.Roles
	}
	if len(p.AllowedTenants) > 0 {
		claims["allowedTenants"] = p.AllowedTenants
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp.Truncate(time.Second), nil
}

// ParseToken verifies tokenString and extracts its principal. Expired tokens
// yield common.ErrTokenExpired; every other failure wraps
// common.ErrTokenInvalid.
func ParseToken(tokenString string, secretKey []byte) (*Principal, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", common.ErrTokenInvalid, err)
	}
	return principalFromClaims(claims)
}

func principalFromClaims(claims jwt.MapClaims) (*Principal, error) {
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: exp", common.ErrTokenInvalid)
	}
	sub, _ := claims.GetSubject()

	p := &Principal{Subject: sub, ExpiresAt: exp.Time}
	for _, k := range tenantClaimKeys {
		if v, ok := claims[k].(string); ok && v != "" {
			p.TenantID = v
			break
		}
	}
	p.Roles = append(stringList(claims["cognito:groups"]), stringList(claims["roles"])...)
	p.AllowedTenants = stringList(claims["allowedTenants"])
	return p, nil
}

// stringList accepts a JSON array of strings or a comma separated string.
func stringList(v any) []string {
	var out []string
	switch x := v.(type) {
	case string:
		for _, s := range strings.Split(x, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, e := range x {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
