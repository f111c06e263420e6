// Package authtest builds unsigned bearer tokens for tests.
package authtest

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token encodes payload as an unsigned JWT ("alg": "none").
func Token(payload map[string]any) string {
	s, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims(payload)).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		panic(err)
	}
	return s
}

// TenantToken is a token for tenantID expiring ttl after now.
func TenantToken(tenantID string, now time.Time, ttl time.Duration) string {
	return Token(map[string]any{
		"exp":             now.Add(ttl).Unix(),
		"custom:tenantId": tenantID,
		"sub":             "user-" + tenantID,
	})
}
