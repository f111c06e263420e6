// Package common defines shared constants and sentinel errors used across
// client and server layers of shopkeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Token decoding errors. On the client these never reach callers of the
	// validator; they are logged and the session is cleared.
	ErrTokenMalformed     = errors.New("token malformed")
	ErrTokenExpired       = errors.New("token expired")
	ErrTenantClaimMissing = errors.New("tenant claim missing")
	ErrTokenInvalid       = errors.New("token invalid")

	// Tenant scope errors.
	ErrTenantMismatch  = errors.New("tenant mismatch")
	ErrUnauthenticated = errors.New("unauthenticated")

	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
)
