// Package client talks to the shopkeeper provisioning backend over HTTP/JSON.
//
// # Overview
//
// The package provides:
//  1. Transport-agnostic contracts (Provisioner, UsageReader, Uploads) that
//     the onboarding orchestrator, the usage service and the CLI depend on.
//  2. A concrete HTTP implementation (HTTPClient) that attaches the bearer
//     and tenant headers of the live session to tenant-scoped calls and maps
//     HTTP status codes to sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrForbidden. Any other non-2xx
// answer is an *APIError. Tenant-scoped calls fail locally, before any
// network traffic, with common.ErrUnauthenticated when there is no session
// and with common.ErrTenantMismatch when the requested tenant is not the
// session's.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation; the per-request timeout comes from
// configuration.
package client
