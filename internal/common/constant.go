// Package common contains shared constants and sentinel errors used across
// shopkeeper components.
package common

// Header names exchanged with the provisioning backend.
const (
	AuthorizationHeaderName = "Authorization"
	TenantHeaderName        = "X-Tenant-Id"
	AdminRoleHeaderName     = "X-Admin-Role"

	// AdminRoleHeaderValue marks admin-aggregate requests.
	AdminRoleHeaderValue = "super-admin"

	BearerPrefix = "Bearer "
)

// Claim keys carrying the tenant id, in lookup order.
const (
	TenantClaimKey         = "custom:tenantId"
	FallbackTenantClaimKey = "tenantId"
)

// Durable storage keys. Both hold plain strings.
const (
	TokenStorageKey  = "bearer_token"
	TenantStorageKey = "active_tenant_id"
)

// TenantParam is the query/path parameter naming the tenant of a navigation.
const TenantParam = "tenantId"
