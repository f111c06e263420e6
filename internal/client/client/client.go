package client

import (
	"context"

	"github.com/dmitrijs2005/shopkeeper/internal/api"
)

// Provisioner is the backend side of the onboarding saga.
type Provisioner interface {
	CreateTenant(ctx context.Context, p api.TenantCreationPayload) (*api.TenantCreationResponse, error)
	CreateTenantUser(ctx context.Context, tenantID string, p api.TenantUserPayload) (*api.TenantUserResponse, error)
	CreateSubscriptionCheckout(ctx context.Context, tenantID string, p api.SubscriptionCheckoutPayload) (*api.SubscriptionCheckoutResponse, error)
}

// UsageReader serves the tenant and admin dashboards.
type UsageReader interface {
	TenantUsage(ctx context.Context, tenantID string) (*api.UsageSnapshot, error)
	TenantBilling(ctx context.Context, tenantID string) (*api.BillingSnapshot, error)
	AdminUsage(ctx context.Context, f api.AdminUsageFilters) (*api.AdminUsageResponse, error)
}

// Uploads hands out presigned slots for branding assets.
type Uploads interface {
	CreateLogoUpload(ctx context.Context, req api.LogoUploadRequest) (*api.LogoUploadResponse, error)
}

type Client interface {
	Provisioner
	UsageReader
	Uploads
	Ping(ctx context.Context) error
	IssueDevToken(ctx context.Context, req api.DevTokenRequest) (*api.DevTokenResponse, error)
}
