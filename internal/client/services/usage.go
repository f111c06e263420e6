// Package services contains application services for the shopkeeper client
// built on top of the backend client: usage dashboards and branding uploads.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/shopkeeper/internal/api"
	"github.com/dmitrijs2005/shopkeeper/internal/client/client"
	"golang.org/x/sync/errgroup"
)

// Overview is what the tenant usage page shows.
type Overview struct {
	Usage   *api.UsageSnapshot
	Billing *api.BillingSnapshot
}

// UsageService reads tenant and platform-wide usage.
type UsageService interface {
	// Overview fetches usage and billing of one tenant concurrently.
	Overview(ctx context.Context, tenantID string) (*Overview, error)
	// AdminUsage fetches aggregated usage across tenants and fills in
	// defaults the backend may omit.
	AdminUsage(ctx context.Context, f api.AdminUsageFilters) (*api.AdminUsageResponse, error)
}

type usageService struct {
	client client.UsageReader
}

func NewUsageService(c client.UsageReader) UsageService {
	return &usageService{client: c}
}

func (s *usageService) Overview(ctx context.Context, tenantID string) (*Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u, err := s.client.TenantUsage(gctx, tenantID)
		if err != nil {
			return fmt.Errorf("usage: %w", err)
		}
		out.Usage = u
		return nil
	})
	g.Go(func() error {
		b, err := s.client.TenantBilling(gctx, tenantID)
		if err != nil {
			return fmt.Errorf("billing: %w", err)
		}
		out.Billing = b
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *usageService) AdminUsage(ctx context.Context, f api.AdminUsageFilters) (*api.AdminUsageResponse, error) {
	resp, err := s.client.AdminUsage(ctx, f)
	if err != nil {
		return nil, err
	}
	return withDefaults(resp, f), nil
}

const defaultAdminPageSize = 10

func withDefaults(resp *api.AdminUsageResponse, f api.AdminUsageFilters) *api.AdminUsageResponse {
	metrics := f.Metrics
	if len(metrics) == 0 {
		metrics = resp.AvailableMetrics
	}
	if len(metrics) == 0 {
		metrics = api.AllMetrics
	}

	summary := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		summary[m] = resp.Summary[m]
	}

	out := &api.AdminUsageResponse{
		Items:            resp.Items,
		Page:             resp.Page,
		PageSize:         resp.PageSize,
		Total:            resp.Total,
		AvailableMetrics: metrics,
		Summary:          summary,
		Filters:          resp.Filters,
	}
	if out.Items == nil {
		out.Items = []api.UsageEntry{}
	}
	if out.Page == 0 {
		out.Page = 1
	}
	if out.PageSize == 0 {
		out.PageSize = defaultAdminPageSize
	}
	if out.Total == 0 {
		out.Total = len(out.Items)
	}
	if out.Filters == (api.UsageFilterEcho{}) {
		out.Filters = api.UsageFilterEcho{StartDate: f.StartDate, EndDate: f.EndDate}
	}
	return out
}
