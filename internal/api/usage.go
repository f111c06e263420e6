package api

import (
	"net/url"
	"strconv"
	"strings"
)

// Metric names tracked per tenant.
const (
	MetricRequests = "requests"
	MetricOrders   = "orders"
	MetricGMV      = "gmv"
	MetricBytes    = "bytes"
)

// AllMetrics lists the metrics in display order.
var AllMetrics = []string{MetricRequests, MetricOrders, MetricGMV, MetricBytes}

type UsageEntry struct {
	TenantID  string             `json:"tenantId,omitempty"`
	Period    string             `json:"period"`
	Usage     map[string]float64 `json:"usage"`
	CreatedAt string             `json:"createdAt"`
}

type UsageSnapshot struct {
	TenantID string             `json:"tenantId"`
	Summary  map[string]float64 `json:"summary"`
	History  []UsageEntry       `json:"history"`
}

type BillingSnapshot struct {
	TenantID      string  `json:"tenantId"`
	Status        string  `json:"status"`
	NextBillingAt string  `json:"nextBillingAt,omitempty"`
	RetryAttempts int     `json:"retryAttempts,omitempty"`
	AmountDue     float64 `json:"amountDue,omitempty"`
	LastPayment   string  `json:"lastPayment,omitempty"`
}

type AdminUsageFilters struct {
	StartDate string
	EndDate   string
	Metrics   []string
	Page      int
	PageSize  int
}

// Query encodes the non-zero filters as query parameters.
func (f AdminUsageFilters) Query() url.Values {
	q := url.Values{}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}
	if len(f.Metrics) > 0 {
		q.Set("metrics", strings.Join(f.Metrics, ","))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(f.PageSize))
	}
	return q
}

type UsageFilterEcho struct {
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

type AdminUsageResponse struct {
	Items            []UsageEntry       `json:"items"`
	Page             int                `json:"page"`
	PageSize         int                `json:"pageSize"`
	Total            int                `json:"total"`
	AvailableMetrics []string           `json:"availableMetrics"`
	Summary          map[string]float64 `json:"summary"`
	Filters          UsageFilterEcho    `json:"filters"`
}
