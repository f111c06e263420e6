package tenants

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/api"
)

// ErrInvalidDate is returned for admin filters that are not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")

const (
	periodLayout = "2006-01-02"

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Usage is one measurement attributed to a tenant.
type Usage struct {
	Requests float64
	Orders   float64
	GMV      float64
	Bytes    float64
}

func (u Usage) add(o Usage) Usage {
	return Usage{
		Requests: u.Requests + o.Requests,
		Orders:   u.Orders + o.Orders,
		GMV:      u.GMV + o.GMV,
		Bytes:    u.Bytes + o.Bytes,
	}
}

func (u Usage) metric(name string) float64 {
	switch name {
	case api.MetricRequests:
		return u.Requests
	case api.MetricOrders:
		return u.Orders
	case api.MetricGMV:
		return u.GMV
	case api.MetricBytes:
		return u.Bytes
	}
	return 0
}

func (u Usage) asMap(metrics []string) map[string]float64 {
	out := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		out[m] = u.metric(m)
	}
	return out
}

type event struct {
	tenantID string
	period   string
	usage    Usage
	at       time.Time
}

type periodKey struct {
	tenantID string
	period   string
}

type aggregate struct {
	usage Usage
	at    time.Time
}

// UsageTracker keeps raw per-request events and the daily per-tenant
// aggregates built from them. Admin reports read aggregates only, so they
// lag behind until Aggregate runs for the day.
type UsageTracker struct {
	mu         sync.Mutex
	events     []event
	aggregates map[periodKey]aggregate
	now        func() time.Time
}

func NewUsageTracker() *UsageTracker {
	return &UsageTracker{
		aggregates: make(map[periodKey]aggregate),
		now:        time.Now,
	}
}

// Record stores one usage event dated now.
func (t *UsageTracker) Record(tenantID string, u Usage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	at := t.now().UTC()
	t.events = append(t.events, event{
		tenantID: tenantID,
		period:   at.Format(periodLayout),
		usage:    u,
		at:       at,
	})
}

// Aggregate sums the raw events of day per tenant and replaces the stored
// aggregates of that day. It returns the number of tenants aggregated.
func (t *UsageTracker) Aggregate(day time.Time) int {
	period := day.UTC().Format(periodLayout)

	t.mu.Lock()
	defer t.mu.Unlock()

	totals := make(map[string]Usage)
	for _, e := range t.events {
		if e.period == period {
			totals[e.tenantID] = totals[e.tenantID].add(e.usage)
		}
	}

	at := t.now().UTC()
	for tenantID, u := range totals {
		t.aggregates[periodKey{tenantID, period}] = aggregate{usage: u, at: at}
	}
	return len(totals)
}

// Snapshot returns the live daily history of one tenant, oldest day first,
// and the totals across it.
func (t *UsageTracker) Snapshot(tenantID string) *api.UsageSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	daily := make(map[string]aggregate)
	var total Usage
	for _, e := range t.events {
		if e.tenantID != tenantID {
			continue
		}
		a := daily[e.period]
		a.usage = a.usage.add(e.usage)
		if e.at.After(a.at) {
			a.at = e.at
		}
		daily[e.period] = a
		total = total.add(e.usage)
	}

	out := &api.UsageSnapshot{
		TenantID: tenantID,
		Summary:  total.asMap(api.AllMetrics),
		History:  make([]api.UsageEntry, 0, len(daily)),
	}
	for period, a := range daily {
		out.History = append(out.History, api.UsageEntry{
			Period:    period,
			Usage:     a.usage.asMap(api.AllMetrics),
			CreatedAt: isoTime(a.at),
		})
	}
	sort.Slice(out.History, func(i, j int) bool {
		return out.History[i].Period < out.History[j].Period
	})
	return out
}

// AdminQuery holds the raw admin report filters as they arrive on the wire.
type AdminQuery struct {
	StartDate string
	EndDate   string
	Metrics   string
	Page      int
	PageSize  int
}

func parsePeriod(s string) (time.Time, bool, error) {
	if s == "" {
		return time.Time{}, false, nil
	}
	d, err := time.Parse(periodLayout, s)
	if err != nil {
		return time.Time{}, false, ErrInvalidDate
	}
	return d, true, nil
}

func selectMetrics(raw string) []string {
	var out []string
	for _, m := range strings.Split(raw, ",") {
		m = strings.TrimSpace(m)
		for _, known := range api.AllMetrics {
			if m == known {
				out = append(out, m)
				break
			}
		}
	}
	if len(out) == 0 {
		return append([]string(nil), api.AllMetrics...)
	}
	return out
}

// Admin lists the aggregates across all tenants, newest period first. Unknown
// metrics are ignored, and an empty selection means all of them. The summary
// covers the returned page only.
func (t *UsageTracker) Admin(q AdminQuery) (*api.AdminUsageResponse, error) {
	start, hasStart, err := parsePeriod(q.StartDate)
	if err != nil {
		return nil, err
	}
	end, hasEnd, err := parsePeriod(q.EndDate)
	if err != nil {
		return nil, err
	}

	page := max(q.Page, 1)
	size := q.PageSize
	if size == 0 {
		size = DefaultPageSize
	}
	size = min(max(size, 1), MaxPageSize)
	metrics := selectMetrics(q.Metrics)

	type row struct {
		periodKey
		aggregate
	}

	t.mu.Lock()
	rows := make([]row, 0, len(t.aggregates))
	for k, a := range t.aggregates {
		d, _ := time.Parse(periodLayout, k.period)
		if hasStart && d.Before(start) {
			continue
		}
		if hasEnd && d.After(end) {
			continue
		}
		rows = append(rows, row{k, a})
	}
	t.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].period != rows[j].period {
			return rows[i].period > rows[j].period
		}
		return rows[i].tenantID > rows[j].tenantID
	})

	from := min((page-1)*size, len(rows))
	to := min(from+size, len(rows))

	var sum Usage
	items := make([]api.UsageEntry, 0, to-from)
	for _, r := range rows[from:to] {
		sum = sum.add(r.usage)
		items = append(items, api.UsageEntry{
			TenantID:  r.tenantID,
			Period:    r.period,
			Usage:     r.usage.asMap(metrics),
			CreatedAt: isoTime(r.at),
		})
	}

	return &api.AdminUsageResponse{
		Items:            items,
		Page:             page,
		PageSize:         size,
		Total:            len(rows),
		AvailableMetrics: metrics,
		Summary:          sum.asMap(metrics),
		Filters:          api.UsageFilterEcho{StartDate: q.StartDate, EndDate: q.EndDate},
	}, nil
}
