package tenants

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func day(d int) time.Time { return time.Date(2024, 5, d, 10, 0, 0, 0, time.UTC) }

func newTestTracker() (*UsageTracker, *clock) {
	c := &clock{t: day(1)}
	tr := NewUsageTracker()
	tr.now = c.now
	return tr, c
}

func TestUsageTracker_Snapshot(t *testing.T) {
	tr, c := newTestTracker()

	tr.Record("t-1", Usage{Requests: 1, Bytes: 10})
	c.t = day(2)
	tr.Record("t-1", Usage{Requests: 1, Orders: 1, GMV: 99.5})
	tr.Record("t-1", Usage{Requests: 1})
	tr.Record("t-2", Usage{Requests: 7})

	snap := tr.Snapshot("t-1")
	assert.Equal(t, map[string]float64{
		api.MetricRequests: 3,
		api.MetricOrders:   1,
		api.MetricGMV:      99.5,
		api.MetricBytes:    10,
	}, snap.Summary)

	require.Len(t, snap.History, 2)
	assert.Equal(t, "2024-05-01", snap.History[0].Period)
	assert.Equal(t, 1.0, snap.History[0].Usage[api.MetricRequests])
	assert.Equal(t, "2024-05-02", snap.History[1].Period)
	assert.Equal(t, 2.0, snap.History[1].Usage[api.MetricRequests])
	assert.Equal(t, "2024-05-02T10:00:00.000000Z", snap.History[1].CreatedAt)

	empty := tr.Snapshot("t-none")
	assert.Empty(t, empty.History)
	assert.Equal(t, 0.0, empty.Summary[api.MetricRequests])
}

func TestUsageTracker_Aggregate(t *testing.T) {
	tr, c := newTestTracker()

	tr.Record("t-1", Usage{Requests: 1})
	tr.Record("t-1", Usage{Requests: 1, Bytes: 20})
	tr.Record("t-2", Usage{Requests: 1})
	c.t = day(2)
	tr.Record("t-1", Usage{Requests: 5})

	assert.Equal(t, 2, tr.Aggregate(day(1)))
	assert.Equal(t, 0, tr.Aggregate(day(3)))

	// Aggregating the same day twice replaces, not accumulates.
	assert.Equal(t, 2, tr.Aggregate(day(1)))

	resp, err := tr.Admin(AdminQuery{})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "t-2", resp.Items[0].TenantID)
	assert.Equal(t, "t-1", resp.Items[1].TenantID)
	assert.Equal(t, 2.0, resp.Items[1].Usage[api.MetricRequests])
	assert.Equal(t, 20.0, resp.Items[1].Usage[api.MetricBytes])
}

func seedAggregates(t *testing.T) *UsageTracker {
	t.Helper()
	tr, c := newTestTracker()
	for d := 1; d <= 3; d++ {
		c.t = day(d)
		tr.Record("t-1", Usage{Requests: float64(d), GMV: 100})
		tr.Record("t-2", Usage{Requests: 10 * float64(d), Orders: 1})
		tr.Aggregate(day(d))
	}
	return tr
}

func TestUsageTracker_Admin_OrderAndDefaults(t *testing.T) {
	tr := seedAggregates(t)

	resp, err := tr.Admin(AdminQuery{})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, DefaultPageSize, resp.PageSize)
	assert.Equal(t, 6, resp.Total)
	assert.Equal(t, api.AllMetrics, resp.AvailableMetrics)

	var order []string
	for _, it := range resp.Items {
		order = append(order, it.Period+"/"+it.TenantID)
	}
	assert.Equal(t, []string{
		"2024-05-03/t-2", "2024-05-03/t-1",
		"2024-05-02/t-2", "2024-05-02/t-1",
		"2024-05-01/t-2", "2024-05-01/t-1",
	}, order)
	assert.Equal(t, 66.0, resp.Summary[api.MetricRequests])
	assert.Equal(t, 300.0, resp.Summary[api.MetricGMV])
}

func TestUsageTracker_Admin_Filters(t *testing.T) {
	tr := seedAggregates(t)

	resp, err := tr.Admin(AdminQuery{
		StartDate: "2024-05-02",
		EndDate:   "2024-05-03",
		Metrics:   "requests, bogus ,gmv",
		Page:      2,
		PageSize:  3,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 3, resp.PageSize)
	assert.Equal(t, []string{api.MetricRequests, api.MetricGMV}, resp.AvailableMetrics)
	assert.Equal(t, api.UsageFilterEcho{StartDate: "2024-05-02", EndDate: "2024-05-03"}, resp.Filters)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "t-1", resp.Items[0].TenantID)
	assert.Equal(t, "2024-05-02", resp.Items[0].Period)
	assert.Equal(t, map[string]float64{api.MetricRequests: 2, api.MetricGMV: 100}, resp.Items[0].Usage)
	assert.Equal(t, map[string]float64{api.MetricRequests: 2, api.MetricGMV: 100}, resp.Summary)
}

func TestUsageTracker_Admin_PageSizeClamp(t *testing.T) {
	tr := seedAggregates(t)

	resp, err := tr.Admin(AdminQuery{PageSize: 1000, Page: -3})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, resp.PageSize)
	assert.Equal(t, 1, resp.Page)

	resp, err = tr.Admin(AdminQuery{PageSize: -1})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.PageSize)
	assert.Len(t, resp.Items, 1)

	resp, err = tr.Admin(AdminQuery{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 6, resp.Total)
}

func TestUsageTracker_Admin_InvalidDate(t *testing.T) {
	tr := seedAggregates(t)

	_, err := tr.Admin(AdminQuery{StartDate: "05/01/2024"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = tr.Admin(AdminQuery{EndDate: "2024-13-01"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}
