package api

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminUsageFilters_Query(t *testing.T) {
	assert.Equal(t, url.Values{}, AdminUsageFilters{}.Query())

	q := AdminUsageFilters{
		StartDate: "2024-05-01",
		EndDate:   "2024-05-31",
		Metrics:   []string{"orders", "gmv"},
		Page:      2,
		PageSize:  50,
	}.Query()

	assert.Equal(t, "2024-05-01", q.Get("startDate"))
	assert.Equal(t, "2024-05-31", q.Get("endDate"))
	assert.Equal(t, "orders,gmv", q.Get("metrics"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "50", q.Get("pageSize"))
}
