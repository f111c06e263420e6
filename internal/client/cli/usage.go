package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/shopkeeper/internal/api"
	"github.com/dmitrijs2005/shopkeeper/internal/client/guard"
)

// Usage prints usage and billing of the active tenant.
func (a *App) Usage(ctx context.Context) error {
	tenantID := a.resolver.Resolve(ctx, "")
	if tenantID == "" {
		return guard.ErrTenantUnresolved
	}

	o, err := a.usage.Overview(ctx, tenantID)
	if err != nil {
		return err
	}

	a.printf("Usage of %s\n", tenantID)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, m := range api.AllMetrics {
		fmt.Fprintf(tw, "  %s\t%s\n", m, formatAmount(o.Usage.Summary[m]))
	}
	tw.Flush()

	if len(o.Usage.History) > 0 {
		a.printf("History\n")
		writeEntries(a.out, o.Usage.History, api.AllMetrics, false)
	}

	b := o.Billing
	a.printf("Billing: %s", b.Status)
	if b.NextBillingAt != "" {
		a.printf(", next charge %s", b.NextBillingAt)
	}
	if b.AmountDue > 0 {
		a.printf(", due %s", formatAmount(b.AmountDue))
	}
	if b.RetryAttempts > 0 {
		a.printf(", %d retries", b.RetryAttempts)
	}
	a.printf("\n")
	return nil
}

// parseAdminFilters reads key=value arguments: from, to, metrics, page, size.
func parseAdminFilters(args []string) (api.AdminUsageFilters, error) {
	var f api.AdminUsageFilters
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return f, fmt.Errorf("expected key=value, got %q", arg)
		}
		switch k {
		case "from":
			f.StartDate = v
		case "to":
			f.EndDate = v
		case "metrics":
			f.Metrics = strings.Split(v, ",")
		case "page", "size":
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return f, fmt.Errorf("%s must be a positive number", k)
			}
			if k == "page" {
				f.Page = n
			} else {
				f.PageSize = n
			}
		default:
			return f, fmt.Errorf("unknown filter %q", k)
		}
	}
	return f, nil
}

// AdminUsage prints usage aggregated across tenants.
func (a *App) AdminUsage(ctx context.Context, args []string) error {
	f, err := parseAdminFilters(args)
	if err != nil {
		return err
	}

	resp, err := a.usage.AdminUsage(ctx, f)
	if err != nil {
		return err
	}

	a.printf("Tenant usage, page %d (%d per page, %d total)", resp.Page, resp.PageSize, resp.Total)
	if resp.Filters.StartDate != "" || resp.Filters.EndDate != "" {
		a.printf(" from %s to %s", orDash(resp.Filters.StartDate), orDash(resp.Filters.EndDate))
	}
	a.printf("\n")

	writeEntries(a.out, resp.Items, resp.AvailableMetrics, true)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, m := range resp.AvailableMetrics {
		fmt.Fprintf(tw, "  total %s\t%s\n", m, formatAmount(resp.Summary[m]))
	}
	return tw.Flush()
}

func writeEntries(w io.Writer, entries []api.UsageEntry, metrics []string, withTenant bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	head := []string{"period"}
	if withTenant {
		head = append(head, "tenant")
	}
	fmt.Fprintf(tw, "  %s\n", strings.Join(append(head, metrics...), "\t"))

	for _, e := range entries {
		row := []string{e.Period}
		if withTenant {
			row = append(row, e.TenantID)
		}
		for _, m := range metrics {
			row = append(row, formatAmount(e.Usage[m]))
		}
		fmt.Fprintf(tw, "  %s\n", strings.Join(row, "\t"))
	}
	tw.Flush()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
