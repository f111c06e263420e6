package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shopkeeper/internal/client/guard"
)

var (
	ErrUnknownPage      = errors.New("unknown page")
	ErrTooManyRedirects = errors.New("too many redirects")
)

const maxRedirects = 5

type access int

const (
	accessPublic access = iota
	accessSoft
	accessStrict
)

type page struct {
	pattern string
	access  access
	render  func(ctx context.Context, a *App, nav guard.Navigation) error
}

// pages is the route table of the CLI. The first matching pattern wins.
var pages = []page{
	{pattern: "/wizard", access: accessPublic, render: func(_ context.Context, a *App, _ guard.Navigation) error {
		a.printf("No store selected yet. Type 'onboard' to create one.\n")
		return nil
	}},
	{pattern: "/auth", access: accessPublic, render: func(_ context.Context, a *App, _ guard.Navigation) error {
		a.printf("Sign in required. Type 'login' to continue.\n")
		return nil
	}},
	{pattern: "/catalog", access: accessSoft},
	{pattern: "/orders", access: accessSoft},
	{pattern: "/customers", access: accessSoft},
	{pattern: "/analytics/usage", access: accessSoft, render: func(ctx context.Context, a *App, _ guard.Navigation) error {
		return a.Usage(ctx)
	}},
	{pattern: "/admin", access: accessStrict},
	{pattern: "/admin/:tenantId/usage", access: accessStrict, render: func(ctx context.Context, a *App, _ guard.Navigation) error {
		return a.AdminUsage(ctx, nil)
	}},
}

func matchPage(target string) (page, guard.Navigation, error) {
	for _, p := range pages {
		nav, ok, err := guard.ParseNavigation(target, p.pattern)
		if err != nil {
			return page{}, guard.Navigation{}, err
		}
		if ok {
			return p, nav, nil
		}
	}
	return page{}, guard.Navigation{}, fmt.Errorf("%w: %s", ErrUnknownPage, target)
}

// Open navigates to target, running the page's guard and following any
// redirect it returns.
func (a *App) Open(ctx context.Context, target string) error {
	for range maxRedirects + 1 {
		p, nav, err := matchPage(target)
		if err != nil {
			return err
		}

		var d guard.Decision
		switch p.access {
		case accessSoft:
			d = a.guard.Soft(ctx, nav)
		case accessStrict:
			d = a.guard.Strict(ctx, nav)
		}

		if !d.Allowed() {
			a.printf("Redirected to %s (%v)\n", d.Location(), d.Reason)
			target = d.Location()
			continue
		}

		a.setLocation(nav.Path)
		if back := nav.Query.Get(guard.ReturnParam); back != "" {
			a.setReturnTo(back)
		}

		if tenantID := a.resolver.Context().TenantID(); tenantID != "" && p.access != accessPublic {
			a.printf("Now at %s [tenant %s]\n", nav.URL(), tenantID)
		} else {
			a.printf("Now at %s\n", nav.URL())
		}

		if p.render != nil {
			return p.render(ctx, a, nav)
		}
		return nil
	}
	return ErrTooManyRedirects
}

// resume reopens the destination a guard redirect interrupted, if any.
func (a *App) resume(ctx context.Context) error {
	back := a.takeReturnTo()
	if back == "" {
		return nil
	}
	return a.Open(ctx, back)
}
