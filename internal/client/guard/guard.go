// Package guard decides, before entering a tenant-scoped area, whether a
// navigation may proceed or must be redirected.
//
// Guards never navigate themselves; they return a Decision for the caller
// (the router) to act on.
package guard

import (
	"context"
	"errors"
	"net/url"

	"github.com/dmitrijs2005/shopkeeper/internal/client/tenant"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

var ErrTenantUnresolved = errors.New("tenant unresolved")

// ReturnParam carries the originally requested destination on redirects.
const ReturnParam = "redirectTo"

type Kind int

const (
	Allow Kind = iota
	Redirect
)

func (k Kind) String() string {
	if k == Allow {
		return "allow"
	}
	return "redirect"
}

// Decision is either Allow or a Redirect to Path with Params. Reason explains
// a redirect.
type Decision struct {
	Kind   Kind
	Path   string
	Params url.Values
	Reason error
}

func (d Decision) Allowed() bool { return d.Kind == Allow }

// Location is the redirect target with its query string.
func (d Decision) Location() string {
	if len(d.Params) == 0 {
		return d.Path
	}
	return d.Path + "?" + d.Params.Encode()
}

func allow() Decision { return Decision{Kind: Allow} }

func redirect(path string, params url.Values, reason error) Decision {
	return Decision{Kind: Redirect, Path: path, Params: params, Reason: reason}
}

// Routes names the redirect targets.
type Routes struct {
	Onboarding    string
	Auth          string
	DefaultTenant string
}

var DefaultRoutes = Routes{
	Onboarding:    "/wizard",
	Auth:          "/auth",
	DefaultTenant: "/catalog",
}

type Guard struct {
	resolver *tenant.Resolver
	routes   Routes
	logger   logging.Logger
}

func New(resolver *tenant.Resolver, routes Routes, logger logging.Logger) *Guard {
	return &Guard{resolver: resolver, routes: routes, logger: logger.With("module", "guard")}
}

// Soft admits any navigation for which a tenant can be resolved and sends
// the rest to onboarding.
func (g *Guard) Soft(ctx context.Context, nav Navigation) Decision {
	if tenantID := g.resolver.Resolve(ctx, nav.TenantHint()); tenantID != "" {
		return allow()
	}
	g.logger.Debug(ctx, "no tenant, redirecting to onboarding", "url", nav.URL())
	return redirect(g.routes.Onboarding, url.Values{ReturnParam: {nav.URL()}}, ErrTenantUnresolved)
}

// Strict admits only authenticated navigations whose declared tenant, if
// any, is the session's tenant. A mismatching hint is never honored: the
// context is reset to the session tenant and the caller is sent to the
// default tenant page.
func (g *Guard) Strict(ctx context.Context, nav Navigation) Decision {
	session, ok := g.resolver.Session(ctx)
	if !ok {
		return redirect(g.routes.Auth, url.Values{ReturnParam: {nav.URL()}}, common.ErrUnauthenticated)
	}
	sessionTenant := session.Claims.TenantID

	if hint := nav.TenantHint(); hint != "" && hint != sessionTenant {
		g.logger.Warn(ctx, "tenant mismatch", "requested", hint, "session", sessionTenant, "url", nav.URL())
		g.commit(ctx, sessionTenant)
		return redirect(g.routes.DefaultTenant, url.Values{common.TenantParam: {sessionTenant}}, common.ErrTenantMismatch)
	}

	g.commit(ctx, sessionTenant)
	return allow()
}

func (g *Guard) commit(ctx context.Context, tenantID string) {
	if err := g.resolver.Context().SetTenantID(ctx, tenantID); err != nil {
		g.logger.Error(ctx, "failed to store tenant context", "tenant", tenantID, "error", err)
	}
}
