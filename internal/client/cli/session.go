package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/api"
	"github.com/dmitrijs2005/shopkeeper/internal/client/auth"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Login starts a session.
//
//	login                     prompts for a bearer token without echo
//	login <token>             uses the token as given
//	login dev <tenant> [role] obtains a token from the development backend
func (a *App) Login(ctx context.Context, args []string) error {
	var raw string
	switch {
	case len(args) >= 2 && args[0] == "dev":
		req := api.DevTokenRequest{TenantID: args[1], Subject: "cli@" + args[1]}
		if len(args) > 2 {
			req.Roles = args[2:]
		}
		resp, err := a.api.IssueDevToken(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to obtain dev token: %w", err)
		}
		raw = resp.Token
	case len(args) == 1:
		raw = args[0]
	default:
		v, err := GetSecret(a.out, "Bearer token")
		if err != nil {
			return err
		}
		raw = v
	}

	// Inspect first so the user learns why a token is rejected; SetToken
	// only reports storage failures.
	claims, inspectErr := auth.Inspect(raw, time.Now())
	if err := a.validator.SetToken(ctx, raw); err != nil {
		return err
	}
	if inspectErr != nil {
		return fmt.Errorf("token rejected: %w", inspectErr)
	}

	tenantID := a.resolver.Resolve(ctx, "")
	a.printf("Logged in to tenant %s, session valid until %s\n", tenantID, claims.ExpiresAt.Local().Format(time.RFC3339))
	return a.resume(ctx)
}

// Logout drops the session. The active tenant is kept.
func (a *App) Logout(ctx context.Context) error {
	if err := a.validator.Clear(ctx); err != nil {
		return err
	}
	a.printf("Logged out\n")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	s, ok := a.validator.Current(ctx)
	if !ok {
		return ErrNotLoggedIn
	}
	c := s.Claims

	a.printf("tenant:  %s\n", c.TenantID)
	if c.Subject != "" {
		a.printf("subject: %s\n", c.Subject)
	}
	if roles := c.Roles(); len(roles) > 0 {
		a.printf("roles:   %s\n", strings.Join(roles, ", "))
	}
	a.printf("expires: %s\n", c.ExpiresAt.Local().Format(time.RFC3339))

	keys := make([]string, 0, len(c.Extra))
	for k := range c.Extra {
		if k == "roles" || k == "cognito:groups" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		a.printf("%s: %v\n", k, c.Extra[k])
	}
	return nil
}
