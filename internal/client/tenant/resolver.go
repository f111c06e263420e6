package tenant

import (
	"context"

	"github.com/dmitrijs2005/shopkeeper/internal/client/auth"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

// SessionSource yields the live authenticated session. *auth.Validator
// implements it.
type SessionSource interface {
	Current(ctx context.Context) (auth.Session, bool)
}

// Resolver picks the tenant for a navigation: an explicit hint first, then
// the session's tenant claim, then the stored context. A pick from the hint
// or the session is written back to the context store.
type Resolver struct {
	sessions SessionSource
	context  *ContextStore
	logger   logging.Logger
}

func NewResolver(sessions SessionSource, context *ContextStore, logger logging.Logger) *Resolver {
	return &Resolver{
		sessions: sessions,
		context:  context,
		logger:   logger.With("module", "tenant"),
	}
}

// Resolve returns the chosen tenant id, or "" when none is known.
func (r *Resolver) Resolve(ctx context.Context, hint string) string {
	if hint != "" {
		r.commit(ctx, hint)
		return hint
	}

	if s, ok := r.sessions.Current(ctx); ok && s.Claims.TenantID != "" {
		r.commit(ctx, s.Claims.TenantID)
		return s.Claims.TenantID
	}

	return r.context.TenantID()
}

// Context exposes the underlying store.
func (r *Resolver) Context() *ContextStore {
	return r.context
}

// Session proxies the session source.
func (r *Resolver) Session(ctx context.Context) (auth.Session, bool) {
	return r.sessions.Current(ctx)
}

func (r *Resolver) commit(ctx context.Context, tenantID string) {
	if err := r.context.SetTenantID(ctx, tenantID); err != nil {
		r.logger.Error(ctx, "failed to store tenant context", "tenant", tenantID, "error", err)
	}
}
