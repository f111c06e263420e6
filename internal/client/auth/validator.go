package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

// Validator owns the authenticated session. A stored session always has an
// expiry in the future and a tenant id; anything else is cleared instead.
type Validator struct {
	mu      sync.RWMutex
	session *Session

	store  storage.Store
	logger logging.Logger
	now    func() time.Time
}

type Option func(*Validator)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// NewValidator restores the persisted token, if any. A persisted token that
// no longer validates is removed from the store.
func NewValidator(ctx context.Context, store storage.Store, logger logging.Logger, opts ...Option) (*Validator, error) {
	v := &Validator{
		store:  store,
		logger: logger.With("module", "auth"),
		now:    time.Now,
	}
	for _, o := range opts {
		o(v)
	}

	raw, err := store.Get(ctx, common.TokenStorageKey)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if raw == "" {
		return v, nil
	}
	if err := v.SetToken(ctx, raw); err != nil {
		return nil, err
	}
	return v, nil
}

// SetToken replaces the session with the one carried by raw. An empty or
// invalid token clears it. Only storage failures are returned.
func (v *Validator) SetToken(ctx context.Context, raw string) error {
	if raw == "" {
		return v.Clear(ctx)
	}

	claims, err := Inspect(raw, v.now())
	if err != nil {
		v.logger.Warn(ctx, "token rejected", "error", err)
		return v.Clear(ctx)
	}

	v.mu.Lock()
	v.session = &Session{RawToken: raw, Claims: claims}
	err = v.store.Set(ctx, common.TokenStorageKey, raw)
	v.mu.Unlock()

	if err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	v.logger.Info(ctx, "session established", "tenant", claims.TenantID, "subject", claims.Subject)
	return nil
}

// Clear drops the session and the persisted token.
func (v *Validator) Clear(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.session = nil
	if err := v.store.Delete(ctx, common.TokenStorageKey); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Current returns the live session. A session that expired since it was set
// is cleared as a side effect.
func (v *Validator) Current(ctx context.Context) (Session, bool) {
	v.mu.RLock()
	s := v.session
	v.mu.RUnlock()

	if s == nil {
		return Session{}, false
	}
	if s.Claims.Valid(v.now()) {
		return *s, true
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	// a concurrent SetToken may have installed a fresh session meanwhile;
	// its token is the persisted one and must stay
	if v.session != s {
		return Session{}, false
	}
	v.session = nil

	v.logger.Info(ctx, "session expired", "tenant", s.Claims.TenantID)
	if err := v.store.Delete(ctx, common.TokenStorageKey); err != nil {
		v.logger.Error(ctx, "failed to delete expired token", "error", err)
	}
	return Session{}, false
}

// TenantID is the tenant claim of the live session, or "".
func (v *Validator) TenantID(ctx context.Context) string {
	s, ok := v.Current(ctx)
	if !ok {
		return ""
	}
	return s.Claims.TenantID
}

// AuthorizationHeader returns the bearer and tenant headers for the live
// session, or an empty header set.
func (v *Validator) AuthorizationHeader(ctx context.Context) http.Header {
	h := http.Header{}
	s, ok := v.Current(ctx)
	if !ok {
		return h
	}
	h.Set(common.AuthorizationHeaderName, common.BearerPrefix+s.RawToken)
	h.Set(common.TenantHeaderName, s.Claims.TenantID)
	return h
}
