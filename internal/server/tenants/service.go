// Package tenants keeps the development backend's tenant registry: tenants,
// their users and subscriptions, plus the usage they generate.
//
// Everything lives in memory. Identifiers and URLs follow the formats the
// storefront platform hands out in production so the CLI can be exercised
// end to end.
package tenants

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/api"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrTenantNotFound = fmt.Errorf("tenant %w", common.ErrorNotFound)

// Defaults applied to missing payload fields.
const (
	DefaultTenantName = "New store"
	DefaultIndustry   = "retail"
	DefaultCurrency   = "USD"
	DefaultProvider   = "mercadopago"
	DefaultPlan       = "standard"
	DefaultUserEmail  = "owner@example.com"

	StatusActive  = "active"
	StatusInvited = "invited"

	supportMailbox = "onboarding"

	billingCycle = 30 * 24 * time.Hour
)

type user struct {
	api.TenantUser
	passwordHash []byte
}

type subscription struct {
	id            string
	planID        string
	preferenceID  string
	status        string
	retryAttempts int
	nextBillingAt time.Time
}

type record struct {
	tenant          api.Tenant
	onboardingToken string
	users           map[string]*user
	subscription    *subscription
}

type Service struct {
	mu      sync.RWMutex
	tenants map[string]*record
	domain  string
	usage   *UsageTracker
	now     func() time.Time
}

// NewService creates an empty registry whose URLs live under domain.
func NewService(domain string, usage *UsageTracker) *Service {
	return &Service{
		tenants: make(map[string]*record),
		domain:  domain,
		usage:   usage,
		now:     time.Now,
	}
}

// hexID returns n hex characters taken from a fresh UUID.
func hexID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000") + "Z"
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func (s *Service) backofficeURL(tenantID string) string {
	return fmt.Sprintf("https://admin.%s/?tenantId=%s", s.domain, url.QueryEscape(tenantID))
}

func (s *Service) temporaryPassword(given string) (string, []byte, error) {
	pwd := given
	if pwd == "" {
		var err error
		pwd, err = common.MakeRandHexString(6)
		if err != nil {
			return "", nil, err
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("error hashing password: %w", err)
	}
	return pwd, hash, nil
}

// CreateTenant registers a tenant together with its first admin user.
func (s *Service) CreateTenant(ctx context.Context, p api.TenantCreationPayload) (*api.TenantCreationResponse, error) {
	tenantID := "t-" + hexID(8)
	now := s.now()

	pwd, hash, err := s.temporaryPassword("")
	if err != nil {
		return nil, err
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	backoffice := fmt.Sprintf("%s&token=%s", s.backofficeURL(tenantID), token)

	t := api.Tenant{
		TenantID:          tenantID,
		Name:              orDefault(p.Name, DefaultTenantName),
		Industry:          orDefault(p.Industry, DefaultIndustry),
		Status:            StatusActive,
		PreferredCurrency: orDefault(p.Currency, DefaultCurrency),
		PaymentProvider:   orDefault(p.PaymentProvider, DefaultProvider),
		Branding:          p.Branding,
		CreatedAt:         isoTime(now),
	}

	admin := &user{
		TenantUser: api.TenantUser{
			UserID:    fmt.Sprintf("%s#adm-%s", tenantID, hexID(6)),
			Email:     orDefault(p.AdminEmail, fmt.Sprintf("admin@%s.example.com", tenantID)),
			Role:      api.RoleAdmin,
			Status:    StatusActive,
			CreatedAt: isoTime(now),
		},
		passwordHash: hash,
	}

	s.mu.Lock()
	s.tenants[tenantID] = &record{
		tenant:          t,
		onboardingToken: token,
		users:           map[string]*user{admin.UserID: admin},
	}
	s.mu.Unlock()

	return &api.TenantCreationResponse{
		Tenant: t,
		AdminUser: api.AdminUser{
			UserID:            admin.UserID,
			Email:             admin.Email,
			Role:              admin.Role,
			TemporaryPassword: pwd,
			LoginURL:          backoffice,
		},
		URLs: api.TenantURLs{
			Storefront: fmt.Sprintf("https://%s.%s", tenantID, s.domain),
			Backoffice: backoffice,
			APIBase:    fmt.Sprintf("https://api.%s/v1/%s", s.domain, tenantID),
		},
		OnboardingToken: token,
	}, nil
}

// Tenant returns a copy of the stored tenant.
func (s *Service) Tenant(ctx context.Context, tenantID string) (*api.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.tenants[tenantID]
	if !ok {
		return nil, ErrTenantNotFound
	}
	t := r.tenant
	return &t, nil
}

// CreateUser invites a user into an existing tenant.
func (s *Service) CreateUser(ctx context.Context, tenantID string, p api.TenantUserPayload) (*api.TenantUserResponse, error) {
	pwd, hash, err := s.temporaryPassword(p.TemporaryPassword)
	if err != nil {
		return nil, err
	}

	u := &user{
		TenantUser: api.TenantUser{
			UserID:      fmt.Sprintf("%s#usr-%s", tenantID, hexID(8)),
			Email:       orDefault(p.Email, DefaultUserEmail),
			Role:        orDefault(p.Role, api.RoleAdmin),
			DisplayName: p.DisplayName,
			Status:      StatusInvited,
			CreatedAt:   isoTime(s.now()),
		},
		passwordHash: hash,
	}

	s.mu.Lock()
	r, ok := s.tenants[tenantID]
	if ok {
		r.users[u.UserID] = u
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrTenantNotFound
	}

	out := u.TenantUser
	out.TemporaryPassword = pwd
	return &api.TenantUserResponse{
		TenantID: tenantID,
		User:     out,
		LoginURL: s.backofficeURL(tenantID),
		Support:  supportMailbox + "@" + s.domain,
	}, nil
}

// CheckPassword reports whether password matches the temporary password of
// the given user.
func (s *Service) CheckPassword(ctx context.Context, tenantID, userID, password string) (bool, error) {
	s.mu.RLock()
	r, ok := s.tenants[tenantID]
	var u *user
	if ok {
		u = r.users[userID]
	}
	s.mu.RUnlock()

	if u == nil {
		return false, ErrTenantNotFound
	}
	err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password))
	return err == nil, nil
}

// Checkout starts (or restarts) the tenant's subscription and creates a new
// recurring payment preference for it. An existing subscription keeps its id.
func (s *Service) Checkout(ctx context.Context, tenantID string, p api.SubscriptionCheckoutPayload) (*api.SubscriptionCheckoutResponse, error) {
	s.mu.Lock()
	r, ok := s.tenants[tenantID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrTenantNotFound
	}

	sub := r.subscription
	if sub == nil {
		sub = &subscription{id: fmt.Sprintf("%s#sub-%s", tenantID, hexID(8))}
		r.subscription = sub
	}
	sub.planID = orDefault(p.PlanID, DefaultPlan)
	sub.preferenceID = fmt.Sprintf("%s#pref-sub-%s", tenantID, hexID(8))
	sub.status = StatusActive
	sub.retryAttempts = 0
	sub.nextBillingAt = s.now().Add(billingCycle)
	resp := &api.SubscriptionCheckoutResponse{
		TenantID:       tenantID,
		SubscriptionID: sub.id,
		PlanID:         sub.planID,
		CheckoutPreference: api.CheckoutPreference{
			ID:       sub.preferenceID,
			Type:     "recurring",
			Provider: DefaultProvider,
		},
		Status:        sub.status,
		NextBillingAt: isoTime(sub.nextBillingAt),
	}
	s.mu.Unlock()

	return resp, nil
}

// Billing returns the tenant's subscription state. A tenant that never went
// through checkout is reported active with no retries.
func (s *Service) Billing(ctx context.Context, tenantID string) (*api.BillingSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.tenants[tenantID]
	if !ok {
		return nil, ErrTenantNotFound
	}

	out := &api.BillingSnapshot{TenantID: tenantID, Status: StatusActive}
	if sub := r.subscription; sub != nil {
		out.Status = sub.status
		out.RetryAttempts = sub.retryAttempts
		out.NextBillingAt = isoTime(sub.nextBillingAt)
	}
	return out, nil
}

// Usage returns the daily usage history of one tenant.
func (s *Service) Usage(ctx context.Context, tenantID string) (*api.UsageSnapshot, error) {
	if _, err := s.Tenant(ctx, tenantID); err != nil {
		return nil, err
	}
	return s.usage.Snapshot(tenantID), nil
}
