package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/shopkeeper/internal/api"
	"github.com/dmitrijs2005/shopkeeper/internal/client/client"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

var (
	ErrProvisioningFailed = errors.New("provisioning failed")
	ErrInvalidRequest     = errors.New("invalid provisioning request")
	ErrRunInProgress      = errors.New("provisioning already running")

	errEmptyResponse = errors.New("backend returned an empty response")
)

// UserMessage is the generic text shown when a run fails.
const UserMessage = "We could not create the tenant. Please try again."

// StageError reports the stage that failed and why.
type StageError struct {
	Stage  StageKey
	Detail string
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %s", e.Stage, e.Detail)
}

func (e *StageError) Unwrap() []error {
	return []error{ErrProvisioningFailed, e.Err}
}

// Result accumulates what each completed stage produced.
type Result struct {
	TenantID     string
	Tenant       *api.TenantCreationResponse
	AdminUser    *api.TenantUserResponse
	Subscription *api.SubscriptionCheckoutResponse
}

// TenantSetter receives the tenant id once provisioning is Ready.
// *tenant.ContextStore implements it.
type TenantSetter interface {
	SetTenantID(ctx context.Context, tenantID string) error
}

// Orchestrator owns one onboarding attempt at a time. Every Run starts from
// the first stage.
type Orchestrator struct {
	mu        sync.Mutex
	progress  Progress
	listeners []func(Progress)
	running   atomic.Bool

	provisioner client.Provisioner
	tenants     TenantSetter
	logger      logging.Logger
}

func NewOrchestrator(provisioner client.Provisioner, tenants TenantSetter, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		provisioner: provisioner,
		tenants:     tenants,
		logger:      logger.With("module", "onboarding"),
	}
}

// Progress returns a snapshot of all stages.
func (o *Orchestrator) Progress() Progress {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress
}

// Subscribe registers fn to receive a snapshot after every stage change.
func (o *Orchestrator) Subscribe(fn func(Progress)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, fn)
}

// Run executes the saga. On failure the returned Result holds whatever the
// completed stages produced and the error is a *StageError.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !o.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer o.running.Store(false)

	o.update(func(p *Progress) { *p = Progress{} })
	res := &Result{}

	o.start(StageTenant, "Invoking /v1/tenants...")
	tenant, err := o.provisioner.CreateTenant(ctx, req.tenantPayload())
	if err == nil && tenant == nil {
		err = errEmptyResponse
	}
	if err == nil && tenant.Tenant.TenantID == "" {
		err = errors.New("backend returned no tenant id")
	}
	if err != nil {
		return res, o.fail(ctx, StageTenant, err)
	}
	res.TenantID = tenant.Tenant.TenantID
	res.Tenant = tenant
	o.finish(StageTenant, "TenantId: "+res.TenantID)

	o.start(StageAdminUser, "Creating admin user...")
	user, err := o.provisioner.CreateTenantUser(ctx, res.TenantID, req.adminUserPayload())
	if err == nil && user == nil {
		err = errEmptyResponse
	}
	if err != nil {
		return res, o.fail(ctx, StageAdminUser, err)
	}
	res.AdminUser = user
	o.finish(StageAdminUser, "Admin invited and temporary password generated")

	o.start(StageSubscription, "Generating payment preference...")
	sub, err := o.provisioner.CreateSubscriptionCheckout(ctx, res.TenantID, api.SubscriptionCheckoutPayload{PlanID: req.Plan.PlanID})
	if err == nil && sub == nil {
		err = errEmptyResponse
	}
	if err != nil {
		return res, o.fail(ctx, StageSubscription, err)
	}
	res.Subscription = sub
	o.finish(StageSubscription, "PreferenceId: "+sub.CheckoutPreference.ID)

	o.start(StageReady, "Finalizing...")
	o.finish(StageReady, "Backoffice available: "+tenant.URLs.Backoffice)

	if err := o.tenants.SetTenantID(ctx, res.TenantID); err != nil {
		o.logger.Error(ctx, "failed to store provisioned tenant", "tenant", res.TenantID, "error", err)
	}
	o.logger.Info(ctx, "tenant provisioned", "tenant", res.TenantID)
	return res, nil
}

func (o *Orchestrator) start(k StageKey, detail string) {
	o.update(func(p *Progress) { p[k] = StageProgress{Status: StatusWorking, Detail: detail} })
}

func (o *Orchestrator) finish(k StageKey, detail string) {
	o.update(func(p *Progress) { p[k] = StageProgress{Status: StatusDone, Detail: detail} })
}

func (o *Orchestrator) fail(ctx context.Context, k StageKey, err error) error {
	detail := err.Error()
	o.update(func(p *Progress) { p[k] = StageProgress{Status: StatusError, Detail: detail} })
	o.logger.Error(ctx, "provisioning stage failed", "stage", k.String(), "error", err)
	return &StageError{Stage: k, Detail: detail, Err: err}
}

func (o *Orchestrator) update(fn func(p *Progress)) {
	o.mu.Lock()
	fn(&o.progress)
	snapshot := o.progress
	listeners := o.listeners
	o.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}
