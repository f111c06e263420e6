package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/shopkeeper/internal/client/onboarding"
)

type prompt struct {
	label  string
	def    string
	secret bool
	target *string
}

// collectRequest walks the wizard steps and returns the filled request.
func (a *App) collectRequest(ctx context.Context) (onboarding.Request, error) {
	req := onboarding.NewRequest()
	var logoPath string

	steps := []prompt{
		{label: "Admin email", target: &req.Account.AdminEmail},
		{label: "Admin display name", def: "Owner", target: &req.Account.DisplayName},
		{label: "Store name", target: &req.Store.Name},
		{label: "Industry", target: &req.Store.Industry},
		{label: "Currency (USD, ARS, BRL)", def: req.Store.Currency, target: &req.Store.Currency},
		{label: "Payment provider", def: req.Payment.Provider, target: &req.Payment.Provider},
		{label: "Payment public key", target: &req.Payment.PublicKey},
		{label: "Payment access token", secret: true, target: &req.Payment.AccessToken},
		{label: "Store domain", target: &req.Branding.Domain},
		{label: "Primary color", def: req.Branding.PrimaryColor, target: &req.Branding.PrimaryColor},
		{label: "Logo file (empty to skip)", target: &logoPath},
		{label: "Plan (standard, growth)", def: req.Plan.PlanID, target: &req.Plan.PlanID},
	}

	for _, s := range steps {
		var (
			v   string
			err error
		)
		if s.secret {
			v, err = GetSecret(a.out, s.label)
		} else {
			v, err = GetWithDefault(a.reader, s.label, s.def, a.out)
		}
		if err != nil {
			return req, err
		}
		*s.target = v
	}

	if logoPath != "" {
		logoURL, err := a.branding.UploadLogo(ctx, logoPath)
		if err != nil {
			return req, fmt.Errorf("logo upload: %w", err)
		}
		req.Branding.LogoURL = logoURL
		a.printf("Logo uploaded: %s\n", logoURL)
	}
	return req, nil
}

// Onboard runs the wizard and provisions the tenant. Progress is printed by
// the orchestrator subscription installed in newApp.
func (a *App) Onboard(ctx context.Context) error {
	req, err := a.collectRequest(ctx)
	if err != nil {
		return err
	}
	return a.provision(ctx, req)
}

func (a *App) provision(ctx context.Context, req onboarding.Request) error {
	res, err := a.orchestrator.Run(ctx, req)

	var verr *onboarding.ValidationError
	if errors.As(err, &verr) {
		fields := make([]string, 0, len(verr.Fields))
		for f := range verr.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			a.printf("  - %s\n", verr.Fields[f])
		}
		return err
	}

	var serr *onboarding.StageError
	if errors.As(err, &serr) {
		a.printf("%s\n", onboarding.UserMessage)
		a.printf("Manual step: %s\n", onboarding.Fallback(serr.Stage))
		return err
	}
	if err != nil {
		return err
	}

	a.printf("\nTenant %s is ready\n", res.TenantID)
	a.printf("  storefront:  %s\n", res.Tenant.URLs.Storefront)
	a.printf("  backoffice:  %s\n", res.Tenant.URLs.Backoffice)
	a.printf("  admin:       %s (temporary password %s)\n", res.AdminUser.User.Email, res.AdminUser.User.TemporaryPassword)
	a.printf("  preference:  %s\n", res.Subscription.CheckoutPreference.ID)

	return a.resume(ctx)
}

// newProgressPrinter returns an orchestrator listener that prints every
// stage whose status or detail changed.
func (a *App) newProgressPrinter() func(onboarding.Progress) {
	var last onboarding.Progress
	return func(p onboarding.Progress) {
		for _, k := range onboarding.Stages {
			cur := p.Get(k)
			if cur == last.Get(k) || cur.Status == onboarding.StatusIdle {
				continue
			}
			a.printf("[%-7s] %s: %s\n", cur.Status, onboarding.Label(k), cur.Detail)
		}
		last = p
	}
}
