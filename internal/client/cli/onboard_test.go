package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/shopkeeper/internal/api"
	"github.com/dmitrijs2005/shopkeeper/internal/client/onboarding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wizardInput answers every non-secret prompt in order; the access token is
// read through the secret seam.
func wizardInput(email, logo string) string {
	return strings.Join([]string{
		email,          // admin email
		"",             // display name
		"Acme",         // store name
		"retail",       // industry
		"",             // currency
		"",             // provider
		"PK-1",         // public key
		"acme.example", // domain
		"",             // primary color
		logo,           // logo file
		"growth",       // plan
	}, "\n") + "\n"
}

type backend struct {
	mux        *http.ServeMux
	userStatus int

	mu         sync.Mutex
	tenantBody api.TenantCreationPayload
}

func (b *backend) lastTenant() api.TenantCreationPayload {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tenantBody
}

func newBackend(t *testing.T) *backend {
	b := &backend{mux: http.NewServeMux(), userStatus: http.StatusCreated}

	b.mux.HandleFunc("POST /v1/tenants", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		var p api.TenantCreationPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		b.mu.Lock()
		b.tenantBody = p
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, api.TenantCreationResponse{
			Tenant: api.Tenant{TenantID: "t-abc12345", Name: p.Name},
			URLs: api.TenantURLs{
				Storefront: "https://t-abc12345.shop.example",
				Backoffice: "https://admin.shop.example/?tenantId=t-abc12345",
			},
		})
	})
	b.mux.HandleFunc("POST /v1/tenants/t-abc12345/users", func(w http.ResponseWriter, r *http.Request) {
		if b.userStatus != http.StatusCreated {
			writeJSON(w, b.userStatus, api.ErrorResponse{Message: "directory unavailable"})
			return
		}
		var p api.TenantUserPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		writeJSON(w, http.StatusCreated, api.TenantUserResponse{
			TenantID: "t-abc12345",
			User:     api.TenantUser{Email: p.Email, Role: p.Role, TemporaryPassword: "0123456789ab"},
		})
	})
	b.mux.HandleFunc("POST /v1/t-abc12345/subscriptions/checkout", func(w http.ResponseWriter, r *http.Request) {
		var p api.SubscriptionCheckoutPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "growth", p.PlanID)
		writeJSON(w, http.StatusCreated, api.SubscriptionCheckoutResponse{
			TenantID:           "t-abc12345",
			PlanID:             p.PlanID,
			CheckoutPreference: api.CheckoutPreference{ID: "t-abc12345#pref-sub-1"},
		})
	})
	return b
}

func TestOnboard_Success(t *testing.T) {
	b := newBackend(t)
	app, out := newTestApp(t, b.mux, wizardInput("owner@acme.example", ""))
	stubSecret(t, "AT-1", nil)

	require.NoError(t, app.Onboard(context.Background()))

	body := b.lastTenant()
	assert.Equal(t, "Acme", body.Name)
	assert.Equal(t, "USD", body.Currency)
	assert.Equal(t, "#6366f1", body.Branding.PrimaryColor)
	require.NotNil(t, body.PaymentKeys)
	assert.Equal(t, "AT-1", body.PaymentKeys.AccessToken)

	s := out.String()
	assert.Contains(t, s, "[working] "+onboarding.Label(onboarding.StageTenant)+": Invoking /v1/tenants...")
	assert.Contains(t, s, "TenantId: t-abc12345")
	assert.Contains(t, s, "PreferenceId: t-abc12345#pref-sub-1")
	assert.Contains(t, s, "Tenant t-abc12345 is ready")
	assert.Contains(t, s, "temporary password 0123456789ab")

	assert.Equal(t, "t-abc12345", app.resolver.Context().TenantID())
	assert.True(t, app.orchestrator.Progress().Complete())
}

func TestOnboard_ResumesInterruptedNavigation(t *testing.T) {
	b := newBackend(t)
	app, _ := newTestApp(t, b.mux, wizardInput("owner@acme.example", ""))
	stubSecret(t, "AT-1", nil)
	ctx := context.Background()

	require.NoError(t, app.Open(ctx, "/catalog"))
	require.Equal(t, "/wizard", app.getLocation())

	require.NoError(t, app.Onboard(ctx))
	assert.Equal(t, "/catalog", app.getLocation())
}

func TestOnboard_StageFailure(t *testing.T) {
	b := newBackend(t)
	b.userStatus = http.StatusInternalServerError
	app, out := newTestApp(t, b.mux, wizardInput("owner@acme.example", ""))
	stubSecret(t, "AT-1", nil)

	err := app.Onboard(context.Background())

	var serr *onboarding.StageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, onboarding.StageAdminUser, serr.Stage)

	s := out.String()
	assert.Contains(t, s, onboarding.UserMessage)
	assert.Contains(t, s, "Manual step: "+onboarding.Fallback(onboarding.StageAdminUser))
	assert.Contains(t, s, "[error  ] "+onboarding.Label(onboarding.StageAdminUser))

	p := app.orchestrator.Progress()
	assert.Equal(t, onboarding.StatusDone, p.Get(onboarding.StageTenant).Status)
	assert.Equal(t, onboarding.StatusIdle, p.Get(onboarding.StageSubscription).Status)
	assert.Equal(t, "", app.resolver.Context().TenantID())
}

func TestOnboard_InvalidRequest(t *testing.T) {
	app, out := newTestApp(t, nil, wizardInput("not-an-email", ""))
	stubSecret(t, "AT-1", nil)

	err := app.Onboard(context.Background())
	require.ErrorIs(t, err, onboarding.ErrInvalidRequest)
	assert.Contains(t, out.String(), "account.adminEmail")
}

func TestOnboard_UploadsLogo(t *testing.T) {
	b := newBackend(t)

	var (
		mu       sync.Mutex
		uploaded []byte
	)
	b.mux.HandleFunc("POST /v1/branding/logo-uploads", func(w http.ResponseWriter, r *http.Request) {
		var req api.LogoUploadRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "logo.png", req.FileName)
		writeJSON(w, http.StatusCreated, api.LogoUploadResponse{
			Key:       "logos/logo.png",
			UploadURL: "http://" + r.Host + "/upload/logos/logo.png",
			PublicURL: "https://cdn.shop.example/logos/logo.png",
		})
	})
	b.mux.HandleFunc("PUT /upload/logos/logo.png", func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		uploaded = data
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	logo := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(logo, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))

	app, _ := newTestApp(t, b.mux, wizardInput("owner@acme.example", logo))
	stubSecret(t, "AT-1", nil)

	require.NoError(t, app.Onboard(context.Background()))
	assert.Equal(t, "https://cdn.shop.example/logos/logo.png", b.lastTenant().Branding.LogoURL)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\nfake"), uploaded)
}
