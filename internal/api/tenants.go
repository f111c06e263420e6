package api

// Routes of the provisioning backend. Placeholders take a tenant id.
const (
	PathTenants              = "/v1/tenants"
	PathTenantUsers          = "/v1/tenants/%s/users"
	PathSubscriptionCheckout = "/v1/%s/subscriptions/checkout"
	PathTenantUsage          = "/v1/%s/usage"
	PathTenantBilling        = "/v1/%s/billing"
	PathAdminUsage           = "/v1/admin/tenants/usage"
	PathLogoUploads          = "/v1/branding/logo-uploads"
	PathDevTokens            = "/v1/dev/tokens"
	PathHealth               = "/healthz"
)

// RoleAdmin is the role given to the tenant owner created during onboarding.
const RoleAdmin = "admin"

type Branding struct {
	PrimaryColor string `json:"primaryColor,omitempty"`
	Domain       string `json:"domain"`
	LogoURL      string `json:"logoUrl,omitempty"`
}

type PaymentKeys struct {
	PublicKey   string `json:"publicKey"`
	AccessToken string `json:"accessToken"`
}

type TenantCreationPayload struct {
	Name            string       `json:"name"`
	Industry        string       `json:"industry"`
	Currency        string       `json:"currency"`
	PaymentProvider string       `json:"paymentProvider"`
	PaymentKeys     *PaymentKeys `json:"paymentKeys,omitempty"`
	AdminEmail      string       `json:"adminEmail" validate:"omitempty,email"`
	Branding        Branding     `json:"branding"`
}

type Tenant struct {
	TenantID          string   `json:"tenantId"`
	Name              string   `json:"name"`
	Industry          string   `json:"industry"`
	Status            string   `json:"status"`
	PreferredCurrency string   `json:"preferredCurrency"`
	PaymentProvider   string   `json:"paymentProvider"`
	Branding          Branding `json:"branding"`
	CreatedAt         string   `json:"createdAt"`
}

type AdminUser struct {
	UserID            string `json:"userId"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	TemporaryPassword string `json:"temporaryPassword"`
	LoginURL          string `json:"loginUrl"`
}

type TenantURLs struct {
	Storefront string `json:"storefront"`
	Backoffice string `json:"backoffice"`
	APIBase    string `json:"apiBase"`
}

type TenantCreationResponse struct {
	Tenant          Tenant     `json:"tenant"`
	AdminUser       AdminUser  `json:"adminUser"`
	URLs            TenantURLs `json:"urls"`
	OnboardingToken string     `json:"onboardingToken"`
}

type TenantUserPayload struct {
	Email             string `json:"email" validate:"omitempty,email"`
	Role              string `json:"role"`
	TemporaryPassword string `json:"temporaryPassword,omitempty"`
	DisplayName       string `json:"displayName,omitempty"`
}

type TenantUser struct {
	UserID            string `json:"userId"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	DisplayName       string `json:"displayName,omitempty"`
	Status            string `json:"status"`
	TemporaryPassword string `json:"temporaryPassword"`
	CreatedAt         string `json:"createdAt"`
}

type TenantUserResponse struct {
	TenantID string     `json:"tenantId"`
	User     TenantUser `json:"user"`
	LoginURL string     `json:"loginUrl"`
	Support  string     `json:"support"`
}

type SubscriptionCheckoutPayload struct {
	PlanID string `json:"planId"`
}

type CheckoutPreference struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Provider string `json:"provider"`
}

type SubscriptionCheckoutResponse struct {
	TenantID           string             `json:"tenantId"`
	SubscriptionID     string             `json:"subscriptionId"`
	PlanID             string             `json:"planId"`
	CheckoutPreference CheckoutPreference `json:"checkoutPreference"`
	Status             string             `json:"status"`
	NextBillingAt      string             `json:"nextBillingAt,omitempty"`
}

type LogoUploadRequest struct {
	FileName    string `json:"fileName" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
}

type LogoUploadResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}

// DevTokenRequest asks the development backend for a signed token. When
// UserID is set the password is checked against that user's temporary
// password.
type DevTokenRequest struct {
	TenantID       string   `json:"tenantId" validate:"required"`
	UserID         string   `json:"userId,omitempty"`
	Password       string   `json:"password,omitempty"`
	Subject        string   `json:"subject,omitempty"`
	Roles          []string `json:"roles,omitempty"`
	AllowedTenants []string `json:"allowedTenants,omitempty"`
}

type DevTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// ErrorResponse is the body of every non-2xx backend response.
type ErrorResponse struct {
	Message string `json:"message"`
}
