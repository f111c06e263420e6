package onboarding

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/dmitrijs2005/shopkeeper/internal/api"
	"github.com/go-playground/validator/v10"
)

type Account struct {
	AdminEmail        string `json:"adminEmail" validate:"required,email"`
	DisplayName       string `json:"displayName,omitempty"`
	TemporaryPassword string `json:"temporaryPassword,omitempty"`
}

type Store struct {
	Name     string `json:"name" validate:"required"`
	Industry string `json:"industry" validate:"required"`
	Currency string `json:"currency" validate:"required,oneof=USD ARS BRL"`
}

type Payment struct {
	Provider    string `json:"provider" validate:"required"`
	PublicKey   string `json:"publicKey" validate:"required"`
	AccessToken string `json:"accessToken" validate:"required"`
}

type Branding struct {
	Domain       string `json:"domain" validate:"required,hostname_rfc1123"`
	PrimaryColor string `json:"primaryColor,omitempty" validate:"omitempty,hexcolor"`
	LogoURL      string `json:"logoUrl,omitempty" validate:"omitempty,url"`
}

type Plan struct {
	PlanID string `json:"planId" validate:"required,oneof=standard growth"`
}

// Request is everything the saga needs, collected before it starts.
type Request struct {
	Account  Account  `json:"account"`
	Store    Store    `json:"store"`
	Payment  Payment  `json:"payment"`
	Branding Branding `json:"branding"`
	Plan     Plan     `json:"plan"`
}

// NewRequest returns a request carrying the wizard defaults.
func NewRequest() Request {
	return Request{
		Store:    Store{Currency: "USD"},
		Payment:  Payment{Provider: "mercadopago"},
		Branding: Branding{PrimaryColor: "#6366f1"},
		Plan:     Plan{PlanID: "standard"},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError maps a field path such as "account.adminEmail" to a
// message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

// Validate checks the request. Errors wrap ErrInvalidRequest.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		// drop the root type name
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		fields[path] = fieldMessage(path, fe)
	}
	return fmt.Errorf("%w: %w", ErrInvalidRequest, &ValidationError{Fields: fields})
}

func fieldMessage(path string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", path)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", path)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", path, fe.Param())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color", path)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", path)
	case "hostname_rfc1123":
		return fmt.Sprintf("%s must be a host name", path)
	default:
		return fmt.Sprintf("%s is invalid", path)
	}
}

func (r Request) tenantPayload() api.TenantCreationPayload {
	return api.TenantCreationPayload{
		Name:            r.Store.Name,
		Industry:        r.Store.Industry,
		Currency:        r.Store.Currency,
		PaymentProvider: r.Payment.Provider,
		PaymentKeys: &api.PaymentKeys{
			PublicKey:   r.Payment.PublicKey,
			AccessToken: r.Payment.AccessToken,
		},
		AdminEmail: r.Account.AdminEmail,
		Branding: api.Branding{
			PrimaryColor: r.Branding.PrimaryColor,
			Domain:       r.Branding.Domain,
			LogoURL:      r.Branding.LogoURL,
		},
	}
}

func (r Request) adminUserPayload() api.TenantUserPayload {
	name := r.Account.DisplayName
	if name == "" {
		name = "Owner"
	}
	return api.TenantUserPayload{
		Email:             r.Account.AdminEmail,
		Role:              api.RoleAdmin,
		TemporaryPassword: r.Account.TemporaryPassword,
		DisplayName:       name,
	}
}
