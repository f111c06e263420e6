package rest

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/api"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/server/auth"
	"github.com/dmitrijs2005/shopkeeper/internal/server/branding"
	"github.com/dmitrijs2005/shopkeeper/internal/server/tenants"
	"github.com/labstack/echo/v4"
)

func errorBody(msg string) api.ErrorResponse {
	return api.ErrorResponse{Message: msg}
}

// bind decodes and validates the request body. An empty body is accepted
// and leaves v at its zero value.
func bind(c echo.Context, v any) error {
	if c.Request().ContentLength != 0 {
		if err := c.Bind(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
		}
	}
	if err := c.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// serviceError maps service errors onto HTTP statuses.
func serviceError(err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Tenant not found")
	case errors.Is(err, tenants.ErrInvalidDate):
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidDate)
	case errors.Is(err, branding.ErrUnsupportedType):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) createTenant(c echo.Context) error {
	var req api.TenantCreationPayload
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := s.tenants.CreateTenant(c.Request().Context(), req)
	if err != nil {
		return serviceError(err)
	}

	s.metrics.tenantsCreated.Inc()
	s.logger.Info(c.Request().Context(), "tenant created", "tenant", resp.Tenant.TenantID)

	c.Set(tenantKey, resp.Tenant.TenantID)
	c.Response().Header().Set(common.TenantHeaderName, resp.Tenant.TenantID)
	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) createUser(c echo.Context) error {
	tenantID := c.Param(common.TenantParam)

	var req api.TenantUserPayload
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := s.tenants.CreateUser(c.Request().Context(), tenantID, req)
	if err != nil {
		return serviceError(err)
	}

	c.Set(tenantKey, tenantID)
	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) checkout(c echo.Context) error {
	tenantID := c.Param(common.TenantParam)

	var req api.SubscriptionCheckoutPayload
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := s.tenants.Checkout(c.Request().Context(), tenantID, req)
	if err != nil {
		return serviceError(err)
	}

	c.Set(tenantKey, tenantID)
	h := c.Response().Header()
	h.Set("X-MercadoPago-Preference", resp.CheckoutPreference.ID)
	h.Set(common.TenantHeaderName, tenantID)
	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) tenantUsage(c echo.Context) error {
	tenantID, _ := c.Get(tenantKey).(string)

	resp, err := s.tenants.Usage(c.Request().Context(), tenantID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) tenantBilling(c echo.Context) error {
	tenantID, _ := c.Get(tenantKey).(string)

	resp, err := s.tenants.Billing(c.Request().Context(), tenantID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// queryInt reads a numeric query parameter. Missing or malformed values give
// zero, which the usage report replaces with its defaults.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.QueryParam(name)))
	if err != nil {
		return 0
	}
	return n
}

func (s *Server) adminUsage(c echo.Context) error {
	resp, err := s.usage.Admin(tenants.AdminQuery{
		StartDate: c.QueryParam("startDate"),
		EndDate:   c.QueryParam("endDate"),
		Metrics:   c.QueryParam("metrics"),
		Page:      queryInt(c, "page"),
		PageSize:  queryInt(c, "pageSize"),
	})
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) logoUpload(c echo.Context) error {
	var req api.LogoUploadRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := s.branding.LogoUploadSlot(c.Request().Context(), req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// issueDevToken signs a token for any tenant. When a user id is given the
// password must match that user's temporary password.
func (s *Server) issueDevToken(c echo.Context) error {
	var req api.DevTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	subject := req.Subject
	if req.UserID != "" {
		ok, err := s.tenants.CheckPassword(ctx, req.TenantID, req.UserID, req.Password)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		subject = req.UserID
	}

	token, expires, err := s.verifier.Issue(auth.Principal{
		Subject:        subject,
		TenantID:       req.TenantID,
		Roles:          req.Roles,
		AllowedTenants: req.AllowedTenants,
	}, s.tokenValidity)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "dev token issued", "tenant", req.TenantID, "subject", subject)
	return c.JSON(http.StatusCreated, api.DevTokenResponse{
		Token:     token,
		ExpiresAt: expires.UTC().Format(time.RFC3339),
	})
}
