package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/server/auth"
	"github.com/dmitrijs2005/shopkeeper/internal/server/tenants"
	"github.com/labstack/echo/v4"
)

// Keys of values stored on the echo context.
const (
	principalKey = "principal"
	tenantKey    = "tenantId"
)

// Messages returned to clients.
const (
	msgMissingAuth      = "Missing authorization context"
	msgTokenExpired     = "Token expired. Refresh required."
	msgTokenInvalid     = "Invalid token"
	msgMissingTenant    = "Missing tenantId claim"
	msgTenantNotAllowed = "Tenant not allowed by policy"
	msgTenantHeader     = "Tenant header does not match token"
	msgAdminRequired    = "Admin permissions required"
	msgNotFound         = "Resource not found"
	msgInternal         = "Internal server error"
	msgInvalidDate      = "Invalid date format. Use YYYY-MM-DD."
)

func principalFrom(c echo.Context) *auth.Principal {
	p, _ := c.Get(principalKey).(*auth.Principal)
	return p
}

// requireToken verifies the bearer token and stores the principal.
func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, msgMissingAuth)
		}

		p, err := s.verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			s.logger.Debug(c.Request().Context(), "token rejected", "error", err)
			if errors.Is(err, common.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenExpired)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, msgTokenInvalid)
		}

		c.Set(principalKey, p)
		return next(c)
	}
}

// requireTenant checks the path tenant against the token. Access is granted
// to the token's own tenant and to tenants listed in allowedTenants.
func (s *Server) requireTenant(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := principalFrom(c)
		if p == nil || p.TenantID == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, msgMissingTenant)
		}

		tenantID := c.Param(common.TenantParam)
		if tenantID == "" {
			tenantID = p.TenantID
		}
		if !p.MayAccess(tenantID) {
			s.logger.Warn(c.Request().Context(), "tenant denied",
				"subject", p.Subject, "claim", p.TenantID, "path", tenantID)
			return echo.NewHTTPError(http.StatusForbidden, msgTenantNotAllowed)
		}
		// clients send their claim tenant in the header, also on delegated reads
		if h := c.Request().Header.Get(common.TenantHeaderName); h != "" && h != p.TenantID {
			return echo.NewHTTPError(http.StatusForbidden, msgTenantHeader)
		}

		c.Set(tenantKey, tenantID)
		return next(c)
	}
}

func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := principalFrom(c)
		if p == nil || !p.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, msgAdminRequired)
		}
		return next(c)
	}
}

// recordUsage attributes every successful request to the tenant the handler
// (or requireTenant) put on the context.
func (s *Server) recordUsage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err != nil || c.Response().Status >= http.StatusBadRequest {
			return err
		}

		tenantID, _ := c.Get(tenantKey).(string)
		if tenantID == "" {
			return nil
		}
		u := tenants.Usage{Requests: 1}
		if n := c.Request().ContentLength; n > 0 {
			u.Bytes = float64(n)
		}
		s.usage.Record(tenantID, u)
		return nil
	}
}

// errorHandler renders every error as {"message": ...}.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := http.StatusInternalServerError, msgInternal
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch {
		case code == http.StatusNotFound:
			msg = msgNotFound
		case code == http.StatusMethodNotAllowed:
			msg = http.StatusText(code)
		default:
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		}
	} else {
		s.logger.Error(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Request().URL.Path, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorBody(msg))
	}
	if err != nil {
		s.logger.Error(c.Request().Context(), "error response failed", "error", err)
	}
}
