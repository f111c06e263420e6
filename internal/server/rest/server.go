// Package rest exposes the development provisioning backend over HTTP with
// echo. It serves the routes the shopkeeper CLI talks to, plus health,
// Prometheus metrics and a dev-only token endpoint.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/api"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/server/auth"
	"github.com/dmitrijs2005/shopkeeper/internal/server/branding"
	"github.com/dmitrijs2005/shopkeeper/internal/server/tenants"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

type requestValidator struct {
	v *validator.Validate
}

func (r *requestValidator) Validate(i any) error {
	return r.v.Struct(i)
}

// Options carries the tunables of the HTTP layer.
type Options struct {
	Address       string
	TokenValidity time.Duration
	RateLimit     float64
	RateBurst     int
}

type Server struct {
	address       string
	e             *echo.Echo
	logger        logging.Logger
	tenants       *tenants.Service
	usage         *tenants.UsageTracker
	branding      *branding.Service
	verifier      *auth.Verifier
	limiter       *RateLimiter
	metrics       *Metrics
	tokenValidity time.Duration
}

func NewServer(opts Options, l logging.Logger, ts *tenants.Service, ut *tenants.UsageTracker,
	bs *branding.Service, v *auth.Verifier) *Server {

	s := &Server{
		address:       opts.Address,
		e:             echo.New(),
		logger:        l.With("module", "rest_server"),
		tenants:       ts,
		usage:         ut,
		branding:      bs,
		verifier:      v,
		limiter:       NewRateLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		metrics:       NewMetrics(),
		tokenValidity: opts.TokenValidity,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.e
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler
	e.Validator = &requestValidator{v: validator.New(validator.WithRequiredStructEnabled())}

	e.Use(middleware.Recover())
	e.Use(s.metrics.Middleware())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == api.PathHealth
		},
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug(c.Request().Context(), "request",
				"method", v.Method, "uri", v.URI, "status", v.Status, "latency_ms", v.Latency.Milliseconds())
			return nil
		},
	}))

	e.GET(api.PathHealth, s.health)
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	v1 := e.Group("", s.limiter.Middleware(), s.recordUsage)

	// Onboarding runs before the owner has a session.
	v1.POST(api.PathTenants, s.createTenant)
	v1.POST("/v1/tenants/:tenantId/users", s.createUser)
	v1.POST("/v1/:tenantId/subscriptions/checkout", s.checkout)
	v1.POST(api.PathLogoUploads, s.logoUpload)
	v1.POST(api.PathDevTokens, s.issueDevToken)

	v1.GET("/v1/:tenantId/usage", s.tenantUsage, s.requireToken, s.requireTenant)
	v1.GET("/v1/:tenantId/billing", s.tenantBilling, s.requireToken, s.requireTenant)
	v1.GET(api.PathAdminUsage, s.adminUsage, s.requireToken, s.requireAdmin)
}

// ServeHTTP lets tests drive the router without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func (s *Server) Run(ctx context.Context) error {
	go s.limiter.Run(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.e.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.e.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
