package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/client/auth"
	"github.com/dmitrijs2005/shopkeeper/internal/client/client"
	"github.com/dmitrijs2005/shopkeeper/internal/client/config"
	"github.com/dmitrijs2005/shopkeeper/internal/client/guard"
	"github.com/dmitrijs2005/shopkeeper/internal/client/onboarding"
	"github.com/dmitrijs2005/shopkeeper/internal/client/services"
	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
	"github.com/dmitrijs2005/shopkeeper/internal/client/tenant"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	logger logging.Logger

	validator    *auth.Validator
	resolver     *tenant.Resolver
	guard        *guard.Guard
	api          client.Client
	orchestrator *onboarding.Orchestrator
	usage        services.UsageService
	branding     services.BrandingService
	closeStore   func() error

	reader *bufio.Reader
	out    io.Writer

	mu       sync.RWMutex
	mode     Mode
	location string
	returnTo string
}

// NewApp opens the configured state store and builds the App on top of it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, closeStore, err := storage.Open(ctx, c.StorageDriver, c.StorageDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing storage: %w", err)
	}

	app, err := newApp(ctx, c, store, logger)
	if err != nil {
		_ = closeStore()
		return nil, err
	}
	app.closeStore = closeStore
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, store storage.Store, logger logging.Logger, opts ...auth.Option) (*App, error) {
	validator, err := auth.NewValidator(ctx, store, logger, opts...)
	if err != nil {
		return nil, err
	}

	tenants, err := tenant.NewContextStore(ctx, store)
	if err != nil {
		return nil, err
	}
	resolver := tenant.NewResolver(validator, tenants, logger)

	api := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, validator, logger)

	app := &App{
		config:       c,
		logger:       logger.With("module", "cli"),
		validator:    validator,
		resolver:     resolver,
		guard:        guard.New(resolver, guard.DefaultRoutes, logger),
		api:          api,
		orchestrator: onboarding.NewOrchestrator(api, tenants, logger),
		usage:        services.NewUsageService(api),
		branding:     services.NewBrandingService(api),
		closeStore:   func() error { return nil },
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}
	app.orchestrator.Subscribe(app.newProgressPrinter())
	return app, nil
}

// Close releases the state store.
func (a *App) Close() error {
	return a.closeStore()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) getMode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "switched mode", "mode", mode)
	}
}

func (a *App) getLocation() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.location
}

func (a *App) setLocation(loc string) {
	a.mu.Lock()
	a.location = loc
	a.mu.Unlock()
}

func (a *App) setReturnTo(target string) {
	a.mu.Lock()
	a.returnTo = target
	a.mu.Unlock()
}

func (a *App) takeReturnTo() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	t := a.returnTo
	a.returnTo = ""
	return t
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, ok := a.validator.Current(ctx)
	return ok
}

// checkOnline probes the backend once and records the result.
func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	if err := a.api.Ping(pctx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher probes the backend every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
