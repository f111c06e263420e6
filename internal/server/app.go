// Package server wires the development provisioning backend: tenant
// registry, usage tracking, logo upload slots and the HTTP API. It handles
// OS signals and shuts everything down together.
package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/server/auth"
	"github.com/dmitrijs2005/shopkeeper/internal/server/branding"
	"github.com/dmitrijs2005/shopkeeper/internal/server/config"
	"github.com/dmitrijs2005/shopkeeper/internal/server/rest"
	"github.com/dmitrijs2005/shopkeeper/internal/server/tenants"
	"golang.org/x/sync/errgroup"
)

const (
	aggregateInterval = time.Minute

	tokenCacheSize = 1024
	tokenCacheTTL  = 5 * time.Minute
)

type App struct {
	config *config.Config
	logger logging.Logger
	usage  *tenants.UsageTracker
	server *rest.Server
}

func NewApp(c *config.Config, l logging.Logger) (*App, error) {
	usage := tenants.NewUsageTracker()
	ts := tenants.NewService(c.PublicDomain, usage)
	bs := branding.NewService(c)
	v := auth.NewVerifier([]byte(c.SecretKey), tokenCacheSize, tokenCacheTTL)

	srv := rest.NewServer(rest.Options{
		Address:       c.Addr,
		TokenValidity: c.TokenValidity,
		RateLimit:     c.RateLimit,
		RateBurst:     c.RateBurst,
	}, l, ts, usage, bs, v)

	return &App{config: c, logger: l, usage: usage, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runAggregation rolls today's raw usage into the daily report on every tick
// and once more on shutdown.
func (app *App) runAggregation(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			n := app.usage.Aggregate(time.Now())
			app.logger.Info(ctx, "Final usage aggregation", "tenants", n)
			return
		case <-ticker.C:
			n := app.usage.Aggregate(time.Now())
			app.logger.Debug(ctx, "Usage aggregated", "tenants", n)
		}
	}
}

// Run blocks until a signal arrives, ctx is cancelled or the HTTP server
// fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.runAggregation(gctx, aggregateInterval)
		return nil
	})

	g.Go(func() error {
		return app.server.Run(gctx)
	})

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}
