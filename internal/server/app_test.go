package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/api"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/server/config"
	"github.com/dmitrijs2005/shopkeeper/internal/server/tenants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.Addr = "127.0.0.1:0"
	return c
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(newTestConfig(), logging.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestApp_RunAggregation(t *testing.T) {
	app, err := NewApp(newTestConfig(), logging.Nop())
	require.NoError(t, err)

	app.usage.Record("t-1", tenants.Usage{Requests: 1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.runAggregation(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		resp, err := app.usage.Admin(tenants.AdminQuery{})
		return err == nil && resp.Total == 1
	}, time.Second, 10*time.Millisecond)

	app.usage.Record("t-1", tenants.Usage{Requests: 1})
	cancel()
	<-done

	resp, err := app.usage.Admin(tenants.AdminQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2.0, resp.Items[0].Usage[api.MetricRequests])
}
