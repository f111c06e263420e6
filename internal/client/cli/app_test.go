package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/client/auth/authtest"
	"github.com/dmitrijs2005/shopkeeper/internal/client/config"
	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp builds an App against a backend served by h, reading prompts
// from input and writing to the returned buffer.
func newTestApp(t *testing.T, h http.Handler, input string) (*App, *bytes.Buffer) {
	t.Helper()
	if h == nil {
		h = http.NotFoundHandler()
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ServerBaseURL:       srv.URL,
		RequestTimeout:      2 * time.Second,
		OnlineCheckInterval: time.Hour,
	}
	app, err := newApp(context.Background(), cfg, storage.NewMemoryStore(), logging.Nop())
	require.NoError(t, err)

	var out bytes.Buffer
	app.out = &out
	app.reader = rdr(input)
	return app, &out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func loginAs(t *testing.T, app *App, tenantID string) {
	t.Helper()
	tok := authtest.TenantToken(tenantID, time.Now(), time.Hour)
	require.NoError(t, app.validator.SetToken(context.Background(), tok))
}

func TestGetStatus(t *testing.T) {
	app, _ := newTestApp(t, nil, "")
	assert.Equal(t, "", app.getStatus())

	require.NoError(t, app.resolver.Context().SetTenantID(context.Background(), "t-1"))
	app.setLocation("/catalog")
	app.setMode(context.Background(), ModeOnline)

	assert.Equal(t, " (t-1 /catalog online)", app.getStatus())
}

func TestCheckOnline(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	app, _ := newTestApp(t, mux, "")
	ctx := context.Background()

	app.checkOnline(ctx)
	assert.Equal(t, ModeOnline, app.getMode())

	healthy.Store(false)
	app.checkOnline(ctx)
	assert.Equal(t, ModeOffline, app.getMode())
}

func TestStartOnlineStatusWatcher_StopsOnCancel(t *testing.T) {
	app, _ := newTestApp(t, nil, "")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		app.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return app.getMode() == ModeOffline }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestReturnTo_TakenOnce(t *testing.T) {
	app, _ := newTestApp(t, nil, "")
	app.setReturnTo("/admin")

	assert.Equal(t, "/admin", app.takeReturnTo())
	assert.Equal(t, "", app.takeReturnTo())
}

func TestNewApp_MemoryStore(t *testing.T) {
	cfg := &config.Config{ServerBaseURL: "http://127.0.0.1:1", StorageDriver: storage.DriverMemory, RequestTimeout: time.Second}
	app, err := NewApp(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	require.NoError(t, app.Close())
}
