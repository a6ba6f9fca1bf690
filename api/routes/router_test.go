package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tableserve/captain/internal/orchestrator"
	"github.com/tableserve/captain/internal/pricing"
	"github.com/tableserve/captain/internal/printer"
	"github.com/tableserve/captain/pkg/config"
	"github.com/tableserve/captain/pkg/logger"
)

type routerPrinter struct{}

func (routerPrinter) Status() printer.Snapshot { return printer.Snapshot{State: printer.StateIdle} }

func (routerPrinter) Scan(ctx context.Context) (<-chan printer.Device, func(), error) {
	out := make(chan printer.Device)
	close(out)
	return out, func() {}, nil
}

func (routerPrinter) Connect(ctx context.Context, device printer.Device) error { return nil }

func (routerPrinter) Disconnect(ctx context.Context) error { return nil }

type routerOrchestrator struct{}

func (routerOrchestrator) Print(ctx context.Context, req orchestrator.PrintRequest) (*orchestrator.PrintResult, error) {
	return &orchestrator.PrintResult{Printed: true}, nil
}

func (routerOrchestrator) Quote(ctx context.Context, req orchestrator.QuoteRequest) (pricing.Breakdown, error) {
	return pricing.Breakdown{}, nil
}

func (routerOrchestrator) TestPrint(ctx context.Context) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewRouter(cfg, logg, routerPrinter{}, routerOrchestrator{}, nil)
}

func TestRouterHealthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data["status"] != "ok" {
		t.Fatalf("unexpected body %v", body.Data)
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected request id header")
	}
}

func TestRouterPrinterRoutes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/printer/status"},
		{http.MethodPost, "/v1/printer/scan"},
		{http.MethodPost, "/v1/printer/disconnect"},
		{http.MethodPost, "/v1/printer/test"},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s %s: expected 200, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
