package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/freeslots/internal/config"
	"github.com/friendsincode/freeslots/internal/version"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:    "test",
		HTTPBind:       "127.0.0.1",
		HTTPPort:       18080,
		MetricsBind:    "127.0.0.1:19000",
		MaxEvents:      5,
		RequestTimeout: 5 * time.Second,
	}
}

func TestNew_Listeners(t *testing.T) {
	srv, err := New(testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if got := srv.HTTPServer().Addr; got != "127.0.0.1:18080" {
		t.Fatalf("http addr = %q", got)
	}
	if srv.MetricsServer() == nil || srv.MetricsServer().Addr != "127.0.0.1:19000" {
		t.Fatalf("expected metrics server on 127.0.0.1:19000")
	}

	cfg := testConfig()
	cfg.MetricsBind = ""
	srv, err = New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if srv.MetricsServer() != nil {
		t.Fatalf("expected no metrics server when bind is empty")
	}
}

func TestHealthz(t *testing.T) {
	srv, err := New(testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["version"] != version.Version {
		t.Fatalf("unexpected body %v", body)
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("security headers missing")
	}
}

func TestFindThroughRouter(t *testing.T) {
	srv, err := New(testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	body := `{"window":{"start":"2026-10-19T00:00:00Z","end":"2026-10-19T08:00:00Z"},
	          "events":[{"start":"2026-10-19T01:00:00Z","end":"2026-10-19T05:00:00Z"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/slots/find", strings.NewReader(body))
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("expected 2 slots, got %d", resp.Count)
	}
}

func TestAccessLogCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	srv, err := New(testConfig(), zerolog.New(&buf))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	srv.Handler().ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if !strings.Contains(out, `"request_id":"abc-123"`) || !strings.Contains(out, `"path":"/healthz"`) {
		t.Fatalf("access log missing fields: %s", out)
	}
}

func TestClose_ReverseOrder(t *testing.T) {
	srv, err := New(testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	var order []int
	srv.DeferClose(func() error { order = append(order, 1); return nil })
	srv.DeferClose(func() error { order = append(order, 2); return errors.New("boom") })

	if err := srv.Close(); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("unexpected close order %v", order)
	}
}

func TestFindPastDeadline_AnsweredOnce(t *testing.T) {
	cfg := testConfig()
	cfg.RequestTimeout = time.Nanosecond
	srv, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	body := `{"window":{"start":"2026-10-19T00:00:00Z","end":"2026-10-19T08:00:00Z"},"events":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/slots/find", strings.NewReader(body))
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504 from the timeout middleware, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected no handler body after the deadline, got %q", rr.Body.String())
	}
}

func TestClose_RunsHooksOnce(t *testing.T) {
	srv, err := New(testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	calls := 0
	srv.DeferClose(func() error { calls++; return nil })

	if err := srv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := srv.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected hook to run once, got %d", calls)
	}
}
