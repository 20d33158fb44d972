package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yndnr/capsule/internal/telemetry/metric"
)

type fakeHealth struct{ running atomic.Bool }

func (f *fakeHealth) Running() bool { return f.running.Load() }

func TestRouter_Healthz(t *testing.T) {
	health := &fakeHealth{}
	router := NewRouter(&RouterConfig{Metrics: metric.NewRegistry(), Health: health})

	tests := []struct {
		running bool
		code    int
		status  string
	}{
		{false, http.StatusServiceUnavailable, "unavailable"},
		{true, http.StatusOK, "ok"},
	}

	for _, tt := range tests {
		health.running.Store(tt.running)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if rec.Code != tt.code {
			t.Errorf("running=%v: code = %d, want %d", tt.running, rec.Code, tt.code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if body["status"] != tt.status {
			t.Errorf("running=%v: status = %q, want %q", tt.running, body["status"], tt.status)
		}
	}
}

func TestRouter_Metrics(t *testing.T) {
	reg := metric.NewRegistry()
	reg.RecordResponse("20")
	router := NewRouter(&RouterConfig{Metrics: reg, Health: &fakeHealth{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `capsule_responses_total{status="20"} 1`) {
		t.Errorf("metrics output missing response counter:\n%s", rec.Body.String())
	}
}

func TestRouter_MethodAndPath(t *testing.T) {
	router := NewRouter(&RouterConfig{Metrics: metric.NewRegistry(), Health: &fakeHealth{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /healthz code = %d, want 405", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /admin code = %d, want 404", rec.Code)
	}
}

func TestRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), Recover(nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", rec.Code)
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	health := &fakeHealth{}
	health.running.Store(true)
	srv := New(ln.Addr().String(), NewRouter(&RouterConfig{Metrics: metric.NewRegistry(), Health: health}))

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("code = %d, want 200", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Serve() error = %v, want nil after Shutdown", err)
	}
}
