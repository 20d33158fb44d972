package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d, want 200", rec.Code)
	}
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return string(body)
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.registry == nil {
		t.Error("registry field is nil")
	}
	if r.Gatherer() == nil {
		t.Error("Gatherer() returned nil")
	}
}

func TestRegistry_ConnectionMetrics(t *testing.T) {
	r := NewRegistry()

	r.IncConnections()
	r.IncConnections()
	r.IncHandshakeFailures()
	r.RecordResponse("20")
	r.RecordResponse("51")
	r.RecordResponse("51")
	r.ObserveRequestDuration(3 * time.Millisecond)

	if got := testutil.ToFloat64(r.connectionsTotal); got != 2 {
		t.Errorf("connections_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.handshakeFailures); got != 1 {
		t.Errorf("handshake_failures_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.responsesTotal.WithLabelValues("51")); got != 2 {
		t.Errorf("responses_total{status=51} = %v, want 2", got)
	}

	body := scrape(t, r)
	for _, want := range []string{
		"capsule_connections_total 2",
		`capsule_responses_total{status="20"} 1`,
		"capsule_request_duration_seconds_count 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRegistry_CacheLookups(t *testing.T) {
	r := NewRegistry()

	r.RecordCacheLookup(CacheText, false)
	r.RecordCacheLookup(CacheText, true)
	r.RecordCacheLookup(CacheText, true)
	r.RecordCacheLookup(CacheBinary, false)

	if got := testutil.ToFloat64(r.cacheLookups.WithLabelValues(CacheText, "hit")); got != 2 {
		t.Errorf("text hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.cacheLookups.WithLabelValues(CacheBinary, "miss")); got != 1 {
		t.Errorf("binary misses = %v, want 1", got)
	}
}

func TestRegistry_TLSReloads(t *testing.T) {
	r := NewRegistry()
	loadedAt := time.Unix(1700000000, 0)

	r.RecordTLSReload(true, loadedAt)
	r.RecordTLSReload(false, time.Time{})

	if got := testutil.ToFloat64(r.tlsReloads.WithLabelValues("success")); got != 1 {
		t.Errorf("tls reload successes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.tlsReloads.WithLabelValues("failure")); got != 1 {
		t.Errorf("tls reload failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.tlsLoadedAt); got != 1700000000 {
		t.Errorf("tls loaded timestamp = %v, want 1700000000", got)
	}
}

type fakeCache struct {
	text, binary int
}

func (f fakeCache) TextLen() int   { return f.text }
func (f fakeCache) BinaryLen() int { return f.binary }

func TestCollector(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewCollector(fakeCache{text: 3, binary: 1})); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	body := scrape(t, r)
	for _, want := range []string{
		`capsule_cache_entries{namespace="text"} 3`,
		`capsule_cache_entries{namespace="binary"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
