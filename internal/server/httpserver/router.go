package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/capsule/internal/telemetry/logger"
	"github.com/yndnr/capsule/internal/telemetry/metric"
)

// HealthChecker reports whether the Gemini listener is serving.
type HealthChecker interface {
	Running() bool
}

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	Metrics *metric.Registry
	Health  HealthChecker
	Logger  logger.Logger
}

// NewRouter returns the operator mux.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", cfg.Metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		if cfg.Health == nil || !cfg.Health.Running() {
			status, code = "unavailable", http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]string{
			"status": status,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	return Chain(mux, Recover(log), AccessLog(log))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
