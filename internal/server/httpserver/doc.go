// Package httpserver serves the operator endpoint of the capsule server.
//
// Routes:
//
//   - GET /metrics: Prometheus exposition of the application registry
//   - GET /healthz: 200 while the Gemini listener is running, 503 otherwise
//
// The endpoint is plain HTTP and meant for a private interface.
package httpserver
