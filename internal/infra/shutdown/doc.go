// Package shutdown runs cleanup hooks when the process is asked to stop.
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown("gemini", srv.Shutdown)
//	err := h.Wait(ctx) // SIGINT, SIGTERM or ctx done
package shutdown
