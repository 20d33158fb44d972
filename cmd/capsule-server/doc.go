// Package main provides the entry point for capsule-server.
//
// capsule-server serves a directory of markdown pages and images over
// the Gemini protocol. Pages are converted to gemtext on first request
// and cached for the life of the process; the TLS certificate is
// reloaded in place when it is renewed on disk.
//
// Usage:
//
//	capsule-server [--config config.yaml] [--cert cert.pem --key key.pem]
//	capsule-server check
//	capsule-server version
package main
