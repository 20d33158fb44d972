// Package geminiserver implements the Gemini listener and per-connection
// request handling.
//
// Each accepted connection is served in its own goroutine: TLS handshake
// with the configuration current at accept time, one CRLF-terminated URL
// line, one response, close. Request failures of any kind (malformed URL,
// traversal, missing content) are answered with 51 so the client cannot
// tell which files exist. Handshake failures and clients that disconnect
// without sending anything get no response.
package geminiserver
