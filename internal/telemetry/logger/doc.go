// Package logger provides structured logging for the capsule server.
//
//   - logger.go: slog-backed Logger, level handling and the default logger
//   - context.go: logger and connection id propagation through context
//   - redact.go: masking of URL queries and secret-looking attributes
package logger
