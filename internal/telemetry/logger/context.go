package logger

import (
	"context"
	"net"
)

type contextKey struct{}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger in ctx, or Default.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(contextKey{}).(Logger); ok {
		return l
	}
	return Default()
}

// WithConn derives the logger for one client connection. Every entry it
// writes carries conn_id and remote; the returned context carries it for
// code further down the request.
func WithConn(ctx context.Context, connID string, remote net.Addr) (context.Context, Logger) {
	addr := ""
	if remote != nil {
		addr = remote.String()
	}
	l := FromContext(ctx).With("conn_id", connID, "remote", addr)
	return WithLogger(ctx, l), l
}
