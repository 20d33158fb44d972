package geminiserver

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/capsule/internal/core/domain"
	"github.com/yndnr/capsule/internal/core/service"
	"github.com/yndnr/capsule/internal/telemetry/logger"
	"github.com/yndnr/capsule/internal/telemetry/metric"
)

const (
	defaultTimeout  = 30 * time.Second
	limiterSweepGap = time.Minute

	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Config holds the Gemini listener configuration.
type Config struct {
	// Address is the TCP address to listen on (default: 0.0.0.0:1965).
	Address string
	// Timeout bounds the handshake, the request line read and the
	// response write of every connection (default: 30s).
	Timeout time.Duration
	// RateLimit is the number of new connections per second allowed per
	// client IP. Zero disables rate limiting.
	RateLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address: "0.0.0.0:1965",
		Timeout: defaultTimeout,
	}
}

// TLSSource supplies the TLS configuration for each new connection.
type TLSSource interface {
	TLSConfig() *tls.Config
}

// ContentHandler resolves a sanitized path to a response body.
type ContentHandler interface {
	Serve(ctx context.Context, p domain.SanitizedPath) (*service.Content, error)
}

// Server is the Gemini listener.
type Server struct {
	cfg     *Config
	tls     TLSSource
	content ContentHandler
	logger  logger.Logger
	metrics *metric.Registry
	limiter *limiterRegistry

	lnMu    sync.Mutex
	ln      net.Listener
	running atomic.Bool
	wg      sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics sets the registry connection metrics are recorded in.
func WithMetrics(r *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = r
	}
}

// New creates a Gemini server. tlsSrc is consulted on every accepted
// connection, so material swapped into it applies to new connections only.
func New(cfg *Config, tlsSrc TLSSource, content ContentHandler, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{
		cfg:     cfg,
		tls:     tlsSrc,
		content: content,
		logger:  logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metric.NewRegistry()
	}
	if cfg.RateLimit > 0 {
		s.limiter = newLimiterRegistry(cfg.RateLimit)
	}
	return s
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Serve(ctx, ln); err != nil {
			s.logger.Error("gemini server error", "error", err)
		}
	}()
	return nil
}

// Serve accepts connections on ln until Shutdown is called. ln must be a
// plain TCP listener; TLS is applied per connection.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.lnMu.Lock()
	s.ln = ln
	s.lnMu.Unlock()
	s.running.Store(true)

	s.logger.Info("gemini server listening", "address", ln.Addr().String())

	stop := make(chan struct{})
	defer close(stop)
	if s.limiter != nil {
		go s.sweepLimiters(stop)
	}

	ctx = logger.WithLogger(ctx, s.logger)
	return s.acceptLoop(ctx, ln)
}

// Addr returns the listening address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.lnMu.Lock()
	defer s.lnMu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Running reports whether the server is accepting connections.
func (s *Server) Running() bool {
	return s.running.Load()
}

// Shutdown stops accepting connections and waits for in-flight ones to
// finish or for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error
	s.lnMu.Lock()
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}
	s.lnMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return firstErr
}

// acceptLoop runs until the listener is closed. Other accept errors,
// such as running out of file descriptors, are retried with a backoff
// doubling from minAcceptDelay to maxAcceptDelay.
func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	defer s.running.Store(false)

	var delay time.Duration
	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			if delay == 0 {
				delay = minAcceptDelay
			} else {
				delay = min(2*delay, maxAcceptDelay)
			}
			s.logger.Error("accept failed, retrying", "error", err, "delay", delay)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
			continue
		}
		delay = 0

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, c)
		}()
	}
}

func (s *Server) serveConn(ctx context.Context, raw net.Conn) {
	defer raw.Close()

	s.metrics.IncConnections()
	ctx, log := logger.WithConn(ctx, ulid.Make().String(), raw.RemoteAddr())
	timeout := s.timeout()

	conn := tls.Server(raw, s.tls.TLSConfig())
	defer conn.Close()

	hsCtx, cancel := context.WithTimeout(ctx, timeout)
	err := conn.HandshakeContext(hsCtx)
	cancel()
	if err != nil {
		s.metrics.IncHandshakeFailures()
		log.Warn("tls handshake failed", "error", domain.ErrHandshake.WithCause(err))
		return
	}

	if s.limiter != nil && !s.limiter.allow(remoteIP(raw)) {
		log.Info("rate limited")
		s.respond(conn, log, StatusSlowDown, metaSlowDown, nil, time.Now())
		return
	}

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return
	}
	line, err := readRequestLine(bufio.NewReaderSize(conn, readBufferSize))
	started := time.Now()
	switch {
	case errors.Is(err, io.EOF):
		log.Debug("client closed without request")
		return
	case errors.Is(err, domain.ErrProtocolParse):
		log.Info("bad request", "error", err)
		s.respond(conn, log, StatusNotFound, metaNotFound, nil, started)
		return
	case err != nil:
		log.Debug("request read failed", "error", err)
		return
	}

	status, meta, body := s.handle(ctx, log, line)
	s.respond(conn, log, status, meta, body, started)
}

// handle maps one request line to a response. Every failure is a 51.
func (s *Server) handle(ctx context.Context, log logger.Logger, line string) (Status, string, []byte) {
	req, err := ParseRequest(line)
	if err != nil {
		log.Info("bad request", "url", line, "error", err)
		return StatusNotFound, metaNotFound, nil
	}

	content, err := s.content.Serve(ctx, req.Path)
	if err != nil {
		log.Info("content not served", "url", req.RawLine, "error", err)
		return StatusNotFound, metaNotFound, nil
	}

	log.Debug("request served", "url", req.RawLine, "mime", content.MIME, "bytes", len(content.Body))
	return StatusSuccess, content.MIME, content.Body
}

func (s *Server) respond(conn *tls.Conn, log logger.Logger, status Status, meta string, body []byte, started time.Time) {
	if err := conn.SetWriteDeadline(time.Now().Add(s.timeout())); err != nil {
		return
	}
	bw := bufio.NewWriter(conn)
	err := WriteResponse(bw, status, meta, body)
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		log.Debug("response write failed", "status", status.String(), "error", err)
		return
	}
	s.metrics.RecordResponse(status.String())
	s.metrics.ObserveRequestDuration(time.Since(started))
}

func (s *Server) timeout() time.Duration {
	if s.cfg.Timeout > 0 {
		return s.cfg.Timeout
	}
	return defaultTimeout
}

func (s *Server) sweepLimiters(stop <-chan struct{}) {
	ticker := time.NewTicker(limiterSweepGap)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := s.limiter.sweep(); n > 0 {
				s.logger.Debug("rate limiters swept", "removed", n)
			}
		}
	}
}

func remoteIP(c net.Conn) string {
	host, _, err := net.SplitHostPort(c.RemoteAddr().String())
	if err != nil {
		return c.RemoteAddr().String()
	}
	return host
}
