package tlsroots

import (
	"context"
	"crypto/tls"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/capsule/internal/telemetry/logger"
	"github.com/yndnr/capsule/internal/telemetry/metric"
)

const (
	// DefaultInterval is the period of unconditional reloads.
	DefaultInterval = 300 * time.Second
	// DefaultDebounce collapses bursts of file events into one reload.
	DefaultDebounce = 500 * time.Millisecond
)

// Provider holds the active TLS material and replaces it on reload.
// Readers always observe a complete Material.
type Provider struct {
	certPath string
	keyPath  string

	current  atomic.Pointer[Material]
	reloadMu sync.Mutex

	logger   logger.Logger
	metrics  *metric.Registry
	interval time.Duration
	watch    bool
	debounce time.Duration
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger for the provider.
func WithLogger(l logger.Logger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

// WithMetrics records reload outcomes in r.
func WithMetrics(r *metric.Registry) Option {
	return func(p *Provider) {
		p.metrics = r
	}
}

// WithInterval sets the periodic reload interval. Zero disables it.
func WithInterval(d time.Duration) Option {
	return func(p *Provider) {
		p.interval = d
	}
}

// WithWatch enables reloads on file system events for the cert and key.
func WithWatch(enabled bool) Option {
	return func(p *Provider) {
		p.watch = enabled
	}
}

// WithDebounce sets the quiet period after a file event before reloading.
func WithDebounce(d time.Duration) Option {
	return func(p *Provider) {
		p.debounce = d
	}
}

// NewProvider loads the initial material. It fails if the files cannot
// be loaded, since the server has nothing to serve with.
func NewProvider(certPath, keyPath string, opts ...Option) (*Provider, error) {
	p := &Provider{
		certPath: certPath,
		keyPath:  keyPath,
		logger:   logger.Default(),
		interval: DefaultInterval,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(p)
	}

	m, err := Load(certPath, keyPath)
	if err != nil {
		return nil, err
	}
	p.store(m)
	return p, nil
}

// Current returns the active material.
func (p *Provider) Current() *Material {
	return p.current.Load()
}

// TLSConfig returns the configuration new connections should use.
func (p *Provider) TLSConfig() *tls.Config {
	return p.current.Load().Config()
}

// Reload loads the files again and swaps the result in. On failure the
// active material is kept and the load error is returned.
func (p *Provider) Reload() error {
	p.reloadMu.Lock()
	defer p.reloadMu.Unlock()

	m, err := Load(p.certPath, p.keyPath)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordTLSReload(false, time.Time{})
		}
		p.logger.Error("tls reload failed, keeping current material",
			"cert", p.certPath,
			"key_path", p.keyPath,
			"error", err,
		)
		return err
	}

	p.store(m)
	p.logger.Info("tls material reloaded",
		"cert", p.certPath,
		"not_after", m.NotAfter(),
	)
	return nil
}

func (p *Provider) store(m *Material) {
	p.current.Store(m)
	if p.metrics != nil {
		p.metrics.RecordTLSReload(true, m.LoadedAt)
	}
}

// Run reloads on every interval tick and, when watching is enabled, after
// the cert or key file changes. It blocks until ctx is done.
func (p *Provider) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if p.interval > 0 {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if p.watch {
		w, err := p.newWatcher()
		if err != nil {
			return err
		}
		defer w.Close()
		events, errs = w.Events, w.Errors
	}

	var (
		debounce  *time.Timer
		debounceC <-chan time.Time
	)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-tick:
			_ = p.Reload()

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !p.isWatched(event) {
				continue
			}
			p.logger.Debug("tls file changed", "file", event.Name, "op", event.Op.String())
			if debounce == nil {
				debounce = time.NewTimer(p.debounce)
			} else {
				debounce.Reset(p.debounce)
			}
			debounceC = debounce.C

		case <-debounceC:
			debounceC = nil
			_ = p.Reload()

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			p.logger.Error("tls watcher error", "error", err)
		}
	}
}

// newWatcher watches the parent directories so that files replaced by
// rename are still seen.
func (p *Provider) newWatcher() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("tlsroots: create watcher: %w", err)
	}

	certDir := filepath.Dir(p.certPath)
	if err := w.Add(certDir); err != nil {
		w.Close()
		return nil, fmt.Errorf("tlsroots: watch %s: %w", certDir, err)
	}
	if keyDir := filepath.Dir(p.keyPath); keyDir != certDir {
		if err := w.Add(keyDir); err != nil {
			w.Close()
			return nil, fmt.Errorf("tlsroots: watch %s: %w", keyDir, err)
		}
	}

	p.logger.Info("tls watcher started", "cert", p.certPath, "key_path", p.keyPath)
	return w, nil
}

func (p *Provider) isWatched(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == filepath.Clean(p.certPath) || name == filepath.Clean(p.keyPath)
}
