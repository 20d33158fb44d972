package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/capsule/internal/core/service"
	"github.com/yndnr/capsule/internal/infra/buildinfo"
	"github.com/yndnr/capsule/internal/infra/confloader"
	"github.com/yndnr/capsule/internal/infra/shutdown"
	"github.com/yndnr/capsule/internal/infra/tlsroots"
	"github.com/yndnr/capsule/internal/server/config"
	"github.com/yndnr/capsule/internal/server/geminiserver"
	"github.com/yndnr/capsule/internal/server/httpserver"
	"github.com/yndnr/capsule/internal/storage/contentcache"
	"github.com/yndnr/capsule/internal/telemetry/logger"
	"github.com/yndnr/capsule/internal/telemetry/metric"
)

const (
	defaultConfigFile = "config.yaml"
	shutdownTimeout   = 30 * time.Second
)

// flagKeys maps override flags to configuration keys.
var flagKeys = map[string]string{
	"address":         "server.address",
	"cert":            "tls.cert",
	"key":             "tls.key",
	"pages":           "pages.dir",
	"log-level":       "log.level",
	"metrics-address": "metrics.address",
}

// App creates the capsule-server application.
func App() *cli.App {
	return &cli.App{
		Name:    "capsule-server",
		Usage:   "Gemini server for a directory of markdown pages",
		Version: buildinfo.Get().Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (default: ./" + defaultConfigFile + " if present)",
				EnvVars: []string{"GEMINI_CONFIG"},
			},
			&cli.StringFlag{Name: "address", Usage: "Gemini listen address"},
			&cli.StringFlag{Name: "cert", Usage: "PEM certificate chain"},
			&cli.StringFlag{Name: "key", Usage: "PEM private key"},
			&cli.StringFlag{Name: "pages", Usage: "Content directory"},
			&cli.StringFlag{Name: "log-level", Usage: "Log level: debug, info, warn, error"},
			&cli.StringFlag{Name: "metrics-address", Usage: "Operator HTTP address for /metrics and /healthz"},
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "Validate the configuration and TLS material, then exit",
				Action: runCheck,
			},
			{
				Name:  "version",
				Usage: "Show version information",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, buildinfo.String())
					return nil
				},
			},
		},
	}
}

// loadConfig layers defaults, the config file, GEMINI_* variables and
// command line overrides, then validates the result.
func loadConfig(c *cli.Context) (*config.ServerConfig, *confloader.Loader, error) {
	opts := []confloader.Option{confloader.WithOptionalConfigFile(defaultConfigFile)}
	if path := c.String("config"); path != "" {
		opts = []confloader.Option{confloader.WithConfigFile(path)}
	}
	loader := confloader.NewLoader(opts...)

	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, nil, err
	}

	overrides := make(map[string]any)
	for flag, key := range flagKeys {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}
	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return nil, nil, fmt.Errorf("apply flags: %w", err)
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, nil, fmt.Errorf("apply flags: %w", err)
		}
	}

	if err := config.Verify(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, loader, nil
}

func runCheck(c *cli.Context) error {
	cfg, loader, err := loadConfig(c)
	if err != nil {
		return err
	}
	m, err := tlsroots.Load(cfg.TLS.Cert, cfg.TLS.Key)
	if err != nil {
		return err
	}

	source := loader.UsedFile()
	if source == "" {
		source = "defaults and environment"
	}
	fmt.Fprintf(c.App.Writer, "configuration ok (%s)\n", source)
	fmt.Fprintf(c.App.Writer, "certificate valid until %s\n", m.NotAfter().UTC().Format(time.RFC3339))
	return nil
}

func runServe(c *cli.Context) error {
	cfg, loader, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting capsule-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", loader.UsedFile())

	reg := metric.NewRegistry()
	cache := contentcache.New()
	if err := reg.Register(metric.NewCollector(cache)); err != nil {
		return fmt.Errorf("register cache collector: %w", err)
	}

	content := service.NewContentService(service.ContentServiceConfig{
		PagesDir: cfg.Pages.Dir,
		Cache:    cache,
		Metrics:  reg,
	})

	provider, err := tlsroots.NewProvider(cfg.TLS.Cert, cfg.TLS.Key,
		tlsroots.WithLogger(log),
		tlsroots.WithMetrics(reg),
		tlsroots.WithInterval(cfg.TLS.Reload),
		tlsroots.WithWatch(cfg.TLS.Watch),
	)
	if err != nil {
		return fmt.Errorf("load tls material: %w", err)
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	handler := shutdown.NewHandler(shutdownTimeout, shutdown.WithLogger(log))

	reloadDone := make(chan struct{})
	go func() {
		defer close(reloadDone)
		if err := provider.Run(ctx); err != nil {
			log.Error("tls reloader stopped", "error", err)
		}
	}()
	handler.OnShutdown("tls-reloader", func(hctx context.Context) error {
		cancel()
		select {
		case <-reloadDone:
			return nil
		case <-hctx.Done():
			return hctx.Err()
		}
	})

	gemini := geminiserver.New(&geminiserver.Config{
		Address:   cfg.Server.Address,
		Timeout:   cfg.Server.Timeout,
		RateLimit: cfg.Server.RateLimit,
	}, provider, content,
		geminiserver.WithLogger(log),
		geminiserver.WithMetrics(reg),
	)
	if err := gemini.Start(ctx); err != nil {
		return fmt.Errorf("start gemini server: %w", err)
	}
	log.Info("gemini server listening", "addr", cfg.Server.Address, "pages", cfg.Pages.Dir)
	handler.OnShutdown("gemini", gemini.Shutdown)

	if cfg.Metrics.Address != "" {
		operator := httpserver.New(cfg.Metrics.Address, httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics: reg,
			Health:  gemini,
			Logger:  log,
		}))
		go func() {
			log.Info("operator endpoint listening", "addr", cfg.Metrics.Address)
			if err := operator.ListenAndServe(); err != nil {
				log.Error("operator endpoint error", "error", err)
			}
		}()
		handler.OnShutdown("operator", operator.Shutdown)
	}

	if used := loader.UsedFile(); used != "" {
		watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
		if err != nil {
			return fmt.Errorf("create config watcher: %w", err)
		}
		if err := watcher.Watch(used); err != nil {
			_ = watcher.Stop()
			return fmt.Errorf("watch config: %w", err)
		}
		watcher.OnChange(func(path string) { applyLogLevel(log, path) })
		watcher.StartAsync()
		handler.OnShutdown("config-watcher", func(context.Context) error {
			return watcher.Stop()
		})
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := handler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// applyLogLevel re-reads path and applies its log level. Every other
// setting requires a restart.
func applyLogLevel(log logger.Logger, path string) {
	next := config.Default()
	if err := confloader.NewLoader(confloader.WithConfigFile(path)).Load(next); err != nil {
		log.Warn("ignoring unreadable configuration change", "file", path, "error", err)
		return
	}
	lvl, err := logger.ParseLevel(next.Log.Level)
	if err != nil {
		log.Warn("ignoring configuration change", "file", path, "error", err)
		return
	}
	if name := strings.ToLower(lvl.String()); name != logger.Level() {
		_ = logger.SetLevel(name)
		log.Info("log level changed", "level", name)
	}
}
