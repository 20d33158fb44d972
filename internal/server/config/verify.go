package config

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/yndnr/capsule/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyTLS(&cfg.TLS); err != nil {
		return err
	}
	if err := verifyPages(&cfg.Pages); err != nil {
		return err
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	if cfg.Metrics.Address != "" {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Address); err != nil {
			return fmt.Errorf("metrics.address: %w", err)
		}
		if cfg.Metrics.Address == cfg.Server.Address {
			return errors.New("metrics.address must differ from server.address")
		}
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Address == "" {
		return errors.New("server.address is required")
	}
	if _, _, err := net.SplitHostPort(cfg.Address); err != nil {
		return fmt.Errorf("server.address: %w", err)
	}
	if cfg.Timeout < 0 {
		return errors.New("server.timeout must not be negative")
	}
	if cfg.RateLimit < 0 {
		return errors.New("server.ratelimit must not be negative")
	}
	return nil
}

func verifyTLS(cfg *TLSSection) error {
	if cfg.Cert == "" {
		return errors.New("tls.cert is required")
	}
	if cfg.Key == "" {
		return errors.New("tls.key is required")
	}
	if cfg.Reload < 0 {
		return errors.New("tls.reload must not be negative")
	}
	return nil
}

func verifyPages(cfg *PagesSection) error {
	if cfg.Dir == "" {
		return errors.New("pages.dir is required")
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return fmt.Errorf("pages.dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("pages.dir: %s is not a directory", cfg.Dir)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := logger.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}
	return nil
}
