package config

import "time"

// ServerConfig is the root configuration for capsule-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	TLS     TLSSection     `koanf:"tls"`
	Pages   PagesSection   `koanf:"pages"`
	Log     LogSection     `koanf:"log"`
	Metrics MetricsSection `koanf:"metrics"`
}

// ServerSection configures the Gemini listener.
type ServerSection struct {
	// Address is the TCP address to listen on.
	Address string `koanf:"address"`

	// Timeout bounds the TLS handshake, the request read and the
	// response write of each connection.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit is the number of new connections per second accepted
	// from one IP. Zero disables limiting.
	RateLimit int `koanf:"ratelimit"`
}

// TLSSection configures the certificate and its refresh.
type TLSSection struct {
	// Cert is the PEM certificate chain, leaf first.
	Cert string `koanf:"cert"`

	// Key is the PEM private key (PKCS#8 or PKCS#1 RSA).
	Key string `koanf:"key"`

	// Reload is the periodic reload interval. Zero disables it.
	Reload time.Duration `koanf:"reload"`

	// Watch also reloads when the cert or key file is written.
	Watch bool `koanf:"watch"`
}

// PagesSection configures the capsule content root.
type PagesSection struct {
	Dir string `koanf:"dir"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsSection configures the operator HTTP endpoint.
type MetricsSection struct {
	// Address serves /metrics and /healthz. Empty disables the endpoint.
	Address string `koanf:"address"`
}
