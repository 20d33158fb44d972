package config

import "time"

// Default configuration values.
const (
	DefaultAddress   = "0.0.0.0:1965"
	DefaultTimeout   = 30 * time.Second
	DefaultTLSReload = 300 * time.Second
	DefaultPagesDir  = "pages"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Address: DefaultAddress,
			Timeout: DefaultTimeout,
		},
		TLS: TLSSection{
			Reload: DefaultTLSReload,
		},
		Pages: PagesSection{
			Dir: DefaultPagesDir,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
