// Package confloader loads the server configuration with koanf.
//
// Sources, lowest priority first:
//
//  1. Values already present in the target struct (defaults)
//  2. A YAML configuration file
//  3. Environment variables with the GEMINI_ prefix
//
// Duration fields accept Go duration strings ("90s", "5m") or a bare
// number of seconds. The Watcher reports writes to the configuration
// file so callers can apply the settings that may change at runtime.
package confloader
