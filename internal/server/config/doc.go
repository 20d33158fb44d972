// Package config defines the capsule server settings.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation run before the server starts
//
// Values are loaded by internal/infra/confloader from a YAML file and
// GEMINI_ environment variables on top of Default().
package config
