// Package tlsroots loads the server certificate chain and private key and
// keeps the active TLS configuration current.
//
//   - material.go: PEM parsing into an immutable Material
//   - provider.go: atomic holder with periodic and fsnotify driven reloads
//
// A failed reload never replaces working material; the previous
// configuration stays in use until a later reload succeeds.
package tlsroots
