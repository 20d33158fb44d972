// Package domain defines the core domain models for Capsule.
//
// Domain models are pure values without IO dependencies. This package contains:
//
//   - SanitizedPath: a request path proven free of parent-directory traversal
//   - MIME lookup: the extension table used for binary assets
//   - Errors: the error taxonomy shared by every layer
//
// Everything here is deterministic and safe for concurrent use.
package domain
