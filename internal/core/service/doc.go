// Package service provides domain services for Capsule.
//
// Services orchestrate domain logic and define interfaces for their
// storage dependencies, allowing for dependency injection and testability.
//
// This package contains:
//
//   - ContentService: resolves sanitized request paths to files under the
//     pages directory, converts markdown pages to Gemini text, and
//     memoizes both pages and binary assets in the content cache
//
// Services are stateless apart from their injected dependencies and are
// safe for concurrent use by any number of connections.
package service
