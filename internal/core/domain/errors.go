// Package domain defines the core domain models for Capsule.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
// Codes have the form CAP-<AREA>-<NNNN>; the numeric part loosely follows
// the HTTP status class of the failure.
type DomainError struct {
	Code    string // Error code (e.g., "CAP-CONT-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true // Only check if it's a DomainError
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

var (
	// ErrTraversal indicates a request path that escapes the pages root.
	ErrTraversal = NewDomainError("CAP-PATH-4000", "directory traversal is not allowed")

	// ErrProtocolParse indicates a malformed request line or URL.
	ErrProtocolParse = NewDomainError("CAP-REQ-4000", "malformed request")

	// ErrNotFound indicates the requested content is missing or unreadable.
	ErrNotFound = NewDomainError("CAP-CONT-4040", "content not found")

	// ErrHandshake indicates the TLS handshake with a client failed.
	ErrHandshake = NewDomainError("CAP-CONN-4950", "tls handshake failed")

	// ErrTLSLoad indicates the certificate chain or private key could not be loaded.
	ErrTLSLoad = NewDomainError("CAP-TLS-5000", "failed to load tls material")
)
