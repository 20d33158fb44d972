package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "error without details",
			err:      NewDomainError("CAP-TEST-1000", "test message"),
			expected: "[CAP-TEST-1000] test message",
		},
		{
			name:     "error with details",
			err:      NewDomainError("CAP-TEST-1001", "test message").WithDetails("extra info"),
			expected: "[CAP-TEST-1001] test message: extra info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	err1 := NewDomainError("CAP-TEST-1000", "message 1")
	err2 := NewDomainError("CAP-TEST-1000", "message 2")
	err3 := NewDomainError("CAP-TEST-1001", "message 1")

	if !errors.Is(err1, err2) {
		t.Error("errors.Is should return true for same error code")
	}
	if errors.Is(err1, err3) {
		t.Error("errors.Is should return false for different error code")
	}
	if errors.Is(err1, fmt.Errorf("some error")) {
		t.Error("errors.Is should return false for non-DomainError")
	}
}

func TestDomainError_WithCause(t *testing.T) {
	err := ErrNotFound.WithCause(fs.ErrNotExist)

	if !errors.Is(err, ErrNotFound) {
		t.Error("wrapped error should still match ErrNotFound")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("wrapped error should expose its cause")
	}
	if ErrNotFound.Cause != nil {
		t.Error("WithCause must not mutate the sentinel")
	}
}

func TestIsDomainError(t *testing.T) {
	wrapped := fmt.Errorf("serve page: %w", ErrTraversal)

	if !IsDomainError(wrapped, "") {
		t.Error("IsDomainError(wrapped, \"\") = false, want true")
	}
	if !IsDomainError(wrapped, "CAP-PATH-4000") {
		t.Error("IsDomainError(wrapped, CAP-PATH-4000) = false, want true")
	}
	if IsDomainError(wrapped, "CAP-CONT-4040") {
		t.Error("IsDomainError(wrapped, CAP-CONT-4040) = true, want false")
	}
	if IsDomainError(errors.New("plain"), "") {
		t.Error("IsDomainError(plain) = true, want false")
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err  *DomainError
		code string
	}{
		{ErrTraversal, "CAP-PATH-4000"},
		{ErrProtocolParse, "CAP-REQ-4000"},
		{ErrNotFound, "CAP-CONT-4040"},
		{ErrHandshake, "CAP-CONN-4950"},
		{ErrTLSLoad, "CAP-TLS-5000"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.code {
				t.Errorf("GetErrorCode() = %q, want %q", got, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("predefined error has empty message")
			}
		})
	}
}
