package domain

import (
	"errors"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    SanitizedPath
		wantErr bool
	}{
		{"root", "/", "/", false},
		{"plain page", "/about", "/about", false},
		{"nested page", "/blog/2024/hello", "/blog/2024/hello", false},
		{"asset", "/images/example.jpg", "/images/example.jpg", false},
		{"percent encoded space", "/hello%20world", "/hello world", false},
		{"percent encoded utf8", "/caf%C3%A9", "/café", false},
		{"current dir kept", "/./about", "/./about", false},
		{"double separator kept", "//about", "//about", false},
		{"dots inside a name", "/a..b", "/a..b", false},
		{"malformed escape kept", "/100%", "/100%", false},
		{"malformed hex kept", "/%zz", "/%zz", false},
		{"invalid utf8 replaced", "/%FF", "/�", false},
		{"empty", "", "", false},
		{"parent at start", "/../secret", "", true},
		{"parent in middle", "/a/../../etc/passwd", "", true},
		{"parent at end", "/a/..", "", true},
		{"relative parent", "..", "", true},
		{"encoded parent", "/%2e%2e/secret", "", true},
		{"mixed case encoded parent", "/%2E./secret", "", true},
		{"encoded separator", "/a%2f..%2fsecret", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrTraversal) {
					t.Fatalf("Sanitize(%q) error = %v, want ErrTraversal", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Sanitize(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"/",
		"/about",
		"/hello%20world",
		"/caf%C3%A9/menu",
		"/./a//b",
		"/images/example.jpg",
	}

	for _, input := range inputs {
		first, err := Sanitize(input)
		if err != nil {
			t.Fatalf("Sanitize(%q) error = %v", input, err)
		}
		second, err := Sanitize(first.String())
		if err != nil {
			t.Fatalf("Sanitize(%q) error = %v", first, err)
		}
		if first != second {
			t.Errorf("Sanitize is not idempotent for %q: %q then %q", input, first, second)
		}
	}
}

func TestSanitizedPath_IsRoot(t *testing.T) {
	if !RootPath.IsRoot() {
		t.Error("RootPath.IsRoot() = false, want true")
	}
	if SanitizedPath("/index").IsRoot() {
		t.Error("SanitizedPath(/index).IsRoot() = true, want false")
	}
}
