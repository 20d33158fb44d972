package domain

import "testing"

func TestMIMEType(t *testing.T) {
	tests := []struct {
		path SanitizedPath
		want string
	}{
		{"/example.jpg", "image/jpeg"},
		{"/photos/cat.jpeg", "image/jpeg"},
		{"/logo.png", "image/png"},
		{"/anim.gif", "image/gif"},
		{"/archive.tar", MIMEOctetStream},
		{"/about", MIMEOctetStream},
		{"/upper.JPG", MIMEOctetStream},
	}

	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			if got := MIMEType(tt.path); got != tt.want {
				t.Errorf("MIMEType(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsAsset(t *testing.T) {
	tests := []struct {
		path SanitizedPath
		want bool
	}{
		{"/example.jpg", true},
		{"/example.jpeg", true},
		{"/example.png", true},
		{"/example.gif", true},
		{"/", false},
		{"/about", false},
		{"/notes.txt", false},
		{"/jpg", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			if got := IsAsset(tt.path); got != tt.want {
				t.Errorf("IsAsset(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
