package geminiserver

import (
	"bytes"
	"testing"
)

func TestWriteResponse(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		meta   string
		body   []byte
		want   string
	}{
		{"success", StatusSuccess, "text/gemini", []byte("# Hi\n"), "20 text/gemini\r\n# Hi\n"},
		{"not found", StatusNotFound, metaNotFound, nil, "51 Not Found\r\n"},
		{"slow down", StatusSlowDown, metaSlowDown, nil, "44 1\r\n"},
		{"binary", StatusSuccess, "image/jpeg", []byte{0xFF, 0xD8}, "20 image/jpeg\r\n\xFF\xD8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteResponse(&buf, tt.status, tt.meta, tt.body); err != nil {
				t.Fatalf("WriteResponse() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("WriteResponse() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestStatus_String(t *testing.T) {
	if got := StatusNotFound.String(); got != "51" {
		t.Errorf("StatusNotFound.String() = %q, want 51", got)
	}
}
