package geminiserver

import (
	"bufio"
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/yndnr/capsule/internal/core/domain"
)

// MaxRequestLine is the longest URL a client may send, excluding CRLF.
const MaxRequestLine = 1024

// readBufferSize fits a maximal URL plus its CRLF terminator.
const readBufferSize = MaxRequestLine + 2

// Request is a parsed request line.
type Request struct {
	RawLine string
	URL     *url.URL
	Path    domain.SanitizedPath
}

// ParseRequest parses a request line into a Request.
//
// Surrounding whitespace, including the line terminator, is ignored. The
// line must be an absolute hierarchical URL; an empty path is treated as
// the root. A '%' that starts no valid escape is kept as a literal
// character. Malformed lines fail with domain.ErrProtocolParse and unsafe
// paths with domain.ErrTraversal.
func ParseRequest(line string) (*Request, error) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) > MaxRequestLine {
		return nil, domain.ErrProtocolParse.WithDetails("request line exceeds 1024 bytes")
	}

	u, err := url.Parse(escapeStrayPercents(trimmed))
	if err != nil {
		return nil, domain.ErrProtocolParse.WithCause(err)
	}
	if u.Scheme == "" || u.Opaque != "" {
		return nil, domain.ErrProtocolParse.WithDetails("not an absolute url")
	}

	rawPath := u.EscapedPath()
	if rawPath == "" {
		rawPath = string(domain.RootPath)
	}
	p, err := domain.Sanitize(rawPath)
	if err != nil {
		return nil, err
	}

	return &Request{RawLine: trimmed, URL: u, Path: p}, nil
}

// escapeStrayPercents rewrites each '%' that does not start a valid escape
// as "%25", so the path decodes back to the literal text the client sent.
func escapeStrayPercents(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && (i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2])) {
			b.WriteString("%25")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// readRequestLine reads up to and including the first LF.
//
// It returns io.EOF only when the client sent nothing at all. A final line
// without terminator is returned as is. Lines longer than the reader's
// buffer fail with domain.ErrProtocolParse.
func readRequestLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadSlice('\n')
	switch {
	case err == nil:
		return string(line), nil
	case errors.Is(err, bufio.ErrBufferFull):
		return "", domain.ErrProtocolParse.WithDetails("request line exceeds 1024 bytes")
	case errors.Is(err, io.EOF):
		if len(line) == 0 {
			return "", io.EOF
		}
		return string(line), nil
	default:
		return "", err
	}
}
