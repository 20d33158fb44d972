package domain

import "strings"

// RootPath is the sanitized path of the capsule's index page.
const RootPath SanitizedPath = "/"

// SanitizedPath is a percent-decoded request path that contains no ".."
// component. Values are only produced by Sanitize.
type SanitizedPath string

// String returns the path as a plain string.
func (p SanitizedPath) String() string {
	return string(p)
}

// IsRoot reports whether the path addresses the index page.
func (p SanitizedPath) IsRoot() bool {
	return p == RootPath
}

// Sanitize percent-decodes rawPath and rejects it with ErrTraversal if any
// of its components is "..".
//
// Decoding is lossy: malformed escapes are kept literally and invalid UTF-8
// is replaced with U+FFFD, so decoding itself never fails. "." components and
// repeated separators are passed through untouched.
func Sanitize(rawPath string) (SanitizedPath, error) {
	decoded := percentDecode(rawPath)

	for _, component := range strings.Split(decoded, "/") {
		if component == ".." {
			return "", ErrTraversal.WithDetails(rawPath)
		}
	}

	return SanitizedPath(decoded), nil
}

func percentDecode(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return strings.ToValidUTF8(s, "�")
	}

	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		buf = append(buf, s[i])
	}

	return strings.ToValidUTF8(string(buf), "�")
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
