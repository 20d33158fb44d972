package logger

import (
	"log/slog"
	"strings"
)

// Keys whose string values are request URLs. Gemini clients send user
// input in the query, so it never reaches the log.
var urlKeys = map[string]bool{
	"url":     true,
	"request": true,
	"line":    true,
}

// Sensitive key patterns that should be fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"private",
	"credential",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive masks URL queries and secret-looking attributes.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if strVal == "" {
			return a
		}
		keyLower := strings.ToLower(a.Key)
		if urlKeys[keyLower] {
			return slog.String(a.Key, RedactURL(strVal))
		}
		if IsSensitiveKey(keyLower) {
			return slog.String(a.Key, redactedValue)
		}
		return a
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// RedactURL replaces the query of a request URL with a placeholder.
// The fragment, if any, is dropped with it.
func RedactURL(raw string) string {
	idx := strings.IndexByte(raw, '?')
	if idx < 0 || idx == len(raw)-1 {
		return raw
	}
	return raw[:idx+1] + redactedValue
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
