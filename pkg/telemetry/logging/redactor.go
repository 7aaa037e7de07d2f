package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// emailPattern matches email addresses embedded in free text.
var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// sensitiveKeys are attribute key fragments whose values are masked entirely.
var sensitiveKeys = []string{"password", "passwd", "secret", "token", "private_key"}

// Redactor masks contact addresses and secrets in log attributes.
type Redactor struct {
	enabled bool
}

// NewRedactor creates an enabled Redactor.
func NewRedactor() *Redactor {
	return &Redactor{enabled: true}
}

// RedactString masks every email address in value.
func (r *Redactor) RedactString(value string) string {
	if !r.enabled || value == "" {
		return value
	}
	return emailPattern.ReplaceAllStringFunc(value, RedactEmail)
}

// RedactAttr returns a redacted copy of a. Groups are redacted recursively.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	if !r.enabled {
		return a
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		group := v.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = r.RedactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}

	case slog.KindString:
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, "***")
		}
		return slog.String(a.Key, r.RedactString(v.String()))

	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
		if list, ok := v.Any().([]string); ok {
			out := make([]string, len(list))
			for i, s := range list {
				out[i] = r.RedactString(s)
			}
			return slog.Any(a.Key, out)
		}
	}

	return slog.Attr{Key: a.Key, Value: v}
}

// isSensitiveKey checks if a key name indicates sensitive data.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// RedactEmail redacts an email address partially (shows first char and domain).
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	username := parts[0]
	domain := parts[1]

	if len(username) == 0 {
		return "***@" + domain
	}

	return string(username[0]) + "***@" + domain
}
