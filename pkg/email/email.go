// Package email derives human-readable fallbacks from email addresses.
package email

import (
	"strings"
	"unicode"
)

// DeriveDisplayName builds a readable name from the local part of an email
// address, so "jane.doe@example.com" renders as "Jane Doe" instead of an
// empty label. Returns "" when nothing usable can be derived.
func DeriveDisplayName(address string) string {
	at := strings.IndexByte(address, '@')
	if at == 0 {
		return ""
	}
	localPart := address
	if at > 0 {
		localPart = address[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return ""
	}

	for i, part := range parts {
		parts[i] = capitalize(part)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
