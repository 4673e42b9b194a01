// Package sanitizer cleans uploaded text before it becomes editor content.
package sanitizer

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const byteOrderMark = "\uFEFF"

// isStrippedControl reports whether r is removed from uploaded text:
// C0 controls other than tab, line feed and carriage return, DEL, and the
// C1 range.
func isStrippedControl(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20:
		return true
	case r >= 0x7F && r <= 0x9F:
		return true
	}
	return false
}

var controlChars = runes.Predicate(isStrippedControl)

// Sanitize removes control characters and leading byte-order marks from
// raw uploaded text. It never fails and is idempotent.
//
// Invalid UTF-8 bytes are replaced with U+FFFD.
func Sanitize(raw string) string {
	cleaned, _, err := transform.String(runes.Remove(controlChars), raw)
	if err != nil {
		// Not reachable with complete input; Sanitize must not fail.
		cleaned = strings.Map(func(r rune) rune {
			if isStrippedControl(r) {
				return -1
			}
			return r
		}, raw)
	}

	// Controls go first so a BOM behind them still counts as leading.
	return strings.TrimLeft(cleaned, byteOrderMark)
}
