package util

import (
	"path"
	"strings"
	"unicode"
)

// SanitizeString trims whitespace and removes control characters from s.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// BaseFilename reduces a client-supplied filename to its last path element
// with control characters removed. It returns "" for names that collapse to
// nothing or to a dot entry.
func BaseFilename(name string) string {
	name = SanitizeString(strings.ReplaceAll(name, `\`, "/"))
	base := path.Base(name)
	switch base {
	case ".", "..", "/":
		return ""
	}
	return base
}
