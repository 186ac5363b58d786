package export

import (
	"strings"
	"time"
	"unicode"
)

// FallbackClientToken replaces a client name that sanitizes to nothing.
const FallbackClientToken = "client"

// FileName builds "<prefix>_<client>_<YYYYMMDD>.<ext>".
func FileName(prefix, client string, date time.Time, ext string) string {
	c := SanitizeName(client)
	if c == "" {
		c = FallbackClientToken
	}
	return prefix + "_" + c + "_" + date.Format("20060102") + "." + strings.TrimPrefix(ext, ".")
}

// SanitizeName strips characters that are unsafe in file names on common
// file systems and turns whitespace runs into a single underscore.
func SanitizeName(name string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case strings.ContainsRune(`\/:*?"<>|`, r), unicode.IsControl(r):
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte('_')
		}
		space = false
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), ".")
}
