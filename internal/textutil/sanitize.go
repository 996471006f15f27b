package textutil

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxFileNameLength bounds sanitized filenames, extension included. The
// sampler firmware truncates longer names on import.
const MaxFileNameLength = 64

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// asciiFold strips diacritics and drops any remaining non-ASCII runes.
var asciiFold = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	norm.NFC,
)

// SanitizeFileName converts a filename into a form safe for sampler storage:
// diacritics folded to ASCII, remaining non-ASCII runes dropped, unsafe
// characters replaced or removed, whitespace collapsed to single spaces, and
// the result truncated to MaxFileNameLength while preserving the extension.
//
// Sanitizing an already-sanitized name returns it unchanged.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	folded, _, err := transform.String(asciiFold, name)
	if err == nil {
		name = folded
	}

	name = fileNameReplacer.Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}

	if len(name) > MaxFileNameLength {
		ext := filepath.Ext(name)
		if len(ext) >= MaxFileNameLength {
			ext = ""
		}
		stem := name[:MaxFileNameLength-len(ext)]
		name = strings.TrimSpace(stem) + ext
	}
	return name
}

// SanitizeToken converts a string to a lowercase filesystem-safe token used
// for organization directory names. Letters are lowercased, digits and
// hyphens/underscores are kept, everything else becomes an underscore.
// Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
