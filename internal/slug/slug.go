// Package slug derives URL-safe identifiers from post titles and category names.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the longest slug Make returns.
const MaxLength = 240

// removed lists characters that are dropped without leaving a separator.
const removed = `*+~.()'"!:@`

// symbols spells out characters that would otherwise be lost, and folds
// letters that have no canonical decomposition.
var symbols = map[rune]string{
	'&': " and ",
	'$': " dollar ",
	'%': " percent ",
	'<': " less ",
	'>': " greater ",
	'|': " or ",
	'€': " euro ",
	'£': " pound ",
	'ß': "ss",
	'æ': "ae",
	'Æ': "AE",
	'œ': "oe",
	'Œ': "OE",
	'ø': "o",
	'Ø': "O",
	'ł': "l",
	'Ł': "L",
	'đ': "d",
	'Đ': "D",
	'þ': "th",
	'Þ': "TH",
}

// Make returns the slug for s: lower-case ASCII letters and digits joined by
// single hyphens, at most MaxLength bytes long.
//
//	Make("Hello, World!") // "hello-world"
//	Make("Next.js")       // "nextjs"
//	Make("Café Crème")    // "cafe-creme"
//
// Make does not guarantee uniqueness; that is the store's job.
func Make(s string) string {
	// Transformers carry state, so the chain is built per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	var expanded strings.Builder
	for _, r := range folded {
		if sym, ok := symbols[r]; ok {
			expanded.WriteString(sym)
			continue
		}
		expanded.WriteRune(r)
	}

	var b strings.Builder
	pending := false
	for _, r := range expanded.String() {
		switch {
		case strings.ContainsRune(removed, r):
		case r == '-' || unicode.IsSpace(r):
			pending = true
		case isASCIIAlnum(r):
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(unicode.ToLower(r))
		}
	}

	out := b.String()
	if len(out) > MaxLength {
		out = strings.TrimRight(out[:MaxLength], "-")
	}
	return out
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
