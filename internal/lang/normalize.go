package lang

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, removes combining marks, and recomposes.
// This turns "café" into "cafe" and, together with letterFolds below,
// reduces every supported language to plain lowercase ASCII.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// letterFolds maps letters that do not decompose into base + combining
// mark onto their ASCII equivalents. Turkish dotless ı is the important
// one; the rest cover German and French menu text.
var letterFolds = strings.NewReplacer(
	"ı", "i",
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"ø", "o",
)

// Normalize reduces s to the canonical comparison form used throughout
// the engine: lowercase ASCII letters and digits separated by single
// spaces. Diacritics are stripped, apostrophes dropped (so "c'est" and
// "cest" compare equal), and any run of punctuation or whitespace
// collapses to one space.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(s)
	s = letterFolds.Replace(s)

	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case r == '\'' || r == '’' || r == '`':
			// Apostrophes join, they never separate.
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		default:
			pendingSpace = true
		}
	}
	return b.String()
}

// Tokens normalizes s and splits it into whitespace-separated tokens.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}
