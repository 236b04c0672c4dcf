// Package lang provides the multilingual text foundation for ordervox:
// transcript normalization, per-language phrase catalogs (group context,
// item notes, whole-utterance intents, recap commands), number-word
// tables, and the token classifiers shared by the quantity extractor and
// the segment parser.
//
// Every string comparison elsewhere in the engine happens on normalized
// text, so all catalog data in this package is stored pre-normalized
// (lowercase ASCII, no diacritics).
package lang

// Code identifies a supported transcript language.
type Code string

const (
	English Code = "en"
	Turkish Code = "tr"
	German  Code = "de"
	French  Code = "fr"
)

// Supported lists all language codes the engine ships catalogs for.
var Supported = []Code{English, Turkish, German, French}

// IsValid reports whether c is a recognised language code.
func (c Code) IsValid() bool {
	switch c {
	case English, Turkish, German, French:
		return true
	}
	return false
}

// Coerce returns c when valid and English otherwise. Callers receive
// language codes from external collaborators and must never fail on an
// unknown one.
func Coerce(c Code) Code {
	if c.IsValid() {
		return c
	}
	return English
}
