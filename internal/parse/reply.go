package parse

import (
	"strconv"

	"github.com/ordervox/ordervox/internal/lang"
)

// IsYes reports whether the reply contains an affirmative word for the
// given language.
func IsYes(text string, code lang.Code) bool {
	pack := lang.PackFor(code)
	for _, tok := range lang.Tokens(text) {
		if pack.YesWords.Has(tok) {
			return true
		}
	}
	return false
}

// IsNo reports whether the reply contains a negative word for the given
// language. A reply can be neither yes nor no.
func IsNo(text string, code lang.Code) bool {
	pack := lang.PackFor(code)
	for _, tok := range lang.Tokens(text) {
		if pack.NoWords.Has(tok) {
			return true
		}
	}
	return false
}

// OptionIndex interprets the reply as a positional pick among
// optionCount presented options ("first", "ikinci", "2"). It returns
// the 1-based index, or 0 when the reply is not a plain positional
// answer. Replies that carry anything beyond the index and filler words
// are rejected so an item name containing a digit is never misread as a
// pick.
func OptionIndex(text string, code lang.Code, optionCount int) int {
	pack := lang.PackFor(code)
	tokens := lang.Tokens(text)
	if len(tokens) == 0 {
		return 0
	}

	picked := 0
	for _, tok := range tokens {
		v, ok := indexValue(tok, pack)
		if !ok {
			if pack.Stopwords.Has(tok) || pack.Fillers.Has(tok) || pack.YesWords.Has(tok) {
				continue
			}
			return 0
		}
		if picked != 0 && v != picked {
			return 0
		}
		picked = v
	}
	if picked < 1 || picked > optionCount {
		return 0
	}
	return picked
}

func indexValue(tok string, pack *lang.Pack) (int, bool) {
	if v, ok := pack.IndexWords[tok]; ok {
		return v, true
	}
	if v, ok := pack.NumberWords[tok]; ok {
		return v, true
	}
	if v, err := strconv.Atoi(tok); err == nil {
		return v, true
	}
	return 0, false
}

// BareNumber reads the reply as a plain quantity answer (digit or
// number word), clamped to the usual range.
func BareNumber(text string, code lang.Code) (int, bool) {
	q := ExtractQty(text, code)
	if q.Source == QtySourceNone {
		return 0, false
	}
	return q.Qty, true
}
