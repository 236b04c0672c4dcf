package parse

import (
	"strconv"

	"github.com/ordervox/ordervox/internal/lang"
)

// QtySource identifies how a quantity was expressed in the transcript.
type QtySource string

const (
	QtySourceNone  QtySource = "none"
	QtySourceDigit QtySource = "digit"
	QtySourceWord  QtySource = "word"
)

const (
	// MinQty and MaxQty bound any spoken quantity; values outside the
	// range are clamped and flagged, never rejected.
	MinQty = 1
	MaxQty = 20

	digitConfidence     = 0.98
	wordConfidence      = 0.90
	homophoneConfidence = 0.60
)

// Quantity is the outcome of scanning one segment for a spoken quantity.
// A Source of QtySourceNone means no quantity was found; Qty is then 0.
type Quantity struct {
	Qty        int
	Confidence float64
	Source     QtySource

	// TokenIndex is the position of the winning token in the segment's
	// token list, or -1 when no quantity was found.
	TokenIndex int

	// Clamped reports that the spoken value fell outside [MinQty, MaxQty]
	// and OriginalQty holds what was actually said.
	Clamped     bool
	OriginalQty int

	// Standalone reports that the segment contained no product-name
	// token at all, only the quantity itself.
	Standalone bool
}

// englishHomophones are speech-to-text near-misses that sometimes stand
// in for a number. They are accepted only under guard conditions and at
// low confidence, and only for English.
var englishHomophones = map[string]int{
	"to":  2,
	"too": 2,
	"for": 4,
}

type qtyCandidate struct {
	index      int
	value      int
	confidence float64
	source     QtySource
}

// ExtractQty scans a normalized segment for a quantity expressed as a
// digit, a spelled-out number word, or an English homophone. Price-like
// tokens ("10 tl", "10tl", decimal amounts) are never read as
// quantities.
func ExtractQty(segment string, code lang.Code) Quantity {
	pack := lang.PackFor(code)
	tokens := lang.Tokens(segment)
	english := lang.Coerce(code) == lang.English

	var candidates []qtyCandidate
	for i, tok := range tokens {
		if looksPriceLike(tokens, i, pack) {
			continue
		}
		if v, ok := digitValue(tok, pack); ok && v >= 1 {
			candidates = append(candidates, qtyCandidate{i, v, digitConfidence, QtySourceDigit})
			continue
		}
		if v, ok := pack.NumberWords[tok]; ok {
			candidates = append(candidates, qtyCandidate{i, v, wordConfidence, QtySourceWord})
			continue
		}
		if english {
			if v, ok := englishHomophones[tok]; ok && homophoneArmed(tokens, i, pack) {
				candidates = append(candidates, qtyCandidate{i, v, homophoneConfidence, QtySourceWord})
			}
		}
	}

	productIdx := firstProductIndex(tokens, pack, english)
	if len(candidates) == 0 {
		return Quantity{TokenIndex: -1, Source: QtySourceNone, Standalone: false}
	}

	chosen := pickCandidate(candidates, productIdx)
	q := Quantity{
		Qty:         chosen.value,
		Confidence:  chosen.confidence,
		Source:      chosen.source,
		TokenIndex:  chosen.index,
		OriginalQty: chosen.value,
		Standalone:  productIdx < 0,
	}
	if q.Qty < MinQty {
		q.Qty = MinQty
		q.Clamped = true
	} else if q.Qty > MaxQty {
		q.Qty = MaxQty
		q.Clamped = true
	}
	return q
}

// pickCandidate prefers the most confident candidate positioned before
// the first product token; failing that, a sole candidate wins, else the
// most confident one anywhere. Ties go to the earlier token.
func pickCandidate(candidates []qtyCandidate, productIdx int) qtyCandidate {
	if productIdx >= 0 {
		best := qtyCandidate{index: -1}
		for _, c := range candidates {
			if c.index < productIdx && c.confidence > best.confidence {
				best = c
			}
		}
		if best.index >= 0 {
			return best
		}
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.confidence > best.confidence {
			best = c
		}
	}
	return best
}

// firstProductIndex locates the first token that could plausibly start a
// product name, or -1 when the segment has none.
func firstProductIndex(tokens []string, pack *lang.Pack, english bool) int {
	for i, tok := range tokens {
		if isProductLike(tok, pack, english) {
			return i
		}
	}
	return -1
}

func isProductLike(tok string, pack *lang.Pack, english bool) bool {
	if allDigits(tok) {
		return false
	}
	if _, ok := pack.NumberWords[tok]; ok {
		return false
	}
	if english {
		if _, ok := englishHomophones[tok]; ok {
			return false
		}
	}
	return !pack.Connectors.Has(tok) &&
		!pack.Stopwords.Has(tok) &&
		!pack.CurrencyWords.Has(tok) &&
		!pack.QuantityNoise.Has(tok)
}

// homophoneArmed gates the to/too/for heuristic: the next token must
// look like a product name and the previous token must not be a
// conversational filler.
func homophoneArmed(tokens []string, i int, pack *lang.Pack) bool {
	if i+1 >= len(tokens) {
		return false
	}
	if !isProductLike(tokens[i+1], pack, true) {
		return false
	}
	if i > 0 && pack.Fillers.Has(tokens[i-1]) {
		return false
	}
	return true
}

// looksPriceLike reports whether the token at i is part of a money
// amount rather than a count. After normalization a decimal price like
// "10.50" arrives as the two tokens "10 50", with or without a currency
// marker after them.
func looksPriceLike(tokens []string, i int, pack *lang.Pack) bool {
	tok := tokens[i]
	if _, suffix, ok := splitNumericSuffix(tok); ok {
		return pack.CurrencyWords.Has(suffix)
	}
	if !allDigits(tok) {
		return false
	}
	if i+1 < len(tokens) {
		next := tokens[i+1]
		if pack.CurrencyWords.Has(next) {
			return true
		}
		// The amount half of a split decimal: a cents token follows.
		if allDigits(next) && len(next) <= 2 {
			return true
		}
		if allDigits(next) && i+2 < len(tokens) && pack.CurrencyWords.Has(tokens[i+2]) {
			return true
		}
	}
	// The cents half of a split decimal.
	if len(tok) <= 2 && i > 0 && allDigits(tokens[i-1]) {
		return true
	}
	return false
}

// digitValue parses an all-digit token, or one with a quantity-noise
// suffix glued on ("2x", "3adet").
func digitValue(tok string, pack *lang.Pack) (int, bool) {
	if allDigits(tok) {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	if num, suffix, ok := splitNumericSuffix(tok); ok && pack.QuantityNoise.Has(suffix) {
		v, err := strconv.Atoi(num)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

// splitNumericSuffix splits a token like "10tl" into its leading digits
// and the trailing letters. ok is false unless the token is exactly
// digits followed by letters.
func splitNumericSuffix(tok string) (num, suffix string, ok bool) {
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i == 0 || i == len(tok) {
		return "", "", false
	}
	for j := i; j < len(tok); j++ {
		if tok[j] < 'a' || tok[j] > 'z' {
			return "", "", false
		}
	}
	return tok[:i], tok[i:], true
}

func allDigits(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}
