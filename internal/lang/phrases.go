package lang

import (
	"sort"
	"strings"
)

// Intent is the canonical meaning of a whole-utterance phrase-catalog
// entry. The segment parser maps these onto its result union.
type Intent string

const (
	IntentFinish    Intent = "finish"
	IntentReadBack  Intent = "read_back"
	IntentReadTotal Intent = "read_total"
	IntentClear     Intent = "clear"
	IntentUndo      Intent = "undo"
	IntentChangeQty Intent = "change_qty"
	IntentRemove    Intent = "remove"
	IntentContinue  Intent = "continue"
	IntentCancel    Intent = "cancel"
)

// IntentPrecedence is the fixed order in which whole-utterance intents
// are tested. Earlier entries shadow later ones when both match.
var IntentPrecedence = []Intent{
	IntentFinish,
	IntentReadBack,
	IntentReadTotal,
	IntentClear,
	IntentUndo,
	IntentChangeQty,
	IntentRemove,
	IntentContinue,
	IntentCancel,
}

// RecapAction is a recap-scope command (the review/confirm step).
type RecapAction string

const (
	RecapConfirm  RecapAction = "confirm"
	RecapClear    RecapAction = "clear"
	RecapContinue RecapAction = "continue"
	RecapCancel   RecapAction = "cancel"
)

// PaymentHint is the payment method mentioned alongside a recap command.
type PaymentHint string

const (
	PaymentNone PaymentHint = ""
	PaymentCard PaymentHint = "card"
	PaymentCash PaymentHint = "cash"
)

// Phrase maps one canonical meaning to the normalized surface forms that
// express it in a given language.
type Phrase struct {
	// Canonical is the language-independent meaning (e.g. "Me",
	// "no onion", "confirm").
	Canonical string

	// Surface lists the normalized spoken forms. Order does not matter;
	// lookups always try longer surfaces first.
	Surface []string
}

// PhraseMatch is the result of a catalog lookup: the canonical meaning
// plus the surface form that actually appeared in the text.
type PhraseMatch struct {
	Canonical string
	Surface   string
}

// ContainsPhrase reports whether phrase occurs in text as a whole-word
// bounded substring. Both arguments must already be normalized.
func ContainsPhrase(text, phrase string) bool {
	if text == "" || phrase == "" {
		return false
	}
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}

// RemovePhrase deletes the first whole-word occurrence of phrase from
// text and re-collapses the surrounding whitespace. When phrase does not
// occur, text is returned unchanged.
func RemovePhrase(text, phrase string) string {
	padded := " " + text + " "
	needle := " " + phrase + " "
	idx := strings.Index(padded, needle)
	if idx < 0 {
		return text
	}
	out := padded[:idx] + " " + padded[idx+len(needle):]
	return strings.Join(strings.Fields(out), " ")
}

// FindPhrase returns the first catalog entry whose surface form appears
// whole-word bounded in text. Longer surfaces are tried before shorter
// ones so an entry never shadows a longer phrase sharing its prefix.
func FindPhrase(text string, phrases []Phrase) (PhraseMatch, bool) {
	for _, surface := range surfacesByLength(phrases) {
		if ContainsPhrase(text, surface.form) {
			return PhraseMatch{Canonical: surface.canonical, Surface: surface.form}, true
		}
	}
	return PhraseMatch{}, false
}

// FindAllPhrases returns every catalog entry occurring in text, longest
// surface first, removing each match from the working text so the same
// words are never claimed twice. The stripped remainder is returned
// alongside the matches.
func FindAllPhrases(text string, phrases []Phrase) ([]PhraseMatch, string) {
	var matches []PhraseMatch
	working := text
	for _, surface := range surfacesByLength(phrases) {
		for ContainsPhrase(working, surface.form) {
			matches = append(matches, PhraseMatch{Canonical: surface.canonical, Surface: surface.form})
			working = RemovePhrase(working, surface.form)
		}
	}
	return matches, working
}

// rankedSurface pairs a single surface form with its canonical meaning
// for length-ordered iteration.
type rankedSurface struct {
	form      string
	canonical string
}

// surfacesByLength flattens phrases into surface entries sorted by
// descending surface length (ties keep catalog order, which makes
// lookups deterministic).
func surfacesByLength(phrases []Phrase) []rankedSurface {
	var out []rankedSurface
	for _, p := range phrases {
		for _, s := range p.Surface {
			out = append(out, rankedSurface{form: s, canonical: p.Canonical})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].form) > len(out[j].form)
	})
	return out
}

// WordSet is a normalized word membership set.
type WordSet map[string]struct{}

// Has reports whether w is in the set.
func (s WordSet) Has(w string) bool {
	_, ok := s[w]
	return ok
}

func newWordSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}
