// Package parse turns raw spoken-order transcripts into classified
// intents and item segments. It owns no state; everything here is a
// pure function over the per-language tables in the lang package.
package parse

import (
	"strings"

	"github.com/ordervox/ordervox/internal/lang"
)

// Options tunes ParseVoiceOrder for the caller's dialog state.
type Options struct {
	// RecapMode gives recap-scope commands (confirm/clear/continue/
	// cancel) priority over the generic intent phrases.
	RecapMode bool
}

// ParseVoiceOrder classifies one transcript. Whole-utterance intents are
// tested first in fixed precedence; anything else is segmented into
// item clauses.
func ParseVoiceOrder(transcript string, code lang.Code, opts Options) Result {
	pack := lang.PackFor(code)
	norm := lang.Normalize(transcript)
	if norm == "" {
		return Result{Kind: KindUnknown}
	}

	if opts.RecapMode {
		if r, ok := classifyRecap(norm, pack); ok {
			return r
		}
	}
	if r, ok := classifyIntent(norm, code, pack); ok {
		return r
	}
	return classifySegments(transcript, code, pack)
}

// classifyRecap matches the recap-scope command phrases, longest surface
// first, and attaches a payment hint when one is present.
func classifyRecap(norm string, pack *lang.Pack) (Result, bool) {
	var phrases []lang.Phrase
	for _, action := range []lang.RecapAction{lang.RecapConfirm, lang.RecapClear, lang.RecapContinue, lang.RecapCancel} {
		phrases = append(phrases, lang.Phrase{Canonical: string(action), Surface: pack.Recap[action]})
	}
	m, ok := lang.FindPhrase(norm, phrases)
	if !ok {
		return Result{}, false
	}
	return Result{
		Kind:        KindRecapCommand,
		RecapAction: lang.RecapAction(m.Canonical),
		Payment:     detectPayment(norm, pack),
	}, true
}

// detectPayment scans for a card/cash phrase anywhere in the utterance.
func detectPayment(norm string, pack *lang.Pack) lang.PaymentHint {
	var phrases []lang.Phrase
	for hint, surfaces := range pack.Payments {
		phrases = append(phrases, lang.Phrase{Canonical: string(hint), Surface: surfaces})
	}
	if m, ok := lang.FindPhrase(norm, phrases); ok {
		return lang.PaymentHint(m.Canonical)
	}
	return lang.PaymentNone
}

func classifyIntent(norm string, code lang.Code, pack *lang.Pack) (Result, bool) {
	noteMatches, _ := lang.FindAllPhrases(norm, pack.Notes)

	for _, intent := range lang.IntentPrecedence {
		surface, ok := matchSurface(norm, pack.Intents[intent])
		if !ok {
			continue
		}

		switch intent {
		case lang.IntentFinish:
			// "no onion, that's all" is notes on the last item,
			// not a checkout.
			if len(noteMatches) > 0 {
				continue
			}
			return Result{Kind: KindOpenRecap}, true
		case lang.IntentReadBack:
			return Result{Kind: KindReadBack}, true
		case lang.IntentReadTotal:
			return Result{Kind: KindReadTotal}, true
		case lang.IntentClear:
			return Result{Kind: KindClearDraft}, true
		case lang.IntentUndo:
			return Result{Kind: KindUndoLast}, true
		case lang.IntentChangeQty:
			if shadowedByNote(noteMatches, surface) {
				continue
			}
			rest := lang.RemovePhrase(norm, surface)
			q := ExtractQty(rest, code)
			r := Result{
				Kind:      KindChangeQty,
				QueryName: itemNameFrom(rest, q, pack),
			}
			if q.Source != QtySourceNone {
				r.Qty = q.Qty
				r.HasQty = true
			}
			return r, true
		case lang.IntentRemove:
			rest := lang.RemovePhrase(norm, surface)
			q := ExtractQty(rest, code)
			return Result{Kind: KindRemoveItem, QueryName: itemNameFrom(rest, q, pack)}, true
		case lang.IntentContinue:
			return Result{Kind: KindContinue}, true
		case lang.IntentCancel:
			return Result{Kind: KindCancel}, true
		}
	}
	return Result{}, false
}

// matchSurface finds the longest surface form occurring whole-word
// bounded in text.
func matchSurface(text string, surfaces []string) (string, bool) {
	best := ""
	for _, s := range surfaces {
		if len(s) > len(best) && lang.ContainsPhrase(text, s) {
			best = s
		}
	}
	return best, best != ""
}

// shadowedByNote reports whether the matched intent surface sits inside
// a detected note phrase ("make it" inside "make it spicy").
func shadowedByNote(notes []lang.PhraseMatch, surface string) bool {
	for _, n := range notes {
		if lang.ContainsPhrase(n.Surface, surface) || n.Surface == surface {
			return true
		}
	}
	return false
}

// classifySegments splits the transcript into item clauses and builds an
// ADD_ITEMS result, falling back to the note/group/quantity-only kinds
// when no clause carries an item name.
func classifySegments(transcript string, code lang.Code, pack *lang.Pack) Result {
	var (
		items      []Segment
		looseNotes []string
		pendingGrp string
	)
	standalone := Quantity{TokenIndex: -1, Source: QtySourceNone}
	sawStandalone := false

	for _, raw := range splitRaw(transcript) {
		norm := lang.Normalize(raw)
		for _, clause := range splitClauses(norm, pack) {
			working := clause
			group := ""
			if m, ok := lang.FindPhrase(working, pack.Groups); ok {
				group = m.Canonical
				working = lang.RemovePhrase(working, m.Surface)
			}

			var noteMatches []lang.PhraseMatch
			noteMatches, working = lang.FindAllPhrases(working, pack.Notes)
			working = stripSurfaces(working, pack.Intents[lang.IntentFinish])
			working = stripNoiseTokens(working, pack)

			q := ExtractQty(working, code)
			name := itemNameFrom(working, q, pack)
			notes := canonicalNotes(noteMatches)

			switch {
			case name != "":
				if group == "" {
					group = pendingGrp
				}
				pendingGrp = ""
				seg := Segment{QueryName: name, Qty: q, Notes: notes, GroupLabel: group}
				if len(looseNotes) > 0 {
					seg.Notes = append(looseNotes, seg.Notes...)
					looseNotes = nil
				}
				items = append(items, seg)
			case len(notes) > 0:
				if len(items) > 0 {
					last := &items[len(items)-1]
					last.Notes = append(last.Notes, notes...)
				} else {
					looseNotes = append(looseNotes, notes...)
				}
				if group != "" {
					pendingGrp = group
				}
			case group != "":
				pendingGrp = group
			case q.Source != QtySourceNone && q.Standalone:
				standalone = q
				sawStandalone = true
			}
		}
	}

	switch {
	case len(items) > 0:
		return Result{Kind: KindAddItems, Items: items}
	case len(looseNotes) > 0:
		return Result{Kind: KindAddNotesLast, Notes: looseNotes}
	case sawStandalone:
		return Result{Kind: KindQtyOnly, Qty: standalone.Qty, HasQty: true}
	case pendingGrp != "":
		return Result{Kind: KindGroupOnly, GroupLabel: pendingGrp}
	default:
		return Result{Kind: KindUnknown}
	}
}

// splitRaw breaks the raw transcript at punctuation that survives as a
// clause boundary. This runs before normalization, which would otherwise
// erase commas and semicolons.
func splitRaw(transcript string) []string {
	return strings.FieldsFunc(transcript, func(r rune) bool {
		return r == ',' || r == ';' || r == '&' || r == '.' || r == '!' || r == '?'
	})
}

// phraseMask replaces the inner spaces of protected phrases so the
// connector split cannot break them apart.
const phraseMask = "\x1f"

// splitClauses splits a normalized clause at connector words, keeping
// protected fixed phrases ("en plus") intact.
func splitClauses(norm string, pack *lang.Pack) []string {
	masked := norm
	for _, p := range pack.ProtectedPhrases {
		masked = maskPhrase(masked, p)
	}

	var clauses []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			clauses = append(clauses, strings.ReplaceAll(strings.Join(current, " "), phraseMask, " "))
			current = current[:0]
		}
	}
	for _, tok := range strings.Fields(masked) {
		if pack.Connectors.Has(tok) {
			flush()
			continue
		}
		current = append(current, tok)
	}
	flush()
	return clauses
}

func maskPhrase(text, phrase string) string {
	padded := " " + text + " "
	needle := " " + phrase + " "
	replacement := " " + strings.ReplaceAll(phrase, " ", phraseMask) + " "
	return strings.TrimSpace(strings.ReplaceAll(padded, needle, replacement))
}

// stripSurfaces removes every listed surface phrase from text.
func stripSurfaces(text string, surfaces []string) string {
	for _, s := range surfaces {
		for lang.ContainsPhrase(text, s) {
			text = lang.RemovePhrase(text, s)
		}
	}
	return text
}

// stripNoiseTokens drops counting words ("adet", "pieces") that sit
// between a quantity and the item name.
func stripNoiseTokens(text string, pack *lang.Pack) string {
	var kept []string
	for _, tok := range strings.Fields(text) {
		if pack.QuantityNoise.Has(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// itemNameFrom builds the product-name query left over after the
// quantity token, stopwords and connectors are removed.
func itemNameFrom(text string, q Quantity, pack *lang.Pack) string {
	var kept []string
	for i, tok := range strings.Fields(text) {
		if i == q.TokenIndex {
			continue
		}
		if pack.Stopwords.Has(tok) || pack.Connectors.Has(tok) ||
			pack.CurrencyWords.Has(tok) || pack.QuantityNoise.Has(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

func canonicalNotes(matches []lang.PhraseMatch) []string {
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Canonical)
	}
	return out
}
