// Package menu provides the product catalog and the fuzzy matcher that
// resolves spoken item names against it. Matching is tolerant of typos,
// partial words, and cross-language synonyms ("kola" finds "Coca Cola")
// and reports when two catalog entries are too close to call.
//
// The matcher follows a two-stage design: a cheap candidate shortlist
// via token and two-character-prefix indexes, then a weighted blend of
// token-overlap, prefix, and bounded-edit-distance scores over the
// shortlist. Phonetic-style ranking via the matchr library covers the
// free-text option scoring used by the dialog layer.
package menu

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/ordervox/ordervox/internal/lang"
)

// Default resolution thresholds.
const (
	DefaultMinScore       = 0.43
	DefaultAmbiguousDelta = 0.08
	DefaultTopN           = 3
)

// Scoring weights and caps for the phrase-level blend.
const (
	weightOverlap = 0.56
	weightPrefix  = 0.24
	weightTypo    = 0.20

	containmentScore = 0.93
	minPrefixLen     = 2
	typoTokenCap     = 8
)

// Per-token scores for single-token queries.
const (
	tokenExactScore   = 1.0
	tokenPrefixScore  = 0.84
	tokenDist1Score   = 0.72
	tokenDist2Score   = 0.56
	multiWordDiscount = 0.85
)

// OutcomeKind tags a [Outcome].
type OutcomeKind int

const (
	// MatchNone means no catalog entry cleared the minimum score.
	MatchNone OutcomeKind = iota

	// MatchResolved means exactly one entry is a clear best match.
	MatchResolved

	// MatchAmbiguous means the top candidates score too close together
	// for the engine to choose; the caller must ask.
	MatchAmbiguous
)

// String reports the outcome as a stable label, usable as a metric
// attribute.
func (k OutcomeKind) String() string {
	switch k {
	case MatchResolved:
		return "resolved"
	case MatchAmbiguous:
		return "ambiguous"
	default:
		return "none"
	}
}

// Candidate pairs a product with its match score.
type Candidate struct {
	Product Product
	Score   float64
}

// Outcome is the result of [Matcher.Resolve]. For MatchResolved, Product
// holds the winner and Candidates the full ranking; for MatchAmbiguous,
// Candidates holds at least two entries sorted by descending score.
type Outcome struct {
	Kind       OutcomeKind
	Product    Product
	Candidates []Candidate
}

// ResolveOptions tune [Matcher.Resolve]. Zero values select the package
// defaults.
type ResolveOptions struct {
	// MinScore is the floor below which the best candidate counts as no
	// match. Default 0.43.
	MinScore float64

	// AmbiguousDelta is the maximum score gap between the top two
	// candidates before the result is declared ambiguous. Default 0.08.
	AmbiguousDelta float64

	// TopN caps the candidates carried in an ambiguous outcome.
	// Default 3.
	TopN int
}

func (o ResolveOptions) withDefaults() ResolveOptions {
	if o.MinScore <= 0 {
		o.MinScore = DefaultMinScore
	}
	if o.AmbiguousDelta <= 0 {
		o.AmbiguousDelta = DefaultAmbiguousDelta
	}
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	return o
}

// indexedProduct is a catalog entry prepared for matching.
type indexedProduct struct {
	product  Product
	normName string
	tokens   []string

	// widened is the token set expanded through the synonym table.
	widened lang.WordSet
}

// Matcher resolves free-text queries against a fixed product catalog.
// It is read-only after construction and safe for concurrent use.
type Matcher struct {
	entries []indexedProduct

	// tokenIndex maps widened tokens to entry indexes.
	tokenIndex map[string][]int

	// prefixIndex maps the first two characters of widened tokens to
	// entry indexes, as a fallback when no full token overlaps.
	prefixIndex map[string][]int
}

// NewMatcher builds a [Matcher] over products. Catalog names are
// normalized and widened through the synonym table once, up front.
func NewMatcher(products []Product) *Matcher {
	m := &Matcher{
		entries:     make([]indexedProduct, 0, len(products)),
		tokenIndex:  make(map[string][]int),
		prefixIndex: make(map[string][]int),
	}

	for _, p := range products {
		normName := lang.Normalize(p.Name)
		tokens := strings.Fields(normName)
		widened := expandTokens(tokens)
		for _, syn := range p.Synonyms {
			for _, tok := range lang.Tokens(syn) {
				widened[tok] = struct{}{}
				for w := range expandTokens([]string{tok}) {
					widened[w] = struct{}{}
				}
			}
		}

		idx := len(m.entries)
		m.entries = append(m.entries, indexedProduct{
			product:  p,
			normName: normName,
			tokens:   tokens,
			widened:  widened,
		})

		for tok := range widened {
			m.tokenIndex[tok] = append(m.tokenIndex[tok], idx)
			if len(tok) >= minPrefixLen {
				pfx := tok[:minPrefixLen]
				m.prefixIndex[pfx] = append(m.prefixIndex[pfx], idx)
			}
		}
	}

	return m
}

// Len reports the number of catalog entries the matcher was built over.
func (m *Matcher) Len() int { return len(m.entries) }

// Resolve ranks the catalog against query and classifies the result as
// resolved, ambiguous, or none per the thresholds in opts.
func (m *Matcher) Resolve(query string, opts ResolveOptions) Outcome {
	opts = opts.withDefaults()

	ranked := m.rank(query)
	if len(ranked) == 0 || ranked[0].Score < opts.MinScore {
		return Outcome{Kind: MatchNone, Candidates: ranked}
	}

	best := ranked[0]
	if len(ranked) > 1 {
		second := ranked[1]
		if second.Score >= opts.MinScore && best.Score-second.Score <= opts.AmbiguousDelta {
			top := ranked
			if len(top) > opts.TopN {
				top = top[:opts.TopN]
			}
			// Drop trailing candidates below the floor; ambiguity is
			// only among viable options.
			for len(top) > 2 && top[len(top)-1].Score < opts.MinScore {
				top = top[:len(top)-1]
			}
			return Outcome{Kind: MatchAmbiguous, Candidates: top}
		}
	}

	return Outcome{Kind: MatchResolved, Product: best.Product, Candidates: ranked}
}

// TopCandidates returns up to limit candidates scoring at least
// minScore, sorted by descending score. Used for loose "did you mean"
// suggestions on unknown products.
func (m *Matcher) TopCandidates(query string, limit int, minScore float64) []Candidate {
	if limit <= 0 {
		limit = DefaultTopN
	}
	ranked := m.rank(query)
	out := make([]Candidate, 0, limit)
	for _, c := range ranked {
		if c.Score < minScore {
			break
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out
}

// ScoreOptionText scores free reply text against a single display name,
// without touching the catalog indexes. The dialog layer uses this to
// pick among the 1–3 options it offered. The score is the maximum of
// the phrase-level blend and a Jaro-Winkler comparison, so short
// replies like "the light one" still align with "Cola Light".
func ScoreOptionText(query, target string) float64 {
	qNorm := lang.Normalize(query)
	tNorm := lang.Normalize(target)
	if qNorm == "" || tNorm == "" {
		return 0
	}

	qTokens := strings.Fields(qNorm)
	tTokens := strings.Fields(tNorm)
	score := scoreText(qNorm, qTokens, tNorm, tTokens, expandTokens(qTokens), expandTokens(tTokens))
	if jw := matchr.JaroWinkler(qNorm, tNorm, false); jw > score {
		score = jw
	}
	return score
}

// ScoreText is the plain phrase-level blend between two free-text
// names, with no Jaro-Winkler rescue. The draft store uses it to match
// a spoken removal target against its own line names, where loose
// character-level similarity would pull in unrelated lines.
func ScoreText(query, target string) float64 {
	qNorm := lang.Normalize(query)
	tNorm := lang.Normalize(target)
	if qNorm == "" || tNorm == "" {
		return 0
	}
	qTokens := strings.Fields(qNorm)
	tTokens := strings.Fields(tNorm)
	return scoreText(qNorm, qTokens, tNorm, tTokens, expandTokens(qTokens), expandTokens(tTokens))
}

// rank scores every shortlisted catalog entry against query and returns
// candidates sorted by descending score (ties break on catalog order).
func (m *Matcher) rank(query string) []Candidate {
	qNorm := lang.Normalize(query)
	if qNorm == "" {
		return nil
	}
	qTokens := strings.Fields(qNorm)
	qWidened := expandTokens(qTokens)

	candidates := m.shortlist(qWidened)

	ranked := make([]Candidate, 0, len(candidates))
	for _, idx := range candidates {
		e := m.entries[idx]
		s := scoreText(qNorm, qTokens, e.normName, e.tokens, qWidened, e.widened)
		if s <= 0 {
			continue
		}
		ranked = append(ranked, Candidate{Product: e.product, Score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// shortlist returns the entry indexes sharing at least one widened token
// with the query, falling back to the two-character-prefix index, then
// to the full catalog when both filters come up empty.
func (m *Matcher) shortlist(qWidened lang.WordSet) []int {
	seen := make(map[int]struct{})
	var out []int

	for tok := range qWidened {
		for _, idx := range m.tokenIndex[tok] {
			if _, dup := seen[idx]; !dup {
				seen[idx] = struct{}{}
				out = append(out, idx)
			}
		}
	}
	if len(out) > 0 {
		sort.Ints(out)
		return out
	}

	for tok := range qWidened {
		if len(tok) < minPrefixLen {
			continue
		}
		for _, idx := range m.prefixIndex[tok[:minPrefixLen]] {
			if _, dup := seen[idx]; !dup {
				seen[idx] = struct{}{}
				out = append(out, idx)
			}
		}
	}
	if len(out) > 0 {
		sort.Ints(out)
		return out
	}

	out = make([]int, len(m.entries))
	for i := range m.entries {
		out[i] = i
	}
	return out
}

// scoreText computes the match score between a query and a target name.
// Both sides arrive normalized with their token lists and widened
// (synonym-expanded) token sets.
func scoreText(qNorm string, qTokens []string, tNorm string, tTokens []string, qWidened, tWidened lang.WordSet) float64 {
	if qNorm == tNorm {
		return 1.0
	}
	if strings.Contains(tNorm, qNorm) || strings.Contains(qNorm, tNorm) {
		return containmentScore
	}
	if len(qTokens) == 0 || len(tTokens) == 0 {
		return 0
	}

	tSet := toSet(tTokens)
	overlap := 0
	prefix := 0
	typo := 0
	for _, qt := range qTokens {
		// The three ratios are independent: an exact token counts for
		// all of them (it is trivially its own prefix and at distance 0).
		if tokenInSet(qt, tWidened) || tokenInSet(qt, tSet) {
			overlap++
		}
		if hasPrefixRelation(qt, tTokens) {
			prefix++
		}
		if hasTypoRelation(qt, tTokens) {
			typo++
		}
	}
	// Widened query tokens can also land exact hits the raw token
	// missed (e.g. spoken "kola" against "Coca Cola").
	if overlap == 0 {
		for qt := range qWidened {
			if tokenInSet(qt, tWidened) {
				overlap = 1
				break
			}
		}
	}

	n := float64(len(qTokens))
	score := weightOverlap*(float64(overlap)/n) +
		weightPrefix*(float64(prefix)/n) +
		weightTypo*(float64(typo)/n)

	if len(qTokens) == 1 {
		best := bestTokenScore(qTokens[0], tTokens, tWidened)
		if len(tTokens) > 1 {
			best *= multiWordDiscount
		}
		if best > score {
			score = best
		}
	}

	return score
}

// bestTokenScore is the single-token fast path: the best per-token
// alignment between the query token and any target token.
func bestTokenScore(q string, tTokens []string, tWidened lang.WordSet) float64 {
	if tokenInSet(q, tWidened) {
		return tokenExactScore
	}
	best := 0.0
	for _, tt := range tTokens {
		var s float64
		switch {
		case q == tt:
			s = tokenExactScore
		case prefixRelated(q, tt):
			s = tokenPrefixScore
		default:
			switch boundedDistance(q, tt) {
			case 1:
				s = tokenDist1Score
			case 2:
				s = tokenDist2Score
			}
		}
		if s > best {
			best = s
		}
	}
	return best
}

// hasPrefixRelation reports whether qt is prefix-related to any token in
// tTokens.
func hasPrefixRelation(qt string, tTokens []string) bool {
	for _, tt := range tTokens {
		if prefixRelated(qt, tt) {
			return true
		}
	}
	return false
}

// prefixRelated reports whether one token is a prefix of the other.
// Both must be at least minPrefixLen long to avoid one-letter matches.
func prefixRelated(a, b string) bool {
	if len(a) < minPrefixLen || len(b) < minPrefixLen {
		return false
	}
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}

// hasTypoRelation reports whether qt is within the bounded edit distance
// of any token in tTokens (distance 0, an exact token, qualifies).
func hasTypoRelation(qt string, tTokens []string) bool {
	for _, tt := range tTokens {
		if boundedDistance(qt, tt) >= 0 {
			return true
		}
	}
	return false
}

// boundedDistance returns the Levenshtein distance between a and b when
// it falls within the accepted typo bound, and -1 otherwise. The bound
// is 1, widened to 2 when both tokens are at least five characters and
// share their first character. Tokens are capped at typoTokenCap
// characters to bound the cost on pathological input.
func boundedDistance(a, b string) int {
	if len(a) > typoTokenCap {
		a = a[:typoTokenCap]
	}
	if len(b) > typoTokenCap {
		b = b[:typoTokenCap]
	}

	maxDist := 1
	if len(a) >= 5 && len(b) >= 5 && a[0] == b[0] {
		maxDist = 2
	}

	// Cheap length pre-filter before the full distance computation.
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > maxDist {
		return -1
	}

	d := matchr.Levenshtein(a, b)
	if d > maxDist {
		return -1
	}
	return d
}

func tokenInSet(tok string, set lang.WordSet) bool {
	return set.Has(tok)
}

func toSet(tokens []string) lang.WordSet {
	s := make(lang.WordSet, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}
