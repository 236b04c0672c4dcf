// Package order holds the in-progress draft built from resolved voice
// segments: a mutable line list with merge-on-add semantics, extras and
// a bounded undo history.
package order

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sort"
	"sync"

	"github.com/ordervox/ordervox/internal/lang"
	"github.com/ordervox/ordervox/internal/menu"
)

// ErrNothingToUndo is returned by UndoLast on an empty history.
var ErrNothingToUndo = errors.New("order: nothing to undo")

const (
	// DefaultUndoDepth bounds the snapshot history.
	DefaultUndoDepth = 20

	// nameMatchThreshold is the floor for fuzzy-matching a spoken
	// removal or change target against the draft's own item names.
	nameMatchThreshold = 0.34

	// maxNameCandidates caps how many near-equal draft lines an
	// ambiguous name match reports back for disambiguation.
	maxNameCandidates = 5
)

// Extra is an add-on line attached to an item, priced per unit of the
// parent item.
type Extra struct {
	Key      string
	Name     string
	Price    float64
	Quantity int
}

// Item is one draft order line. Identity for merge purposes is the
// (GroupLabel, ProductID or normalized Name) pair; Key identifies the
// line itself.
type Item struct {
	Key        string
	ProductID  string
	Name       string
	Qty        int
	UnitPrice  float64
	Notes      []string
	GroupLabel string
	Extras     []Extra
}

// lineTotal is the item's price including extras, per the whole line.
func (it Item) lineTotal() float64 {
	perUnit := it.UnitPrice
	for _, ex := range it.Extras {
		perUnit += ex.Price * float64(ex.Quantity)
	}
	return perUnit * float64(it.Qty)
}

// Summary is the derived view of the draft. It is computed on demand
// and never stored.
type Summary struct {
	Items      []Item
	TotalQty   int
	TotalPrice float64
}

// MatchStatus classifies the outcome of a fuzzy name lookup against the
// draft's own lines.
type MatchStatus string

const (
	MatchFound     MatchStatus = "found"
	MatchAmbiguous MatchStatus = "ambiguous"
	MatchNotFound  MatchStatus = "not_found"
)

// NameMatch reports a fuzzy lookup: the single hit for MatchFound, or
// up to 5 candidates sorted by descending score for MatchAmbiguous.
type NameMatch struct {
	Status     MatchStatus
	Item       Item
	Candidates []Item
}

// Draft is the in-memory draft order. It has a single logical writer;
// the mutex only guards against accidental cross-goroutine use.
type Draft struct {
	mu        sync.Mutex
	items     []Item
	undo      [][]Item
	undoDepth int
}

// Option configures a Draft.
type Option func(*Draft)

// WithUndoDepth overrides the snapshot history bound.
func WithUndoDepth(n int) Option {
	return func(d *Draft) {
		if n > 0 {
			d.undoDepth = n
		}
	}
}

// NewDraft returns an empty draft order.
func NewDraft(opts ...Option) *Draft {
	d := &Draft{undoDepth: DefaultUndoDepth}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddItem merges the line into an existing one with the same group and
// product identity, or appends it. The merged or appended line is
// returned.
func (d *Draft) AddItem(line Item) Item {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snapshot()

	if line.Key == "" {
		line.Key = newKey()
	}
	if line.Qty < 1 {
		line.Qty = 1
	}

	for i := range d.items {
		if !sameIdentity(d.items[i], line) {
			continue
		}
		it := &d.items[i]
		it.Qty += line.Qty
		it.Notes = unionNotes(it.Notes, line.Notes)
		it.Extras = mergeExtras(it.Extras, line.Extras)
		return cloneItem(*it)
	}

	line.Notes = unionNotes(nil, line.Notes)
	d.items = append(d.items, cloneItem(line))
	return line
}

// RemoveItem deletes the line with the given key.
func (d *Draft) RemoveItem(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.removeWhere(func(it Item) bool { return it.Key == key })
}

// RemoveByProductID deletes every line for the given product.
func (d *Draft) RemoveByProductID(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.removeWhere(func(it Item) bool { return id != "" && it.ProductID == id })
}

// removeWhere snapshots and deletes matching lines. Caller holds the
// lock.
func (d *Draft) removeWhere(match func(Item) bool) bool {
	idx := -1
	for i, it := range d.items {
		if match(it) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	d.snapshot()
	kept := d.items[:0]
	for _, it := range d.items {
		if !match(it) {
			kept = append(kept, it)
		}
	}
	d.items = kept
	return true
}

// FindByNameMatch fuzzy-matches the query against the draft's item
// names without mutating anything.
func (d *Draft) FindByNameMatch(query string) NameMatch {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.matchByName(query)
}

// RemoveByNameMatch fuzzy-matches the query and deletes the line when
// exactly one clears the threshold. An ambiguous result leaves the
// draft untouched; the caller must disambiguate and call RemoveItem.
func (d *Draft) RemoveByNameMatch(query string) NameMatch {
	d.mu.Lock()
	defer d.mu.Unlock()

	m := d.matchByName(query)
	if m.Status != MatchFound {
		return m
	}
	d.snapshot()
	kept := d.items[:0]
	for _, it := range d.items {
		if it.Key != m.Item.Key {
			kept = append(kept, it)
		}
	}
	d.items = kept
	return m
}

func (d *Draft) matchByName(query string) NameMatch {
	type scored struct {
		item  Item
		score float64
	}
	var hits []scored
	for _, it := range d.items {
		if s := menu.ScoreText(query, it.Name); s >= nameMatchThreshold {
			hits = append(hits, scored{cloneItem(it), s})
		}
	}
	switch len(hits) {
	case 0:
		return NameMatch{Status: MatchNotFound}
	case 1:
		return NameMatch{Status: MatchFound, Item: hits[0].item}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > maxNameCandidates {
		hits = hits[:maxNameCandidates]
	}
	out := NameMatch{Status: MatchAmbiguous}
	for _, h := range hits {
		out.Candidates = append(out.Candidates, h.item)
	}
	return out
}

// UpdateQty sets the line's quantity, clamped to at least 1.
func (d *Draft) UpdateQty(key string, qty int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.items {
		if d.items[i].Key != key {
			continue
		}
		d.snapshot()
		if qty < 1 {
			qty = 1
		}
		d.items[i].Qty = qty
		return true
	}
	return false
}

// UpdateExtraQty sets an extra's quantity; zero deletes the extra line.
func (d *Draft) UpdateExtraQty(itemKey, extraKey string, qty int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.items {
		if d.items[i].Key != itemKey {
			continue
		}
		for j := range d.items[i].Extras {
			if d.items[i].Extras[j].Key != extraKey {
				continue
			}
			d.snapshot()
			if qty <= 0 {
				d.items[i].Extras = append(d.items[i].Extras[:j], d.items[i].Extras[j+1:]...)
			} else {
				d.items[i].Extras[j].Quantity = qty
			}
			return true
		}
	}
	return false
}

// AppendNotesToLastItem unions the notes into the most recently added
// line.
func (d *Draft) AppendNotesToLastItem(notes []string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.items) == 0 || len(notes) == 0 {
		return false
	}
	d.snapshot()
	last := &d.items[len(d.items)-1]
	last.Notes = unionNotes(last.Notes, notes)
	return true
}

// Clear empties the draft. The previous content remains undoable.
func (d *Draft) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.items) == 0 {
		return
	}
	d.snapshot()
	d.items = nil
}

// UndoLast restores the draft to its state before the most recent
// mutation.
func (d *Draft) UndoLast() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.undo) == 0 {
		return ErrNothingToUndo
	}
	d.items = d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	return nil
}

// Len reports the number of draft lines.
func (d *Draft) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// Items returns a copy of the current lines in insertion order.
func (d *Draft) Items() []Item {
	d.mu.Lock()
	defer d.mu.Unlock()
	return cloneItems(d.items)
}

// Summary derives totals over a copy of the current lines.
func (d *Draft) Summary() Summary {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Summary{Items: cloneItems(d.items)}
	for _, it := range d.items {
		s.TotalQty += it.Qty
		s.TotalPrice += it.lineTotal()
	}
	return s
}

// snapshot pushes the pre-mutation state onto the undo stack, dropping
// the oldest entry past the depth bound. Caller holds the lock.
func (d *Draft) snapshot() {
	d.undo = append(d.undo, cloneItems(d.items))
	if len(d.undo) > d.undoDepth {
		d.undo = d.undo[1:]
	}
}

func sameIdentity(a, b Item) bool {
	if a.GroupLabel != b.GroupLabel {
		return false
	}
	if a.ProductID != "" && b.ProductID != "" {
		return a.ProductID == b.ProductID
	}
	return lang.Normalize(a.Name) == lang.Normalize(b.Name)
}

// unionNotes appends the new notes, deduplicated by normalized text.
func unionNotes(existing, added []string) []string {
	seen := make(map[string]struct{}, len(existing))
	out := make([]string, 0, len(existing)+len(added))
	for _, n := range existing {
		seen[lang.Normalize(n)] = struct{}{}
		out = append(out, n)
	}
	for _, n := range added {
		key := lang.Normalize(n)
		if _, dup := seen[key]; dup || key == "" {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// mergeExtras unions by extra key, summing quantities.
func mergeExtras(existing, added []Extra) []Extra {
	out := append([]Extra(nil), existing...)
	for _, ex := range added {
		if ex.Quantity < 1 {
			ex.Quantity = 1
		}
		merged := false
		for i := range out {
			if out[i].Key == ex.Key && ex.Key != "" {
				out[i].Quantity += ex.Quantity
				merged = true
				break
			}
		}
		if !merged {
			if ex.Key == "" {
				ex.Key = newKey()
			}
			out = append(out, ex)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cloneItem(it Item) Item {
	out := it
	out.Notes = append([]string(nil), it.Notes...)
	out.Extras = append([]Extra(nil), it.Extras...)
	return out
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = cloneItem(it)
	}
	return out
}

// newKey returns a short random line identifier.
func newKey() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "k-fallback"
	}
	return hex.EncodeToString(buf)
}
