// Package dialog runs the clarification state machine: it consumes
// parsed item segments, commits clean matches to the draft, and turns
// ambiguous or unmatched outcomes into a single resumable follow-up
// question.
package dialog

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ordervox/ordervox/internal/lang"
	"github.com/ordervox/ordervox/internal/menu"
	"github.com/ordervox/ordervox/internal/order"
	"github.com/ordervox/ordervox/internal/parse"
)

var (
	// ErrPendingOpen is returned when a new clarification would be
	// opened while one is already waiting. The machine is single-flight.
	ErrPendingOpen = errors.New("dialog: clarification already open")

	// ErrNoPending is returned by the reply entry points at IDLE.
	ErrNoPending = errors.New("dialog: no open clarification")
)

const (
	// acceptScore is the floor for auto-accepting the best-scoring
	// option from a free-text reply; noisyAcceptScore replaces it in
	// noisy mode.
	acceptScore      = 0.45
	noisyAcceptScore = 0.62

	// noisyResolveGap demotes a clean resolution to a choice in noisy
	// mode when the runner-up scores at least this fraction of the top
	// candidate.
	noisyResolveGap = 0.74

	// suggestionFloor is the loose score floor for "did you mean"
	// suggestions on an unknown product.
	suggestionFloor = 0.25
)

// Controller owns the dialog state for one ordering session.
type Controller struct {
	matcher *menu.Matcher
	draft   *order.Draft
	code    lang.Code
	pack    *lang.Pack
	prompts promptSet
	noisy   bool
	log     *slog.Logger
	observe func(outcome string, bestScore float64)

	state   State
	pending *pendingAction
}

// Option configures a Controller.
type Option func(*Controller)

// WithNoisyMode raises the auto-accept thresholds for push-to-talk use
// in loud environments.
func WithNoisyMode(on bool) Option {
	return func(c *Controller) { c.noisy = on }
}

// WithLogger overrides the default logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithResolveObserver registers a callback invoked after every product
// resolution with the final outcome and the best candidate score (0 when
// nothing scored). Noisy-mode demotions report as ambiguous.
func WithResolveObserver(fn func(outcome string, bestScore float64)) Option {
	return func(c *Controller) { c.observe = fn }
}

// New returns an idle controller bound to one matcher and one draft.
func New(matcher *menu.Matcher, draft *order.Draft, code lang.Code, opts ...Option) *Controller {
	c := &Controller{
		matcher: matcher,
		draft:   draft,
		code:    lang.Coerce(code),
		pack:    lang.PackFor(code),
		prompts: promptsFor(code),
		log:     slog.Default(),
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports the current machine state.
func (c *Controller) State() State { return c.state }

// Busy reports whether a clarification is open.
func (c *Controller) Busy() bool { return c.state != StateIdle }

// PendingKind reports the kind of the open clarification, or "" at
// IDLE.
func (c *Controller) PendingKind() PendingKind {
	if c.pending == nil {
		return ""
	}
	return c.pending.kind
}

// ProcessItems consumes parsed item segments in order, committing clean
// matches and pausing on the first ambiguous or unmatched one.
func (c *Controller) ProcessItems(segments []parse.Segment) (Response, error) {
	if c.Busy() {
		return Response{}, ErrPendingOpen
	}
	return c.processQueue(segments, nil), nil
}

// processQueue is the resumable core: it walks the queue, and on a
// pause stores the not-yet-processed remainder plus everything already
// committed so the next reply re-enters here.
func (c *Controller) processQueue(segments []parse.Segment, added []order.Item) Response {
	missed := false
	for i, seg := range segments {
		out := c.matcher.Resolve(seg.QueryName, menu.ResolveOptions{})

		if out.Kind == menu.MatchResolved && c.noisy && !c.noisyGapWide(out) {
			out.Kind = menu.MatchAmbiguous
		}
		if c.observe != nil {
			c.observe(out.Kind.String(), bestScore(out))
		}

		switch out.Kind {
		case menu.MatchResolved:
			added = append(added, c.commit(seg, out.Product))

		case menu.MatchAmbiguous:
			return withMissedNotice(missed, c.prompts.NotFound,
				c.openAddChoice(PendingAddAmbiguous, seg, topProducts(out.Candidates), segments[i+1:], added))

		case menu.MatchNone:
			sugg := c.matcher.TopCandidates(seg.QueryName, menu.DefaultTopN, suggestionFloor)
			if len(sugg) == 0 {
				// A hopeless item costs a notice, never the rest of
				// the queue.
				c.log.Debug("no suggestions for unmatched item", "query", seg.QueryName)
				missed = true
				continue
			}
			return withMissedNotice(missed, c.prompts.NotFound,
				c.openAddChoice(PendingUnknownProduct, seg, topProducts(sugg), segments[i+1:], added))
		}
	}
	resp := Response{State: StateIdle, Added: added}
	if missed {
		resp.Prompt = c.prompts.NotFound
	}
	return resp
}

// withMissedNotice prefixes the not-found notice onto a pause response
// when a hopeless item was skipped earlier in the same queue walk.
func withMissedNotice(missed bool, notice string, resp Response) Response {
	if missed {
		resp.Prompt = notice + " " + resp.Prompt
	}
	return resp
}

// noisyGapWide reports whether the runner-up is far enough behind the
// winner to trust the resolution without asking.
func (c *Controller) noisyGapWide(out menu.Outcome) bool {
	if len(out.Candidates) < 2 {
		return true
	}
	best := out.Candidates[0].Score
	second := out.Candidates[1].Score
	return best > 0 && second/best < noisyResolveGap
}

func (c *Controller) commit(seg parse.Segment, p menu.Product) order.Item {
	line := c.draft.AddItem(order.Item{
		ProductID:  p.ID,
		Name:       p.Name,
		Qty:        seg.EffectiveQty(),
		UnitPrice:  p.Price,
		Notes:      seg.Notes,
		GroupLabel: seg.GroupLabel,
	})
	c.log.Debug("committed draft line", "product", p.ID, "qty", line.Qty, "group", seg.GroupLabel)
	return line
}

func (c *Controller) openAddChoice(kind PendingKind, seg parse.Segment, products []menu.Product, remaining []parse.Segment, added []order.Item) Response {
	c.pending = &pendingAction{
		kind:      kind,
		query:     seg.QueryName,
		segment:   seg,
		remaining: append([]parse.Segment(nil), remaining...),
		added:     added,
		products:  products,
	}
	c.state = StateAwaitingChoice

	prompt := c.prompts.WhichOne
	if kind == PendingUnknownProduct {
		prompt = c.prompts.DidYouMean
	}
	c.log.Info("opened clarification", "kind", kind, "query", seg.QueryName, "options", len(products))
	return Response{
		State:           StateAwaitingChoice,
		Kind:            kind,
		Prompt:          numberedPrompt(prompt, c.pending.choices()),
		Options:         c.pending.choices(),
		ReopenListening: true,
		Added:           added,
	}
}

// OpenRemoveChoice asks which draft line a fuzzy removal meant.
func (c *Controller) OpenRemoveChoice(query string, candidates []order.Item) (Response, error) {
	if c.Busy() {
		return Response{}, ErrPendingOpen
	}
	c.pending = &pendingAction{kind: PendingRemoveAmbiguous, query: query, lines: candidates}
	c.state = StateAwaitingChoice
	return Response{
		State:   StateAwaitingChoice,
		Kind:    PendingRemoveAmbiguous,
		Prompt:  numberedPrompt(c.prompts.WhichOne, c.pending.choices()),
		Options: c.pending.choices(),
	}, nil
}

// OpenChangeChoice asks which draft line a quantity change targets.
func (c *Controller) OpenChangeChoice(query string, qty int, hasQty bool, candidates []order.Item) (Response, error) {
	if c.Busy() {
		return Response{}, ErrPendingOpen
	}
	c.pending = &pendingAction{kind: PendingChangeAmbiguous, query: query, lines: candidates, qty: qty, hasQty: hasQty}
	c.state = StateAwaitingChoice
	return Response{
		State:   StateAwaitingChoice,
		Kind:    PendingChangeAmbiguous,
		Prompt:  numberedPrompt(c.prompts.WhichOne, c.pending.choices()),
		Options: c.pending.choices(),
	}, nil
}

// OpenQtyPrompt asks for the missing number of an explicit quantity
// change.
func (c *Controller) OpenQtyPrompt(targetKey, targetLabel string) (Response, error) {
	if c.Busy() {
		return Response{}, ErrPendingOpen
	}
	c.pending = &pendingAction{kind: PendingChangeQtyMissing, targetKey: targetKey, targetLabel: targetLabel}
	c.state = StateAwaitingQty
	return Response{
		State:  StateAwaitingQty,
		Kind:   PendingChangeQtyMissing,
		Prompt: c.prompts.HowMany,
	}, nil
}

// OpenCancelConfirm asks for an explicit yes before clearing the draft.
func (c *Controller) OpenCancelConfirm() (Response, error) {
	if c.Busy() {
		return Response{}, ErrPendingOpen
	}
	c.pending = &pendingAction{kind: PendingCancelDraft}
	c.state = StateAwaitingChoice
	return Response{
		State:  StateAwaitingChoice,
		Kind:   PendingCancelDraft,
		Prompt: c.prompts.ConfirmCancel,
	}, nil
}

// OpenGroupPrompt holds a bare group-context utterance until the items
// arrive.
func (c *Controller) OpenGroupPrompt(group string) (Response, error) {
	if c.Busy() {
		return Response{}, ErrPendingOpen
	}
	c.pending = &pendingAction{kind: PendingGroupOnly, group: group}
	c.state = StateAwaitingNote
	return Response{
		State:  StateAwaitingNote,
		Kind:   PendingGroupOnly,
		Prompt: c.prompts.SayItems,
	}, nil
}

// HandleTranscript resolves the open clarification from a follow-up
// utterance.
func (c *Controller) HandleTranscript(text string) (Response, error) {
	if !c.Busy() {
		return Response{}, ErrNoPending
	}
	norm := lang.Normalize(text)

	switch c.pending.kind {
	case PendingCancelDraft:
		return c.resolveCancelConfirm(norm), nil
	case PendingChangeQtyMissing:
		return c.resolveQtyReply(norm), nil
	case PendingGroupOnly:
		return c.resolveGroupReply(text), nil
	default:
		return c.resolveChoiceReply(norm), nil
	}
}

// HandleChoice resolves the open clarification from a direct UI
// selection, bypassing re-parsing. The value is an option key, the
// injected CancelChoice, or a bare number for AWAITING_QTY.
func (c *Controller) HandleChoice(value string) (Response, error) {
	if !c.Busy() {
		return Response{}, ErrNoPending
	}
	if value == CancelChoice {
		return c.abort(), nil
	}
	switch c.pending.kind {
	case PendingCancelDraft:
		if parse.IsYes(value, c.code) {
			return c.confirmCancel(), nil
		}
		return c.closeKept(), nil
	case PendingChangeQtyMissing:
		if qty, ok := parse.BareNumber(value, c.code); ok {
			return c.applyQty(qty), nil
		}
		return c.reprompt(c.prompts.HowMany), nil
	case PendingGroupOnly:
		return c.resolveGroupReply(value), nil
	}

	for i, ch := range c.pending.choices() {
		if ch.Key == value {
			return c.resolveChoiceIndex(i), nil
		}
	}
	return c.reprompt(c.prompts.SayAgain), nil
}

// resolveChoiceReply interprets a spoken reply to an option list: a
// positional index, a cancel phrase, or the best-scoring option name.
func (c *Controller) resolveChoiceReply(norm string) Response {
	if c.isCancelPhrase(norm) {
		return c.abort()
	}
	choices := c.pending.choices()
	if idx := parse.OptionIndex(norm, c.code, len(choices)); idx > 0 {
		return c.resolveChoiceIndex(idx - 1)
	}

	bestIdx, bestScore := -1, 0.0
	for i, ch := range choices {
		if s := menu.ScoreOptionText(norm, ch.Label); s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	if bestIdx >= 0 && bestScore >= c.acceptThreshold() {
		return c.resolveChoiceIndex(bestIdx)
	}
	c.log.Debug("reply did not clear accept threshold", "reply", norm, "best", bestScore)
	return c.reprompt(numberedPrompt(c.prompts.SayAgain, choices))
}

// resolveChoiceIndex commits the picked option for the open kind.
func (c *Controller) resolveChoiceIndex(i int) Response {
	p := c.pending
	switch p.kind {
	case PendingAddAmbiguous, PendingUnknownProduct:
		product := p.products[i]
		item := c.commit(p.segment, product)
		remaining, added := p.remaining, append(p.added, item)
		c.clear()
		return c.processQueue(remaining, added)

	case PendingRemoveAmbiguous:
		line := p.lines[i]
		c.draft.RemoveItem(line.Key)
		c.clear()
		return Response{State: StateIdle}

	case PendingChangeAmbiguous:
		line := p.lines[i]
		if p.hasQty {
			c.draft.UpdateQty(line.Key, p.qty)
			c.clear()
			return Response{State: StateIdle}
		}
		// The target is now known but the number is still missing.
		c.pending = &pendingAction{kind: PendingChangeQtyMissing, targetKey: line.Key, targetLabel: line.Name}
		c.state = StateAwaitingQty
		return Response{State: StateAwaitingQty, Kind: PendingChangeQtyMissing, Prompt: c.prompts.HowMany}
	}
	return c.abort()
}

func (c *Controller) resolveCancelConfirm(norm string) Response {
	switch {
	case parse.IsYes(norm, c.code):
		return c.confirmCancel()
	default:
		// No, or anything that is not a clear yes, keeps the draft.
		return c.closeKept()
	}
}

func (c *Controller) confirmCancel() Response {
	c.draft.Clear()
	c.clear()
	c.log.Info("draft cancelled by confirmation")
	return Response{State: StateIdle, DraftCleared: true}
}

func (c *Controller) closeKept() Response {
	c.clear()
	return Response{State: StateIdle, Prompt: c.prompts.Kept}
}

func (c *Controller) resolveQtyReply(norm string) Response {
	if c.isCancelPhrase(norm) {
		return c.abort()
	}
	qty, ok := parse.BareNumber(norm, c.code)
	if !ok {
		return c.reprompt(c.prompts.HowMany)
	}
	return c.applyQty(qty)
}

func (c *Controller) applyQty(qty int) Response {
	key := c.pending.targetKey
	c.clear()
	if key != "" {
		c.draft.UpdateQty(key, qty)
	} else if items := c.draft.Items(); len(items) > 0 {
		c.draft.UpdateQty(items[len(items)-1].Key, qty)
	}
	return Response{State: StateIdle}
}

// resolveGroupReply re-parses the reply to a bare group-context
// utterance: items get the held group label, another bare group phrase
// re-arms the wait, anything else gives up and returns to IDLE.
func (c *Controller) resolveGroupReply(text string) Response {
	group := c.pending.group
	r := parse.ParseVoiceOrder(text, c.code, parse.Options{})

	switch r.Kind {
	case parse.KindAddItems:
		c.clear()
		for i := range r.Items {
			if r.Items[i].GroupLabel == "" {
				r.Items[i].GroupLabel = group
			}
		}
		return c.processQueue(r.Items, nil)
	case parse.KindGroupOnly:
		c.pending.group = r.GroupLabel
		return Response{State: StateAwaitingNote, Kind: PendingGroupOnly, Prompt: c.prompts.SayItems}
	case parse.KindCancel:
		return c.abort()
	default:
		c.clear()
		return Response{State: StateIdle, Prompt: c.prompts.SayAgain}
	}
}

// abort drops the open clarification without mutating the draft. Items
// committed before the pause stay committed.
func (c *Controller) abort() Response {
	c.log.Info("clarification aborted", "kind", c.pending.kind)
	c.clear()
	return Response{State: StateIdle}
}

func (c *Controller) reprompt(prompt string) Response {
	reopen := c.pending.kind == PendingAddAmbiguous || c.pending.kind == PendingUnknownProduct
	return Response{
		State:           c.state,
		Kind:            c.pending.kind,
		Prompt:          prompt,
		Options:         c.pending.choices(),
		ReopenListening: reopen,
	}
}

func (c *Controller) clear() {
	c.pending = nil
	c.state = StateIdle
}

func (c *Controller) acceptThreshold() float64 {
	if c.noisy {
		return noisyAcceptScore
	}
	return acceptScore
}

func (c *Controller) isCancelPhrase(norm string) bool {
	for _, s := range c.pack.Intents[lang.IntentCancel] {
		if lang.ContainsPhrase(norm, s) {
			return true
		}
	}
	return false
}

func bestScore(out menu.Outcome) float64 {
	if len(out.Candidates) == 0 {
		return 0
	}
	return out.Candidates[0].Score
}

func topProducts(candidates []menu.Candidate) []menu.Product {
	n := len(candidates)
	if n > menu.DefaultTopN {
		n = menu.DefaultTopN
	}
	out := make([]menu.Product, 0, n)
	for _, cand := range candidates[:n] {
		out = append(out, cand.Product)
	}
	return out
}

// numberedPrompt appends the option labels so the prompt can be spoken
// without the screen.
func numberedPrompt(prompt string, choices []Choice) string {
	if len(choices) == 0 {
		return prompt
	}
	var b strings.Builder
	b.WriteString(prompt)
	for i, ch := range choices {
		fmt.Fprintf(&b, " %d) %s", i+1, ch.Label)
	}
	return b.String()
}
