// Package app wires the understanding engine together per ordering
// session: one draft, one dialog controller, and the recap flow that
// hands a confirmed order off to the submit callback.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ordervox/ordervox/internal/dialog"
	"github.com/ordervox/ordervox/internal/lang"
	"github.com/ordervox/ordervox/internal/menu"
	"github.com/ordervox/ordervox/internal/observe"
	"github.com/ordervox/ordervox/internal/order"
	"github.com/ordervox/ordervox/internal/parse"
)

// SubmitFunc receives the final line list of a confirmed order. The
// draft is cleared only after it returns nil.
type SubmitFunc func(ctx context.Context, items []order.Item, payment string) error

// Reply is the session's answer to one transcript or choice frame:
// what to speak, what to render, and what happened to the draft.
type Reply struct {
	Prompt  string
	State   dialog.State
	Options []dialog.Choice

	// ReopenListening asks the speech-input side to capture the answer
	// to a clarification without another push-to-talk press.
	ReopenListening bool

	// Summary is attached whenever the draft changed or was read back.
	Summary *order.Summary

	Added        []order.Item
	DraftCleared bool

	// RecapOpen reports that the session is in the review step.
	RecapOpen bool

	// Submitted reports that the order was confirmed and handed off.
	Submitted bool
}

// Session is one customer's ordering conversation. All exported
// methods are safe for concurrent use, though a session has a single
// logical caller (its gateway connection).
type Session struct {
	mu       sync.Mutex
	id       string
	code     lang.Code
	draft    *order.Draft
	ctrl     *dialog.Controller
	replies  replySet
	payments []string
	submit   SubmitFunc
	metrics  *observe.Metrics
	log      *slog.Logger

	recapMode bool
	payment   string
	startedAt time.Time
}

// SessionConfig holds the dependencies for a [Session].
type SessionConfig struct {
	ID       string
	Language lang.Code
	Matcher  *menu.Matcher

	// Noisy raises the dialog's auto-accept thresholds.
	Noisy bool

	// PaymentMethods gates the recap confirm step.
	PaymentMethods []string

	// UndoDepth overrides the draft's history bound when positive.
	UndoDepth int

	Submit  SubmitFunc
	Metrics *observe.Metrics
	Logger  *slog.Logger
}

// NewSession creates an idle session with an empty draft.
func NewSession(cfg SessionConfig) *Session {
	code := lang.Coerce(cfg.Language)

	var draftOpts []order.Option
	if cfg.UndoDepth > 0 {
		draftOpts = append(draftOpts, order.WithUndoDepth(cfg.UndoDepth))
	}
	draft := order.NewDraft(draftOpts...)

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("session_id", cfg.ID, "language", string(code))

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}

	ctrl := dialog.New(cfg.Matcher, draft, code,
		dialog.WithNoisyMode(cfg.Noisy),
		dialog.WithLogger(log),
		dialog.WithResolveObserver(func(outcome string, score float64) {
			metrics.RecordMatchOutcome(context.Background(), outcome, score)
		}),
	)

	return &Session{
		id:        cfg.ID,
		code:      code,
		draft:     draft,
		ctrl:      ctrl,
		replies:   repliesFor(code),
		payments:  cfg.PaymentMethods,
		submit:    cfg.Submit,
		metrics:   metrics,
		log:       log,
		startedAt: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Language returns the session's language.
func (s *Session) Language() lang.Code { return s.code }

// Summary derives the current draft totals.
func (s *Session) Summary() order.Summary { return s.draft.Summary() }

// HandleTranscript processes one finalized speech transcript. While a
// clarification is open the text is treated as its answer; otherwise it
// is parsed as a fresh command.
func (s *Session) HandleTranscript(ctx context.Context, text string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() {
		s.metrics.TurnDuration.Record(ctx, time.Since(start).Seconds())
	}()

	if s.ctrl.Busy() {
		resp, err := s.ctrl.HandleTranscript(text)
		if err != nil {
			return Reply{}, err
		}
		return s.fromDialog(resp), nil
	}

	parseStart := time.Now()
	res := parse.ParseVoiceOrder(text, s.code, parse.Options{RecapMode: s.recapMode})
	s.metrics.ParseDuration.Record(ctx, time.Since(parseStart).Seconds())
	s.metrics.RecordTranscript(ctx, string(s.code), string(res.Kind))

	return s.dispatch(ctx, res)
}

// HandleChoice processes a direct UI selection. During recap an idle
// choice picks the payment method; otherwise it must answer the open
// clarification.
func (s *Session) HandleChoice(ctx context.Context, value string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl.Busy() {
		resp, err := s.ctrl.HandleChoice(value)
		if err != nil {
			return Reply{}, err
		}
		return s.fromDialog(resp), nil
	}

	if s.recapMode && slices.Contains(s.payments, value) {
		s.payment = value
		return s.withSummary(Reply{
			Prompt:    s.recapPrompt(),
			RecapOpen: true,
		}), nil
	}

	return Reply{}, dialog.ErrNoPending
}

// dispatch routes one parsed command.
func (s *Session) dispatch(ctx context.Context, res parse.Result) (Reply, error) {
	switch res.Kind {
	case parse.KindAddItems:
		return s.addItems(ctx, res.Items)

	case parse.KindRemoveItem:
		return s.removeItem(ctx, res.QueryName)

	case parse.KindChangeQty:
		return s.changeQty(ctx, res)

	case parse.KindCancel:
		if s.draft.Len() == 0 {
			return Reply{Prompt: s.replies.NothingInDraft}, nil
		}
		resp, err := s.ctrl.OpenCancelConfirm()
		if err != nil {
			return Reply{}, err
		}
		s.metrics.RecordClarification(ctx, string(dialog.PendingCancelDraft))
		return s.fromDialog(resp), nil

	case parse.KindClearDraft:
		s.draft.Clear()
		s.recapMode = false
		return Reply{Prompt: s.replies.DraftCleared, DraftCleared: true}, nil

	case parse.KindUndoLast:
		if err := s.draft.UndoLast(); err != nil {
			if errors.Is(err, order.ErrNothingToUndo) {
				s.metrics.UndoUnderflows.Add(ctx, 1)
				return Reply{Prompt: s.replies.NothingToUndo}, nil
			}
			return Reply{}, err
		}
		return s.withSummary(Reply{Prompt: s.replies.UndoDone}), nil

	case parse.KindGroupOnly:
		resp, err := s.ctrl.OpenGroupPrompt(res.GroupLabel)
		if err != nil {
			return Reply{}, err
		}
		s.metrics.RecordClarification(ctx, string(dialog.PendingGroupOnly))
		return s.fromDialog(resp), nil

	case parse.KindAddNotesLast:
		if !s.draft.AppendNotesToLastItem(res.Notes) {
			return Reply{Prompt: s.replies.NothingInDraft}, nil
		}
		return s.withSummary(Reply{Prompt: s.replies.NotesAdded}), nil

	case parse.KindQtyOnly:
		items := s.draft.Items()
		if len(items) == 0 {
			return Reply{Prompt: s.replies.NothingInDraft}, nil
		}
		last := items[len(items)-1]
		s.draft.UpdateQty(last.Key, res.Qty)
		prompt := fmt.Sprintf(s.replies.QtySet, res.Qty, last.Name)
		return s.withSummary(Reply{Prompt: prompt}), nil

	case parse.KindOpenRecap:
		s.recapMode = true
		return s.withSummary(Reply{
			Prompt:    s.recapPrompt(),
			RecapOpen: true,
		}), nil

	case parse.KindReadBack:
		sum := s.draft.Summary()
		if len(sum.Items) == 0 {
			return Reply{Prompt: s.replies.EmptyReadBack}, nil
		}
		return Reply{Prompt: SpeakSummary(sum), Summary: &sum, RecapOpen: s.recapMode}, nil

	case parse.KindReadTotal:
		sum := s.draft.Summary()
		if len(sum.Items) == 0 {
			return Reply{Prompt: s.replies.EmptyReadBack}, nil
		}
		prompt := fmt.Sprintf(s.replies.TotalIs, sum.TotalPrice)
		return Reply{Prompt: prompt, Summary: &sum, RecapOpen: s.recapMode}, nil

	case parse.KindContinue:
		return Reply{Prompt: s.replies.Continue, RecapOpen: s.recapMode}, nil

	case parse.KindRecapCommand:
		return s.recapCommand(ctx, res)

	default:
		return Reply{Prompt: s.replies.SayAgain, RecapOpen: s.recapMode}, nil
	}
}

func (s *Session) addItems(ctx context.Context, segments []parse.Segment) (Reply, error) {
	for _, seg := range segments {
		if seg.Qty.Clamped {
			s.metrics.QtyClamps.Add(ctx, 1)
		}
	}

	resp, err := s.ctrl.ProcessItems(segments)
	if err != nil {
		return Reply{}, err
	}
	if resp.State != dialog.StateIdle {
		s.metrics.RecordClarification(ctx, string(resp.Kind))
	}
	return s.fromDialog(resp), nil
}

func (s *Session) removeItem(ctx context.Context, query string) (Reply, error) {
	m := s.draft.RemoveByNameMatch(query)
	switch m.Status {
	case order.MatchFound:
		prompt := fmt.Sprintf(s.replies.Removed, m.Item.Name)
		return s.withSummary(Reply{Prompt: prompt}), nil

	case order.MatchAmbiguous:
		resp, err := s.ctrl.OpenRemoveChoice(query, m.Candidates)
		if err != nil {
			return Reply{}, err
		}
		s.metrics.RecordClarification(ctx, string(dialog.PendingRemoveAmbiguous))
		return s.fromDialog(resp), nil

	default:
		return Reply{Prompt: s.replies.NotInDraft}, nil
	}
}

func (s *Session) changeQty(ctx context.Context, res parse.Result) (Reply, error) {
	// "make that 3" names no product; it targets the last line.
	if res.QueryName == "" {
		items := s.draft.Items()
		if len(items) == 0 {
			return Reply{Prompt: s.replies.NothingInDraft}, nil
		}
		last := items[len(items)-1]
		if res.HasQty {
			s.draft.UpdateQty(last.Key, res.Qty)
			prompt := fmt.Sprintf(s.replies.QtySet, res.Qty, last.Name)
			return s.withSummary(Reply{Prompt: prompt}), nil
		}
		resp, err := s.ctrl.OpenQtyPrompt(last.Key, last.Name)
		if err != nil {
			return Reply{}, err
		}
		s.metrics.RecordClarification(ctx, string(dialog.PendingChangeQtyMissing))
		return s.fromDialog(resp), nil
	}

	m := s.draft.FindByNameMatch(res.QueryName)
	switch m.Status {
	case order.MatchFound:
		if res.HasQty {
			s.draft.UpdateQty(m.Item.Key, res.Qty)
			prompt := fmt.Sprintf(s.replies.QtySet, res.Qty, m.Item.Name)
			return s.withSummary(Reply{Prompt: prompt}), nil
		}
		resp, err := s.ctrl.OpenQtyPrompt(m.Item.Key, m.Item.Name)
		if err != nil {
			return Reply{}, err
		}
		s.metrics.RecordClarification(ctx, string(dialog.PendingChangeQtyMissing))
		return s.fromDialog(resp), nil

	case order.MatchAmbiguous:
		resp, err := s.ctrl.OpenChangeChoice(res.QueryName, res.Qty, res.HasQty, m.Candidates)
		if err != nil {
			return Reply{}, err
		}
		s.metrics.RecordClarification(ctx, string(dialog.PendingChangeAmbiguous))
		return s.fromDialog(resp), nil

	default:
		return Reply{Prompt: s.replies.NotInDraft}, nil
	}
}

// recapCommand handles confirm/clear/continue/cancel inside the review
// step. Confirm is gated on a configured payment method; a blocked
// confirm leaves the draft untouched.
func (s *Session) recapCommand(ctx context.Context, res parse.Result) (Reply, error) {
	switch res.RecapAction {
	case lang.RecapConfirm:
		if res.Payment != lang.PaymentNone && slices.Contains(s.payments, string(res.Payment)) {
			s.payment = string(res.Payment)
		}
		if s.payment == "" {
			prompt := fmt.Sprintf(s.replies.PickPayment, strings.Join(s.payments, ", "))
			return s.withSummary(Reply{Prompt: prompt, RecapOpen: true}), nil
		}
		return s.confirmOrder(ctx)

	case lang.RecapClear:
		s.draft.Clear()
		s.recapMode = false
		s.payment = ""
		return Reply{Prompt: s.replies.DraftCleared, DraftCleared: true}, nil

	case lang.RecapContinue:
		s.recapMode = false
		return Reply{Prompt: s.replies.Continue}, nil

	case lang.RecapCancel:
		resp, err := s.ctrl.OpenCancelConfirm()
		if err != nil {
			return Reply{}, err
		}
		s.metrics.RecordClarification(ctx, string(dialog.PendingCancelDraft))
		return s.fromDialog(resp), nil

	default:
		return Reply{Prompt: s.replies.SayAgain, RecapOpen: true}, nil
	}
}

// confirmOrder hands the final lines to the submit callback, then
// clears the draft and leaves the review step.
func (s *Session) confirmOrder(ctx context.Context) (Reply, error) {
	items := s.draft.Items()
	if len(items) == 0 {
		return Reply{Prompt: s.replies.NothingInDraft, RecapOpen: true}, nil
	}

	if s.submit != nil {
		if err := s.submit(ctx, items, s.payment); err != nil {
			return Reply{}, fmt.Errorf("app: submit order: %w", err)
		}
	}
	s.metrics.RecordSubmission(ctx, s.payment)
	s.log.Info("order confirmed", "lines", len(items), "payment", s.payment)

	s.draft.Clear()
	s.recapMode = false
	s.payment = ""

	return Reply{Prompt: s.replies.Confirmed, Submitted: true}, nil
}

// fromDialog maps a controller response onto the session reply,
// folding in recap state and a summary when lines were committed.
func (s *Session) fromDialog(resp dialog.Response) Reply {
	r := Reply{
		Prompt:          resp.Prompt,
		State:           resp.State,
		Options:         resp.Options,
		ReopenListening: resp.ReopenListening,
		Added:           resp.Added,
		DraftCleared:    resp.DraftCleared,
	}
	if resp.DraftCleared {
		s.recapMode = false
		s.payment = ""
	}
	r.RecapOpen = s.recapMode
	if len(resp.Added) > 0 || resp.DraftCleared {
		sum := s.draft.Summary()
		r.Summary = &sum
	}
	return r
}

// withSummary attaches the current draft summary to r.
func (s *Session) withSummary(r Reply) Reply {
	sum := s.draft.Summary()
	r.Summary = &sum
	return r
}

// recapPrompt renders the review read-back plus the next-step question.
func (s *Session) recapPrompt() string {
	sum := s.draft.Summary()
	if len(sum.Items) == 0 {
		return s.replies.EmptyReadBack
	}
	return fmt.Sprintf(s.replies.RecapIntro, SpeakSummary(sum))
}
