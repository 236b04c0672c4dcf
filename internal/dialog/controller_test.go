package dialog_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ordervox/ordervox/internal/dialog"
	"github.com/ordervox/ordervox/internal/lang"
	"github.com/ordervox/ordervox/internal/menu"
	"github.com/ordervox/ordervox/internal/order"
	"github.com/ordervox/ordervox/internal/parse"
)

func testMatcher() *menu.Matcher {
	return menu.NewMatcher([]menu.Product{
		{ID: "p-coca", Name: "Coca Cola", Price: 45, Category: "drinks"},
		{ID: "p-light", Name: "Cola Light", Price: 45, Category: "drinks"},
		{ID: "p-fries", Name: "French Fries", Price: 60, Category: "sides"},
		{ID: "p-chicken", Name: "Chicken Burger", Price: 120, Category: "mains"},
		{ID: "p-ayran", Name: "Ayran", Price: 20, Category: "drinks"},
	})
}

func seg(name string, qty int) parse.Segment {
	s := parse.Segment{QueryName: name, Qty: parse.Quantity{TokenIndex: -1, Source: parse.QtySourceNone}}
	if qty > 0 {
		s.Qty = parse.Quantity{Qty: qty, Source: parse.QtySourceDigit, Confidence: 0.98}
	}
	return s
}

func TestCleanItemsCommitImmediately(t *testing.T) {
	t.Parallel()

	d := order.NewDraft()
	c := dialog.New(testMatcher(), d, lang.English)

	resp, err := c.ProcessItems([]parse.Segment{seg("ayran", 2), seg("fries", 1)})
	if err != nil {
		t.Fatalf("ProcessItems: %v", err)
	}
	if resp.State != dialog.StateIdle {
		t.Fatalf("state = %s, want idle", resp.State)
	}
	if len(resp.Added) != 2 || d.Len() != 2 {
		t.Errorf("added %d lines, draft has %d, want 2/2", len(resp.Added), d.Len())
	}
	if resp.Added[0].Qty != 2 {
		t.Errorf("ayran qty = %d, want 2", resp.Added[0].Qty)
	}
}

func TestMultiItemQueuePausesOnce(t *testing.T) {
	t.Parallel()

	d := order.NewDraft()
	c := dialog.New(testMatcher(), d, lang.English)

	// "cola" is ambiguous; the two items after it must wait, then all
	// commit after a single clarification.
	resp, err := c.ProcessItems([]parse.Segment{seg("cola", 2), seg("fries", 1), seg("ayran", 1)})
	if err != nil {
		t.Fatalf("ProcessItems: %v", err)
	}
	if resp.State != dialog.StateAwaitingChoice || resp.Kind != dialog.PendingAddAmbiguous {
		t.Fatalf("got state=%s kind=%s, want awaiting_choice/add_ambiguous", resp.State, resp.Kind)
	}
	if !resp.ReopenListening {
		t.Error("item ambiguity must reopen listening")
	}
	if d.Len() != 0 {
		t.Fatalf("draft has %d lines before clarification, want 0", d.Len())
	}

	resp, err = c.HandleTranscript("the first one")
	if err != nil {
		t.Fatalf("HandleTranscript: %v", err)
	}
	if resp.State != dialog.StateIdle {
		t.Fatalf("state after reply = %s, want idle", resp.State)
	}
	if d.Len() != 3 {
		t.Errorf("draft has %d lines, want 3", d.Len())
	}
	if len(resp.Added) != 3 {
		t.Errorf("response lists %d added lines, want 3", len(resp.Added))
	}
}

func TestChoiceByName(t *testing.T) {
	t.Parallel()

	d := order.NewDraft()
	c := dialog.New(testMatcher(), d, lang.English)

	if _, err := c.ProcessItems([]parse.Segment{seg("cola", 1)}); err != nil {
		t.Fatal(err)
	}
	resp, err := c.HandleTranscript("the light one")
	if err != nil {
		t.Fatalf("HandleTranscript: %v", err)
	}
	if resp.State != dialog.StateIdle {
		t.Fatalf("state = %s, want idle", resp.State)
	}
	items := d.Items()
	if len(items) != 1 || items[0].ProductID != "p-light" {
		t.Errorf("draft = %+v, want Cola Light", items)
	}
}

func TestCancelPhraseAbortsChoice(t *testing.T) {
	t.Parallel()

	d := order.NewDraft()
	c := dialog.New(testMatcher(), d, lang.English)

	if _, err := c.ProcessItems([]parse.Segment{seg("cola", 1)}); err != nil {
		t.Fatal(err)
	}
	resp, err := c.HandleTranscript("never mind")
	if err != nil {
		t.Fatalf("HandleTranscript: %v", err)
	}
	if resp.State != dialog.StateIdle || c.Busy() {
		t.Error("cancel phrase did not return to idle")
	}
	if d.Len() != 0 {
		t.Errorf("abort mutated the draft: %+v", d.Items())
	}
}

func TestInjectedCancelChoice(t *testing.T) {
	t.Parallel()

	d := order.NewDraft()
	c := dialog.New(testMatcher(), d, lang.English)

	if _, err := c.ProcessItems([]parse.Segment{seg("cola", 1)}); err != nil {
		t.Fatal(err)
	}
	resp, err := c.HandleChoice(dialog.CancelChoice)
	if err != nil {
		t.Fatalf("HandleChoice: %v", err)
	}
	if resp.State != dialog.StateIdle || d.Len() != 0 {
		t.Error("injected cancel did not abort cleanly")
	}
}

func TestUnknownProductWithoutSuggestions(t *testing.T) {
	t.Parallel()

	d := order.NewDraft()
	c := dialog.New(testMatcher(), d, lang.English)

	resp, err := c.ProcessItems([]parse.Segment{seg("quantum flux soup", 1)})
	if err != nil {
		t.Fatalf("ProcessItems: %v", err)
	}
	if resp.State != dialog.StateIdle || c.Busy() {
		t.Error("hopeless query must not open a clarification")
	}
	if resp.Prompt == "" {
		t.Error("expected a not-found prompt")
	}
}

func TestHopelessItemDoesNotDropQueue(t *testing.T) {
	t.Parallel()

	d := order.NewDraft()
	c := dialog.New(testMatcher(), d, lang.English)

	resp, err := c.ProcessItems([]parse.Segment{seg("quantum flux soup", 1), seg("ayran", 2)})
	if err != nil {
		t.Fatalf("ProcessItems: %v", err)
	}
	if resp.State != dialog.StateIdle || c.Busy() {
		t.Fatalf("state = %s busy=%v, want idle", resp.State, c.Busy())
	}
	if len(resp.Added) != 1 || d.Len() != 1 {
		t.Fatalf("added %d lines, draft has %d, want 1/1", len(resp.Added), d.Len())
	}
	if resp.Added[0].Qty != 2 {
		t.Errorf("ayran qty = %d, want 2", resp.Added[0].Qty)
	}
	if resp.Prompt == "" {
		t.Error("expected a not-found notice for the skipped item")
	}
}

func TestHopelessItemNoticeSurvivesLaterPause(t *testing.T) {
	t.Parallel()

	d := order.NewDraft()
	c := dialog.New(testMatcher(), d, lang.English)

	resp, err := c.ProcessItems([]parse.Segment{seg("quantum flux soup", 1), seg("cola", 0), seg("fries", 1)})
	if err != nil {
		t.Fatalf("ProcessItems: %v", err)
	}
	if resp.State != dialog.StateAwaitingChoice {
		t.Fatalf("state = %s, want awaiting_choice for the ambiguous cola", resp.State)
	}
	if !strings.HasPrefix(resp.Prompt, "I couldn't find") {
		t.Errorf("pause prompt %q missing the not-found notice", resp.Prompt)
	}

	// The clarification still resumes the rest of the queue.
	resp, err = c.HandleChoice("p-light")
	if err != nil {
		t.Fatalf("HandleChoice: %v", err)
	}
	if resp.State != dialog.StateIdle || d.Len() != 2 {
		t.Fatalf("after choice state=%s draft=%d, want idle/2", resp.State, d.Len())
	}
}

func TestCancelDraftConfirmation(t *testing.T) {
	t.Parallel()

	d := order.NewDraft()
	c := dialog.New(testMatcher(), d, lang.English)
	d.AddItem(order.Item{ProductID: "p-ayran", Name: "Ayran", Qty: 1})

	// "no" keeps the draft.
	if _, err := c.OpenCancelConfirm(); err != nil {
		t.Fatal(err)
	}
	resp, err := c.HandleTranscript("no")
	if err != nil {
		t.Fatalf("HandleTranscript: %v", err)
	}
	if resp.State != dialog.StateIdle || resp.DraftCleared || d.Len() != 1 {
		t.Fatalf("no must keep the draft: %+v, len=%d", resp, d.Len())
	}

	// "yes" clears it.
	if _, err := c.OpenCancelConfirm(); err != nil {
		t.Fatal(err)
	}
	resp, err = c.HandleTranscript("yes")
	if err != nil {
		t.Fatalf("HandleTranscript: %v", err)
	}
	if !resp.DraftCleared || d.Len() != 0 {
		t.Errorf("yes must clear the draft: %+v, len=%d", resp, d.Len())
	}
}

func TestAwaitingQty(t *testing.T) {
	t.Parallel()

	d := order.NewDraft()
	c := dialog.New(testMatcher(), d, lang.English)
	line := d.AddItem(order.Item{ProductID: "p-chicken", Name: "Chicken Burger", Qty: 1})

	resp, err := c.OpenQtyPrompt(line.Key, line.Name)
	if err != nil {
		t.Fatal(err)
	}
	if resp.State != dialog.StateAwaitingQty {
		t.Fatalf("state = %s, want awaiting_qty", resp.State)
	}

	// A non-number re-prompts.
	resp, err = c.HandleTranscript("hmm let me think")
	if err != nil {
		t.Fatal(err)
	}
	if resp.State != dialog.StateAwaitingQty {
		t.Fatalf("non-number closed the prompt: %+v", resp)
	}

	resp, err = c.HandleTranscript("three")
	if err != nil {
		t.Fatal(err)
	}
	if resp.State != dialog.StateIdle {
		t.Fatalf("state = %s, want idle", resp.State)
	}
	if got := d.Items()[0].Qty; got != 3 {
		t.Errorf("qty = %d, want 3", got)
	}
}

func TestRemoveChoice(t *testing.T) {
	t.Parallel()

	d := order.NewDraft()
	c := dialog.New(testMatcher(), d, lang.English)
	first := d.AddItem(order.Item{ProductID: "p-coca", Name: "Coca Cola", Qty: 1})
	d.AddItem(order.Item{ProductID: "p-light", Name: "Cola Light", Qty: 1})

	if _, err := c.OpenRemoveChoice("cola", d.Items()); err != nil {
		t.Fatal(err)
	}
	resp, err := c.HandleChoice(first.Key)
	if err != nil {
		t.Fatalf("HandleChoice: %v", err)
	}
	if resp.State != dialog.StateIdle {
		t.Fatalf("state = %s, want idle", resp.State)
	}
	items := d.Items()
	if len(items) != 1 || items[0].ProductID != "p-light" {
		t.Errorf("draft = %+v, want only Cola Light", items)
	}
}

func TestChangeChoiceThenQty(t *testing.T) {
	t.Parallel()

	d := order.NewDraft()
	c := dialog.New(testMatcher(), d, lang.English)
	first := d.AddItem(order.Item{ProductID: "p-coca", Name: "Coca Cola", Qty: 1})
	d.AddItem(order.Item{ProductID: "p-light", Name: "Cola Light", Qty: 1})

	// Target known after the pick, number still missing.
	if _, err := c.OpenChangeChoice("cola", 0, false, d.Items()); err != nil {
		t.Fatal(err)
	}
	resp, err := c.HandleChoice(first.Key)
	if err != nil {
		t.Fatal(err)
	}
	if resp.State != dialog.StateAwaitingQty {
		t.Fatalf("state = %s, want awaiting_qty", resp.State)
	}
	if _, err := c.HandleTranscript("5"); err != nil {
		t.Fatal(err)
	}
	if got := d.Items()[0].Qty; got != 5 {
		t.Errorf("qty = %d, want 5", got)
	}
}

func TestGroupPromptCarriesLabel(t *testing.T) {
	t.Parallel()

	d := order.NewDraft()
	c := dialog.New(testMatcher(), d, lang.English)

	if _, err := c.OpenGroupPrompt("Kids"); err != nil {
		t.Fatal(err)
	}
	resp, err := c.HandleTranscript("two ayran")
	if err != nil {
		t.Fatalf("HandleTranscript: %v", err)
	}
	if resp.State != dialog.StateIdle {
		t.Fatalf("state = %s, want idle", resp.State)
	}
	items := d.Items()
	if len(items) != 1 || items[0].GroupLabel != "Kids" || items[0].Qty != 2 {
		t.Errorf("draft = %+v, want 2x Ayran for Kids", items)
	}
}

func TestSingleFlight(t *testing.T) {
	t.Parallel()

	d := order.NewDraft()
	c := dialog.New(testMatcher(), d, lang.English)

	if _, err := c.OpenCancelConfirm(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.OpenCancelConfirm(); !errors.Is(err, dialog.ErrPendingOpen) {
		t.Errorf("second open: err = %v, want ErrPendingOpen", err)
	}
	if _, err := c.ProcessItems([]parse.Segment{seg("ayran", 1)}); !errors.Is(err, dialog.ErrPendingOpen) {
		t.Errorf("ProcessItems while busy: err = %v, want ErrPendingOpen", err)
	}
}

func TestReplyEntryPointsRequirePending(t *testing.T) {
	t.Parallel()

	c := dialog.New(testMatcher(), order.NewDraft(), lang.English)
	if _, err := c.HandleTranscript("yes"); !errors.Is(err, dialog.ErrNoPending) {
		t.Errorf("HandleTranscript at idle: err = %v, want ErrNoPending", err)
	}
	if _, err := c.HandleChoice("p-ayran"); !errors.Is(err, dialog.ErrNoPending) {
		t.Errorf("HandleChoice at idle: err = %v, want ErrNoPending", err)
	}
}

func TestNoisyModeDemotesNarrowResolutions(t *testing.T) {
	t.Parallel()

	m := menu.NewMatcher([]menu.Product{
		{ID: "p-burger", Name: "Big Chicken Burger Menu", Price: 150},
		{ID: "p-wrap", Name: "Big Chicken Wrap Menu", Price: 140},
	})

	// Normal mode trusts the clear winner.
	c := dialog.New(m, order.NewDraft(), lang.English)
	resp, err := c.ProcessItems([]parse.Segment{seg("big chicken burger menu", 1)})
	if err != nil {
		t.Fatal(err)
	}
	if resp.State != dialog.StateIdle {
		t.Fatalf("normal mode: state = %s, want idle", resp.State)
	}

	// Noisy mode asks because the runner-up is too close.
	cn := dialog.New(m, order.NewDraft(), lang.English, dialog.WithNoisyMode(true))
	resp, err = cn.ProcessItems([]parse.Segment{seg("big chicken burger menu", 1)})
	if err != nil {
		t.Fatal(err)
	}
	if resp.State != dialog.StateAwaitingChoice {
		t.Fatalf("noisy mode: state = %s, want awaiting_choice", resp.State)
	}
}

func TestResolveObserverSeesEveryOutcome(t *testing.T) {
	t.Parallel()

	type obs struct {
		outcome string
		score   float64
	}
	var seen []obs
	d := order.NewDraft()
	c := dialog.New(testMatcher(), d, lang.English,
		dialog.WithResolveObserver(func(outcome string, score float64) {
			seen = append(seen, obs{outcome, score})
		}),
	)

	if _, err := c.ProcessItems([]parse.Segment{seg("ayran", 1), seg("cola", 0), seg("quantum flux soup", 0)}); err != nil {
		t.Fatalf("ProcessItems: %v", err)
	}
	// The queue pauses on the ambiguous "cola", so only two resolutions
	// have happened so far.
	if len(seen) != 2 {
		t.Fatalf("observed %d resolutions, want 2", len(seen))
	}
	if seen[0].outcome != "resolved" || seen[0].score <= 0 {
		t.Errorf("first = %+v, want resolved with positive score", seen[0])
	}
	if seen[1].outcome != "ambiguous" {
		t.Errorf("second outcome = %q, want ambiguous", seen[1].outcome)
	}

	if _, err := c.HandleChoice("p-coca"); err != nil {
		t.Fatalf("HandleChoice: %v", err)
	}
	if len(seen) != 3 || seen[2].outcome != "none" {
		t.Fatalf("after resume seen = %+v, want trailing none", seen)
	}
}
