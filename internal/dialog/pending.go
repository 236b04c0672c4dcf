package dialog

import (
	"github.com/ordervox/ordervox/internal/menu"
	"github.com/ordervox/ordervox/internal/order"
	"github.com/ordervox/ordervox/internal/parse"
)

// State is the dialog machine's mode.
type State string

const (
	StateIdle           State = "idle"
	StateAwaitingChoice State = "awaiting_choice"
	StateAwaitingQty    State = "awaiting_qty"
	StateAwaitingNote   State = "awaiting_note"
)

// PendingKind tags the single open clarification.
type PendingKind string

const (
	PendingAddAmbiguous     PendingKind = "add_ambiguous"
	PendingUnknownProduct   PendingKind = "unknown_product"
	PendingRemoveAmbiguous  PendingKind = "remove_ambiguous"
	PendingChangeAmbiguous  PendingKind = "change_ambiguous"
	PendingChangeQtyMissing PendingKind = "change_qty_missing"
	PendingCancelDraft      PendingKind = "cancel_draft"
	PendingGroupOnly        PendingKind = "group_only"
)

// CancelChoice is the injected choice value that aborts any open
// clarification without touching the draft.
const CancelChoice = "__cancel"

// pendingAction is the stored, resumable description of the open
// question. remaining and added exist only for the add kinds, so a
// multi-item utterance pauses exactly where it stopped.
type pendingAction struct {
	kind  PendingKind
	query string

	// add_ambiguous / unknown_product
	segment   parse.Segment
	remaining []parse.Segment
	added     []order.Item
	products  []menu.Product

	// remove_ambiguous / change_ambiguous
	lines []order.Item

	// change_qty_missing / change_ambiguous
	targetKey   string
	targetLabel string
	qty         int
	hasQty      bool

	// group_only
	group string
}

// Choice is one selectable option as shown to the user.
type Choice struct {
	Key   string
	Label string
}

// Response is what one controller call hands back to the session: the
// new machine state, the text to speak, any options to render, and the
// lines committed by this call.
type Response struct {
	State   State
	Kind    PendingKind
	Prompt  string
	Options []Choice

	// ReopenListening tells the speech-input collaborator to start
	// capturing again without a push-to-talk press.
	ReopenListening bool

	// Added lists the draft lines committed during this call, in order.
	Added []order.Item

	// DraftCleared reports that a confirmed cancel emptied the draft.
	DraftCleared bool
}

func (p *pendingAction) choices() []Choice {
	var out []Choice
	for _, prod := range p.products {
		out = append(out, Choice{Key: prod.ID, Label: prod.Name})
	}
	for _, line := range p.lines {
		out = append(out, Choice{Key: line.Key, Label: line.Name})
	}
	return out
}
