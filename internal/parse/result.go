package parse

import "github.com/ordervox/ordervox/internal/lang"

// Kind tags the discriminated union returned by ParseVoiceOrder.
type Kind string

const (
	KindAddItems     Kind = "add_items"
	KindRemoveItem   Kind = "remove_item"
	KindChangeQty    Kind = "change_qty"
	KindCancel       Kind = "cancel"
	KindClearDraft   Kind = "clear_draft"
	KindUndoLast     Kind = "undo_last"
	KindGroupOnly    Kind = "group_only"
	KindAddNotesLast Kind = "add_notes_last"
	KindQtyOnly      Kind = "qty_only"
	KindOpenRecap    Kind = "open_recap"
	KindReadBack     Kind = "read_back"
	KindReadTotal    Kind = "read_total"
	KindContinue     Kind = "continue"
	KindRecapCommand Kind = "recap_command"
	KindUnknown      Kind = "unknown"
)

// Segment is one connector-delimited clause of a transcript, carrying at
// most one item name plus optional quantity, notes and group context.
type Segment struct {
	QueryName  string
	Qty        Quantity
	Notes      []string
	GroupLabel string
}

// EffectiveQty is the quantity to order: the spoken value, or 1 when
// none was spoken.
func (s Segment) EffectiveQty() int {
	if s.Qty.Source == QtySourceNone {
		return 1
	}
	return s.Qty.Qty
}

// Result is the classification of one whole utterance. Which fields are
// populated depends on Kind:
//
//	KindAddItems      Items
//	KindRemoveItem    QueryName
//	KindChangeQty     QueryName, Qty, HasQty
//	KindGroupOnly     GroupLabel
//	KindAddNotesLast  Notes
//	KindQtyOnly       Qty
//	KindRecapCommand  RecapAction, Payment
//
// The remaining kinds carry no payload.
type Result struct {
	Kind Kind

	Items      []Segment
	QueryName  string
	Qty        int
	HasQty     bool
	Notes      []string
	GroupLabel string

	RecapAction lang.RecapAction
	Payment     lang.PaymentHint
}
