package parse_test

import (
	"testing"

	"github.com/ordervox/ordervox/internal/lang"
	"github.com/ordervox/ordervox/internal/parse"
)

func TestParseTwoItemsWithQuantities(t *testing.T) {
	t.Parallel()

	r := parse.ParseVoiceOrder("2 cola and 1 fries", lang.English, parse.Options{})
	if r.Kind != parse.KindAddItems {
		t.Fatalf("kind = %s, want add_items", r.Kind)
	}
	if len(r.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(r.Items))
	}
	first, second := r.Items[0], r.Items[1]
	if first.QueryName != "cola" || first.EffectiveQty() != 2 {
		t.Errorf("first item = %q x%d, want cola x2", first.QueryName, first.EffectiveQty())
	}
	if second.QueryName != "fries" || second.EffectiveQty() != 1 {
		t.Errorf("second item = %q x%d, want fries x1", second.QueryName, second.EffectiveQty())
	}
}

func TestParseTurkishNumberWord(t *testing.T) {
	t.Parallel()

	r := parse.ParseVoiceOrder("iki tavuk burger", lang.Turkish, parse.Options{})
	if r.Kind != parse.KindAddItems || len(r.Items) != 1 {
		t.Fatalf("got %+v, want one add_items segment", r)
	}
	item := r.Items[0]
	if item.QueryName != "tavuk burger" || item.EffectiveQty() != 2 {
		t.Errorf("item = %q x%d, want tavuk burger x2", item.QueryName, item.EffectiveQty())
	}
	if item.Qty.Source != parse.QtySourceWord {
		t.Errorf("qty source = %s, want word", item.Qty.Source)
	}
}

func TestParseNotesAndGroupAttachToItem(t *testing.T) {
	t.Parallel()

	r := parse.ParseVoiceOrder("a burger no onion, extra sauce for me", lang.English, parse.Options{})
	if r.Kind != parse.KindAddItems || len(r.Items) != 1 {
		t.Fatalf("got %+v, want one item", r)
	}
	item := r.Items[0]
	if item.QueryName != "burger" {
		t.Errorf("name = %q, want burger", item.QueryName)
	}
	if len(item.Notes) != 2 || item.Notes[0] != "no onion" || item.Notes[1] != "extra sauce" {
		t.Errorf("notes = %v, want [no onion, extra sauce]", item.Notes)
	}
}

func TestParseGroupContextCarriesForward(t *testing.T) {
	t.Parallel()

	r := parse.ParseVoiceOrder("for the kids, one cola", lang.English, parse.Options{})
	if r.Kind != parse.KindAddItems || len(r.Items) != 1 {
		t.Fatalf("got %+v, want one item", r)
	}
	if r.Items[0].GroupLabel != "Kids" {
		t.Errorf("group = %q, want Kids", r.Items[0].GroupLabel)
	}
}

func TestParseGroupOnly(t *testing.T) {
	t.Parallel()

	r := parse.ParseVoiceOrder("for the kids", lang.English, parse.Options{})
	if r.Kind != parse.KindGroupOnly || r.GroupLabel != "Kids" {
		t.Fatalf("got %+v, want group_only Kids", r)
	}
}

func TestParseNoteOnlyUtterance(t *testing.T) {
	t.Parallel()

	r := parse.ParseVoiceOrder("no onion, that's all", lang.English, parse.Options{})
	if r.Kind != parse.KindAddNotesLast {
		t.Fatalf("kind = %s, want add_notes_last (finish must be suppressed)", r.Kind)
	}
	if len(r.Notes) != 1 || r.Notes[0] != "no onion" {
		t.Errorf("notes = %v, want [no onion]", r.Notes)
	}
}

func TestParseFinishOpensRecap(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		transcript string
		code       lang.Code
	}{
		{"that's all", lang.English},
		{"bu kadar", lang.Turkish},
		{"das wars", lang.German},
		{"c'est tout", lang.French},
	} {
		if r := parse.ParseVoiceOrder(tc.transcript, tc.code, parse.Options{}); r.Kind != parse.KindOpenRecap {
			t.Errorf("ParseVoiceOrder(%q, %s) = %s, want open_recap", tc.transcript, tc.code, r.Kind)
		}
	}
}

func TestParseWholeUtteranceIntents(t *testing.T) {
	t.Parallel()

	cases := []struct {
		transcript string
		want       parse.Kind
	}{
		{"read my order", parse.KindReadBack},
		{"what's the total", parse.KindReadTotal},
		{"clear my order", parse.KindClearDraft},
		{"undo that", parse.KindUndoLast},
		{"keep going", parse.KindContinue},
		{"never mind", parse.KindCancel},
	}
	for _, tc := range cases {
		t.Run(tc.transcript, func(t *testing.T) {
			t.Parallel()
			if r := parse.ParseVoiceOrder(tc.transcript, lang.English, parse.Options{}); r.Kind != tc.want {
				t.Errorf("got %s, want %s", r.Kind, tc.want)
			}
		})
	}
}

func TestParseRemoveItem(t *testing.T) {
	t.Parallel()

	r := parse.ParseVoiceOrder("remove the fries", lang.English, parse.Options{})
	if r.Kind != parse.KindRemoveItem || r.QueryName != "fries" {
		t.Fatalf("got %+v, want remove_item fries", r)
	}
}

func TestParseChangeQty(t *testing.T) {
	t.Parallel()

	r := parse.ParseVoiceOrder("make that 3", lang.English, parse.Options{})
	if r.Kind != parse.KindChangeQty || !r.HasQty || r.Qty != 3 {
		t.Fatalf("got %+v, want change_qty 3", r)
	}

	r = parse.ParseVoiceOrder("change the quantity of cola", lang.English, parse.Options{})
	if r.Kind != parse.KindChangeQty || r.HasQty {
		t.Fatalf("got %+v, want change_qty with missing qty", r)
	}
	if r.QueryName != "cola" {
		t.Errorf("query = %q, want cola", r.QueryName)
	}
}

func TestParseChangeQtyNotShadowedByNote(t *testing.T) {
	t.Parallel()

	// "make it spicy" is a note phrase, not a quantity change.
	r := parse.ParseVoiceOrder("make it spicy", lang.English, parse.Options{})
	if r.Kind == parse.KindChangeQty {
		t.Fatalf("note phrase classified as change_qty: %+v", r)
	}
	if r.Kind != parse.KindAddNotesLast {
		t.Errorf("kind = %s, want add_notes_last", r.Kind)
	}
}

func TestParseQtyOnly(t *testing.T) {
	t.Parallel()

	r := parse.ParseVoiceOrder("3", lang.English, parse.Options{})
	if r.Kind != parse.KindQtyOnly || r.Qty != 3 {
		t.Fatalf("got %+v, want qty_only 3", r)
	}
}

func TestParseRecapMode(t *testing.T) {
	t.Parallel()

	r := parse.ParseVoiceOrder("confirm with card", lang.English, parse.Options{RecapMode: true})
	if r.Kind != parse.KindRecapCommand || r.RecapAction != lang.RecapConfirm {
		t.Fatalf("got %+v, want recap confirm", r)
	}
	if r.Payment != lang.PaymentCard {
		t.Errorf("payment = %q, want card", r.Payment)
	}

	// Outside recap mode the same word is the generic continue intent.
	r = parse.ParseVoiceOrder("continue", lang.English, parse.Options{})
	if r.Kind != parse.KindContinue {
		t.Errorf("got %s, want continue", r.Kind)
	}
}

func TestParseProtectedPhraseNotSplit(t *testing.T) {
	t.Parallel()

	// French "en plus" contains the connector "plus" but must stay one
	// clause.
	r := parse.ParseVoiceOrder("des frites en plus", lang.French, parse.Options{})
	if r.Kind != parse.KindAddItems || len(r.Items) != 1 {
		t.Fatalf("got %+v, want a single item", r)
	}
}

func TestParseUnknown(t *testing.T) {
	t.Parallel()

	if r := parse.ParseVoiceOrder("   ", lang.English, parse.Options{}); r.Kind != parse.KindUnknown {
		t.Errorf("blank transcript: got %s, want unknown", r.Kind)
	}
}

func TestOptionIndex(t *testing.T) {
	t.Parallel()

	cases := []struct {
		reply string
		code  lang.Code
		count int
		want  int
	}{
		{"first", lang.English, 3, 1},
		{"the first one", lang.English, 3, 1},
		{"2", lang.English, 3, 2},
		{"ikinci", lang.Turkish, 3, 2},
		{"zweite", lang.German, 2, 2},
		{"cola light", lang.English, 3, 0},
		{"5", lang.English, 3, 0},
		{"", lang.English, 3, 0},
	}
	for _, tc := range cases {
		if got := parse.OptionIndex(tc.reply, tc.code, tc.count); got != tc.want {
			t.Errorf("OptionIndex(%q, %s, %d) = %d, want %d", tc.reply, tc.code, tc.count, got, tc.want)
		}
	}
}

func TestYesNo(t *testing.T) {
	t.Parallel()

	if !parse.IsYes("yes please", lang.English) || parse.IsNo("yes please", lang.English) {
		t.Error("yes please misread")
	}
	if !parse.IsNo("no thanks", lang.English) {
		t.Error("no thanks not negative")
	}
	if !parse.IsYes("evet tabii", lang.Turkish) {
		t.Error("evet not affirmative")
	}
	if parse.IsYes("burger", lang.English) || parse.IsNo("burger", lang.English) {
		t.Error("burger is neither yes nor no")
	}
}

func TestBareNumber(t *testing.T) {
	t.Parallel()

	if v, ok := parse.BareNumber("three", lang.English); !ok || v != 3 {
		t.Errorf("got %d/%v, want 3/true", v, ok)
	}
	if _, ok := parse.BareNumber("um", lang.English); ok {
		t.Error("um parsed as a number")
	}
}
