package app

import (
	"fmt"
	"strings"

	"github.com/ordervox/ordervox/internal/lang"
	"github.com/ordervox/ordervox/internal/order"
)

// replySet holds the session-level spoken lines for one language.
// Clarification prompts live in the dialog package; these cover the
// draft commands the session answers directly.
type replySet struct {
	Removed        string
	NotInDraft     string
	NothingInDraft string
	UndoDone       string
	NothingToUndo  string
	DraftCleared   string
	Continue       string
	SayAgain       string
	RecapIntro     string
	PickPayment    string
	Confirmed      string
	QtySet         string
	NotesAdded     string
	TotalIs        string
	EmptyReadBack  string
}

var replySets = map[lang.Code]replySet{
	lang.English: {
		Removed:        "Removed %s.",
		NotInDraft:     "I couldn't find that in your order.",
		NothingInDraft: "Your order is empty.",
		UndoDone:       "Okay, I undid that.",
		NothingToUndo:  "There's nothing to undo.",
		DraftCleared:   "Okay, I cleared your order.",
		Continue:       "Go ahead.",
		SayAgain:       "Sorry, I didn't catch that.",
		RecapIntro:     "Here's your order: %s. Confirm, change something, or cancel?",
		PickPayment:    "How would you like to pay? We take %s.",
		Confirmed:      "Thank you, your order is confirmed.",
		QtySet:         "Okay, %d %s.",
		NotesAdded:     "Noted.",
		TotalIs:        "Your total is %.2f.",
		EmptyReadBack:  "You haven't ordered anything yet.",
	},
	lang.Turkish: {
		Removed:        "%s cikardim.",
		NotInDraft:     "Bunu siparisinizde bulamadim.",
		NothingInDraft: "Siparisiniz bos.",
		UndoDone:       "Tamam, geri aldim.",
		NothingToUndo:  "Geri alinacak bir sey yok.",
		DraftCleared:   "Tamam, siparisinizi sildim.",
		Continue:       "Buyurun.",
		SayAgain:       "Kusura bakmayin, anlayamadim.",
		RecapIntro:     "Siparisiniz: %s. Onayliyor musunuz, degisiklik mi, iptal mi?",
		PickPayment:    "Nasil odemek istersiniz? %s gecerli.",
		Confirmed:      "Tesekkurler, siparisiniz onaylandi.",
		QtySet:         "Tamam, %d %s.",
		NotesAdded:     "Not aldim.",
		TotalIs:        "Toplam %.2f.",
		EmptyReadBack:  "Henuz bir sey siparis etmediniz.",
	},
	lang.German: {
		Removed:        "%s entfernt.",
		NotInDraft:     "Das habe ich in Ihrer Bestellung nicht gefunden.",
		NothingInDraft: "Ihre Bestellung ist leer.",
		UndoDone:       "In Ordnung, rueckgaengig gemacht.",
		NothingToUndo:  "Es gibt nichts rueckgaengig zu machen.",
		DraftCleared:   "In Ordnung, Bestellung geloescht.",
		Continue:       "Bitte weiter.",
		SayAgain:       "Das habe ich leider nicht verstanden.",
		RecapIntro:     "Ihre Bestellung: %s. Bestaetigen, aendern oder abbrechen?",
		PickPayment:    "Wie moechten Sie zahlen? Wir nehmen %s.",
		Confirmed:      "Danke, Ihre Bestellung ist bestaetigt.",
		QtySet:         "In Ordnung, %d %s.",
		NotesAdded:     "Notiert.",
		TotalIs:        "Das macht %.2f.",
		EmptyReadBack:  "Sie haben noch nichts bestellt.",
	},
	lang.French: {
		Removed:        "J'ai retire %s.",
		NotInDraft:     "Je n'ai pas trouve cela dans votre commande.",
		NothingInDraft: "Votre commande est vide.",
		UndoDone:       "D'accord, j'ai annule la derniere action.",
		NothingToUndo:  "Il n'y a rien a annuler.",
		DraftCleared:   "D'accord, j'ai vide votre commande.",
		Continue:       "Je vous ecoute.",
		SayAgain:       "Desole, je n'ai pas compris.",
		RecapIntro:     "Votre commande : %s. Vous confirmez, vous modifiez ou vous annulez ?",
		PickPayment:    "Comment souhaitez-vous payer ? Nous acceptons %s.",
		Confirmed:      "Merci, votre commande est confirmee.",
		QtySet:         "D'accord, %d %s.",
		NotesAdded:     "C'est note.",
		TotalIs:        "Le total est de %.2f.",
		EmptyReadBack:  "Vous n'avez encore rien commande.",
	},
}

func repliesFor(code lang.Code) replySet {
	if rs, ok := replySets[lang.Coerce(code)]; ok {
		return rs
	}
	return replySets[lang.English]
}

// SpeakSummary renders the draft lines as one spoken sentence, e.g.
// "2 x Coca Cola, 1 x French Fries (no onion)".
func SpeakSummary(s order.Summary) string {
	parts := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		line := fmt.Sprintf("%d x %s", it.Qty, it.Name)
		if len(it.Notes) > 0 {
			line += " (" + strings.Join(it.Notes, ", ") + ")"
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, ", ")
}
