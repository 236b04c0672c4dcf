package dialog

import "github.com/ordervox/ordervox/internal/lang"

// promptSet holds the spoken follow-up texts for one language. The
// gateway renders options on screen; these strings are what gets read
// out loud.
type promptSet struct {
	WhichOne      string
	DidYouMean    string
	NotFound      string
	HowMany       string
	ConfirmCancel string
	SayItems      string
	SayAgain      string
	Kept          string
}

var promptSets = map[lang.Code]promptSet{
	lang.English: {
		WhichOne:      "Which one did you mean?",
		DidYouMean:    "I couldn't find that. Did you mean one of these?",
		NotFound:      "I couldn't find that on the menu.",
		HowMany:       "How many would you like?",
		ConfirmCancel: "Cancel the whole order? Say yes or no.",
		SayItems:      "Got it. What should I add?",
		SayAgain:      "Sorry, I didn't catch that. Which one?",
		Kept:          "Okay, keeping your order.",
	},
	lang.Turkish: {
		WhichOne:      "Hangisini istediniz?",
		DidYouMean:    "Bunu bulamadim. Sunlardan biri miydi?",
		NotFound:      "Bunu menude bulamadim.",
		HowMany:       "Kac adet olsun?",
		ConfirmCancel: "Tum siparis iptal edilsin mi? Evet ya da hayir deyin.",
		SayItems:      "Tamam. Ne ekleyeyim?",
		SayAgain:      "Anlayamadim, hangisi?",
		Kept:          "Tamam, siparisiniz duruyor.",
	},
	lang.German: {
		WhichOne:      "Welches davon meinten Sie?",
		DidYouMean:    "Das habe ich nicht gefunden. Meinten Sie eines davon?",
		NotFound:      "Das steht nicht auf der Karte.",
		HowMany:       "Wie viele sollen es sein?",
		ConfirmCancel: "Die ganze Bestellung abbrechen? Sagen Sie ja oder nein.",
		SayItems:      "Alles klar. Was soll ich hinzufugen?",
		SayAgain:      "Das habe ich nicht verstanden. Welches?",
		Kept:          "In Ordnung, die Bestellung bleibt.",
	},
	lang.French: {
		WhichOne:      "Lequel vouliez vous dire?",
		DidYouMean:    "Je n'ai pas trouve. Etait ce l'un de ceux ci?",
		NotFound:      "Je ne trouve pas ca sur la carte.",
		HowMany:       "Combien en voulez vous?",
		ConfirmCancel: "Annuler toute la commande? Dites oui ou non.",
		SayItems:      "D'accord. Qu'est ce que j'ajoute?",
		SayAgain:      "Je n'ai pas compris. Lequel?",
		Kept:          "D'accord, la commande est conservee.",
	},
}

func promptsFor(code lang.Code) promptSet {
	if p, ok := promptSets[lang.Coerce(code)]; ok {
		return p
	}
	return promptSets[lang.English]
}
