package lang

// Pack bundles every per-language lookup table the parsing layers need.
// All surface forms and word lists are stored pre-normalized; see
// [Normalize] for the canonical form.
type Pack struct {
	// Groups maps group-context phrases ("for me") to group labels.
	Groups []Phrase

	// Notes maps note phrases ("no onion") to canonical note text.
	Notes []Phrase

	// Intents holds whole-utterance intent phrases, tested in
	// [IntentPrecedence] order.
	Intents map[Intent][]string

	// Recap holds recap-scope command phrases (confirm/clear/continue/
	// cancel), which outrank generic intents while a recap is open.
	Recap map[RecapAction][]string

	// Payments maps payment hints to the phrases that select them.
	Payments map[PaymentHint][]string

	// YesWords and NoWords answer confirmation questions.
	YesWords WordSet
	NoWords  WordSet

	// Connectors split a transcript into item clauses.
	Connectors WordSet

	// ProtectedPhrases are fixed expressions that contain a connector
	// word but must never be split on it ("en plus").
	ProtectedPhrases []string

	// Stopwords are filler words that can never start an item name.
	Stopwords WordSet

	// Fillers are conversational words that disarm the English
	// homophone-quantity heuristic when they precede the candidate.
	Fillers WordSet

	// QuantityNoise are counting words stripped before quantity
	// extraction ("2 adet ayran", "three pieces of chicken").
	QuantityNoise WordSet

	// CurrencyWords mark a preceding number as a price, not a quantity.
	CurrencyWords WordSet

	// NumberWords maps spelled-out numbers to their value.
	NumberWords map[string]int

	// IndexWords map ordinal replies ("first", "ikinci") to a 1-based
	// option position.
	IndexWords map[string]int
}

// packs holds the shipped language packs, keyed by language code.
var packs = map[Code]*Pack{
	English: englishPack,
	Turkish: turkishPack,
	German:  germanPack,
	French:  frenchPack,
}

// PackFor returns the phrase pack for code, falling back to English for
// unknown codes. The returned pack is shared and read-only.
func PackFor(code Code) *Pack {
	return packs[Coerce(code)]
}

var englishPack = &Pack{
	Groups: []Phrase{
		{Canonical: "Me", Surface: []string{"for me", "for myself", "mine is"}},
		{Canonical: "Her", Surface: []string{"for her"}},
		{Canonical: "Him", Surface: []string{"for him"}},
		{Canonical: "Kids", Surface: []string{"for the kids", "for kids", "for the children"}},
		{Canonical: "Table", Surface: []string{"for the table", "for everyone", "to share"}},
	},
	Notes: []Phrase{
		{Canonical: "no onion", Surface: []string{"no onion", "no onions", "without onion", "without onions", "hold the onion", "hold the onions"}},
		{Canonical: "no ice", Surface: []string{"no ice", "without ice"}},
		{Canonical: "no ketchup", Surface: []string{"no ketchup", "without ketchup"}},
		{Canonical: "no mayo", Surface: []string{"no mayo", "no mayonnaise", "without mayo"}},
		{Canonical: "no salt", Surface: []string{"no salt", "without salt"}},
		{Canonical: "no cheese", Surface: []string{"no cheese", "without cheese"}},
		{Canonical: "no sauce", Surface: []string{"no sauce", "without sauce"}},
		{Canonical: "extra sauce", Surface: []string{"extra sauce", "with extra sauce"}},
		{Canonical: "extra cheese", Surface: []string{"extra cheese", "with extra cheese"}},
		{Canonical: "extra spicy", Surface: []string{"extra spicy", "very spicy", "make it spicy"}},
		{Canonical: "not spicy", Surface: []string{"not spicy", "mild please", "no spice"}},
		{Canonical: "well done", Surface: []string{"well done", "well cooked"}},
	},
	Intents: map[Intent][]string{
		IntentFinish:    {"thats all", "thats it", "that is all", "thatll be all", "im done", "complete my order", "checkout", "check out", "finish order", "finish the order", "im ready to pay"},
		IntentReadBack:  {"read my order", "read it back", "read back", "whats my order", "what did i order", "repeat my order"},
		IntentReadTotal: {"whats the total", "how much is it", "how much is that", "read the total", "whats my total"},
		IntentClear:     {"clear my order", "clear the order", "clear everything", "start over", "start again", "empty my order"},
		IntentUndo:      {"undo", "undo that", "undo last", "take that back", "scratch that"},
		IntentChangeQty: {"change the quantity", "change quantity", "make that", "make it"},
		IntentRemove:    {"remove", "delete", "take off", "take out"},
		IntentContinue:  {"continue", "keep going", "go on", "keep ordering", "not done yet"},
		IntentCancel:    {"cancel", "cancel the order", "cancel my order", "never mind", "forget it"},
	},
	Recap: map[RecapAction][]string{
		RecapConfirm:  {"confirm", "confirm the order", "confirm order", "yes confirm", "place the order", "send it", "submit"},
		RecapClear:    {"clear", "clear it", "empty it", "start over"},
		RecapContinue: {"continue", "go back", "keep ordering", "add more"},
		RecapCancel:   {"cancel", "never mind", "forget it"},
	},
	Payments: map[PaymentHint][]string{
		PaymentCard: {"card", "by card", "credit card", "debit card", "with card"},
		PaymentCash: {"cash", "by cash", "with cash", "in cash"},
	},
	YesWords:         newWordSet("yes", "yeah", "yep", "sure", "correct", "right", "ok", "okay"),
	NoWords:          newWordSet("no", "nope", "nah", "dont", "negative"),
	Connectors:       newWordSet("and", "plus", "also", "then"),
	ProtectedPhrases: nil,
	Stopwords:        newWordSet("a", "an", "the", "i", "id", "ill", "we", "wed", "want", "wants", "would", "like", "get", "have", "me", "please", "some", "of", "to", "can", "could", "my", "order", "gimme", "give"),
	Fillers:          newWordSet("thanks", "thank", "cheers", "ok", "okay", "well", "um", "uh", "hmm"),
	QuantityNoise:    newWordSet("x", "times", "piece", "pieces", "orders", "portion", "portions", "cups", "cup"),
	CurrencyWords:    newWordSet("tl", "try", "lira", "liras", "usd", "dollar", "dollars", "buck", "bucks", "eur", "euro", "euros", "cent", "cents", "pound", "pounds", "quid"),
	NumberWords: map[string]int{
		"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
		"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
		"couple": 2, "dozen": 12,
	},
	IndexWords: map[string]int{
		"first": 1, "second": 2, "third": 3,
		"1st": 1, "2nd": 2, "3rd": 3,
		"former": 1, "latter": 2,
	},
}

var turkishPack = &Pack{
	Groups: []Phrase{
		{Canonical: "Me", Surface: []string{"bana", "benim icin", "benimki"}},
		{Canonical: "Her", Surface: []string{"ona", "onun icin"}},
		{Canonical: "Kids", Surface: []string{"cocuklara", "cocuklar icin"}},
		{Canonical: "Table", Surface: []string{"masaya", "masa icin", "herkese"}},
	},
	Notes: []Phrase{
		{Canonical: "no onion", Surface: []string{"sogansiz", "sogan olmasin", "sogan istemiyorum"}},
		{Canonical: "no ice", Surface: []string{"buzsuz", "buz olmasin"}},
		{Canonical: "no ketchup", Surface: []string{"ketcapsiz", "ketcap olmasin"}},
		{Canonical: "no mayo", Surface: []string{"mayonezsiz", "mayonez olmasin"}},
		{Canonical: "no salt", Surface: []string{"tuzsuz", "az tuzlu"}},
		{Canonical: "no cheese", Surface: []string{"peynirsiz", "kasarsiz"}},
		{Canonical: "extra sauce", Surface: []string{"bol soslu", "ekstra sos", "sos ekle"}},
		{Canonical: "extra cheese", Surface: []string{"ekstra peynir", "bol kasarli"}},
		{Canonical: "extra spicy", Surface: []string{"aci olsun", "bol acili", "ekstra aci"}},
		{Canonical: "not spicy", Surface: []string{"acisiz", "aci olmasin"}},
		{Canonical: "well done", Surface: []string{"iyi pismis", "cok pismis"}},
	},
	Intents: map[Intent][]string{
		IntentFinish:    {"bu kadar", "hepsi bu", "tamamdir", "siparisi tamamla", "siparisi bitir", "odemeye gec", "hesabi al"},
		IntentReadBack:  {"siparisimi oku", "siparisimi soyle", "ne soyledim", "neler aldim", "tekrar et"},
		IntentReadTotal: {"toplam ne kadar", "ne kadar tuttu", "hesap ne kadar", "toplami soyle"},
		IntentClear:     {"siparisi temizle", "hepsini sil", "bastan basla", "sepeti bosalt"},
		IntentUndo:      {"geri al", "son islemi geri al", "onu iptal et"},
		IntentChangeQty: {"adedini degistir", "adet degistir", "miktari degistir"},
		IntentRemove:    {"cikar", "sil", "kaldir", "cikart"},
		IntentContinue:  {"devam", "devam et", "siparise devam", "daha bitmedi"},
		IntentCancel:    {"iptal", "iptal et", "siparisi iptal et", "vazgectim", "bosver"},
	},
	Recap: map[RecapAction][]string{
		RecapConfirm:  {"onayla", "onayliyorum", "siparisi onayla", "gonder", "tamam onayla"},
		RecapClear:    {"temizle", "bosalt", "bastan basla"},
		RecapContinue: {"devam", "devam et", "geri don", "ekleme yapacagim"},
		RecapCancel:   {"iptal", "vazgectim", "bosver"},
	},
	Payments: map[PaymentHint][]string{
		PaymentCard: {"kart", "kartla", "kart ile", "kredi karti", "kredi kartiyla"},
		PaymentCash: {"nakit", "nakitle", "nakit ile", "pesin"},
	},
	YesWords:         newWordSet("evet", "tamam", "olur", "aynen", "dogru", "tabii"),
	NoWords:          newWordSet("hayir", "yok", "olmaz", "istemiyorum"),
	Connectors:       newWordSet("ve", "ile", "birde", "ayrica", "sonra"),
	ProtectedPhrases: nil,
	Stopwords:        newWordSet("bir", "tane", "adet", "lutfen", "rica", "istiyorum", "alayim", "alabilir", "miyim", "olsun", "de", "da", "sey"),
	Fillers:          newWordSet("tesekkurler", "sagol", "tamam", "peki", "sey", "yani"),
	QuantityNoise:    newWordSet("adet", "tane", "porsiyon", "kere", "kez"),
	CurrencyWords:    newWordSet("tl", "lira", "kurus", "dolar", "euro"),
	NumberWords: map[string]int{
		"bir": 1, "iki": 2, "uc": 3, "dort": 4, "bes": 5,
		"alti": 6, "yedi": 7, "sekiz": 8, "dokuz": 9, "on": 10,
		"birkac": 2,
	},
	IndexWords: map[string]int{
		"ilk": 1, "birinci": 1, "ikinci": 2, "ucuncu": 3,
		"ilki": 1, "ikincisi": 2, "ucuncusu": 3,
	},
}

var germanPack = &Pack{
	Groups: []Phrase{
		{Canonical: "Me", Surface: []string{"fur mich", "meins ist"}},
		{Canonical: "Her", Surface: []string{"fur sie"}},
		{Canonical: "Him", Surface: []string{"fur ihn"}},
		{Canonical: "Kids", Surface: []string{"fur die kinder", "fur kinder"}},
		{Canonical: "Table", Surface: []string{"fur den tisch", "fur alle", "zum teilen"}},
	},
	Notes: []Phrase{
		{Canonical: "no onion", Surface: []string{"ohne zwiebel", "ohne zwiebeln", "keine zwiebeln"}},
		{Canonical: "no ice", Surface: []string{"ohne eis"}},
		{Canonical: "no ketchup", Surface: []string{"ohne ketchup"}},
		{Canonical: "no mayo", Surface: []string{"ohne mayo", "ohne mayonnaise"}},
		{Canonical: "no salt", Surface: []string{"ohne salz", "wenig salz"}},
		{Canonical: "no cheese", Surface: []string{"ohne kase"}},
		{Canonical: "extra sauce", Surface: []string{"extra sosse", "mit extra sosse", "viel sosse"}},
		{Canonical: "extra cheese", Surface: []string{"extra kase", "mit extra kase"}},
		{Canonical: "extra spicy", Surface: []string{"extra scharf", "sehr scharf"}},
		{Canonical: "not spicy", Surface: []string{"nicht scharf", "mild bitte"}},
		{Canonical: "well done", Surface: []string{"gut durch", "durchgebraten"}},
	},
	Intents: map[Intent][]string{
		IntentFinish:    {"das wars", "das ware alles", "das ist alles", "fertig", "bestellung abschliessen", "zur kasse", "ich mochte zahlen"},
		IntentReadBack:  {"lies meine bestellung", "was habe ich bestellt", "bestellung vorlesen", "wiederhole die bestellung"},
		IntentReadTotal: {"was macht das", "wie viel kostet das", "was ist die summe", "gesamtbetrag bitte"},
		IntentClear:     {"bestellung leeren", "alles loschen", "von vorne anfangen", "neu anfangen"},
		IntentUndo:      {"ruckgangig", "mach das ruckgangig", "letztes ruckgangig"},
		IntentChangeQty: {"menge andern", "anzahl andern", "mach daraus"},
		IntentRemove:    {"entferne", "losche", "nimm raus", "weg mit"},
		IntentContinue:  {"weiter", "weiter bestellen", "noch nicht fertig", "mach weiter"},
		IntentCancel:    {"abbrechen", "bestellung abbrechen", "vergiss es", "schon gut"},
	},
	Recap: map[RecapAction][]string{
		RecapConfirm:  {"bestatigen", "bestellung bestatigen", "abschicken", "ja bestatigen"},
		RecapClear:    {"leeren", "alles loschen", "von vorne"},
		RecapContinue: {"weiter", "zuruck", "noch etwas bestellen"},
		RecapCancel:   {"abbrechen", "vergiss es"},
	},
	Payments: map[PaymentHint][]string{
		PaymentCard: {"karte", "mit karte", "kreditkarte", "ec karte"},
		PaymentCash: {"bar", "mit bargeld", "bargeld", "in bar"},
	},
	YesWords:         newWordSet("ja", "jawohl", "genau", "richtig", "klar", "gern"),
	NoWords:          newWordSet("nein", "ne", "nicht", "niemals"),
	Connectors:       newWordSet("und", "plus", "dazu", "ausserdem", "dann"),
	ProtectedPhrases: nil,
	Stopwords:        newWordSet("ein", "eine", "einen", "der", "die", "das", "ich", "wir", "hatte", "mochte", "gerne", "bitte", "nehme", "will", "noch", "mal", "mir"),
	Fillers:          newWordSet("danke", "dankeschon", "okay", "gut", "also", "ahm"),
	QuantityNoise:    newWordSet("stuck", "mal", "portion", "portionen", "x"),
	CurrencyWords:    newWordSet("euro", "eur", "cent", "dollar", "tl"),
	NumberWords: map[string]int{
		"eins": 1, "ein": 1, "eine": 1, "einen": 1,
		"zwei": 2, "zwo": 2, "drei": 3, "vier": 4, "funf": 5,
		"sechs": 6, "sieben": 7, "acht": 8, "neun": 9, "zehn": 10,
	},
	IndexWords: map[string]int{
		"erste": 1, "erstes": 1, "zweite": 2, "zweites": 2, "dritte": 3, "drittes": 3,
	},
}

var frenchPack = &Pack{
	Groups: []Phrase{
		{Canonical: "Me", Surface: []string{"pour moi", "le mien"}},
		{Canonical: "Her", Surface: []string{"pour elle"}},
		{Canonical: "Him", Surface: []string{"pour lui"}},
		{Canonical: "Kids", Surface: []string{"pour les enfants", "pour enfants"}},
		{Canonical: "Table", Surface: []string{"pour la table", "pour tout le monde", "a partager"}},
	},
	Notes: []Phrase{
		{Canonical: "no onion", Surface: []string{"sans oignon", "sans oignons", "pas doignon"}},
		{Canonical: "no ice", Surface: []string{"sans glace", "sans glacons"}},
		{Canonical: "no ketchup", Surface: []string{"sans ketchup"}},
		{Canonical: "no mayo", Surface: []string{"sans mayo", "sans mayonnaise"}},
		{Canonical: "no salt", Surface: []string{"sans sel", "peu sale"}},
		{Canonical: "no cheese", Surface: []string{"sans fromage"}},
		{Canonical: "extra sauce", Surface: []string{"avec supplement sauce", "beaucoup de sauce", "extra sauce"}},
		{Canonical: "extra cheese", Surface: []string{"avec supplement fromage", "extra fromage"}},
		{Canonical: "extra spicy", Surface: []string{"tres epice", "bien epice"}},
		{Canonical: "not spicy", Surface: []string{"pas epice", "doux sil vous plait"}},
		{Canonical: "well done", Surface: []string{"bien cuit", "tres cuit"}},
	},
	Intents: map[Intent][]string{
		IntentFinish:    {"cest tout", "ce sera tout", "jai fini", "terminer la commande", "finaliser la commande", "je veux payer"},
		IntentReadBack:  {"lis ma commande", "quest ce que jai commande", "repete ma commande", "relis la commande"},
		IntentReadTotal: {"ca fait combien", "quel est le total", "combien je dois", "le total sil vous plait"},
		IntentClear:     {"vide ma commande", "efface tout", "recommencer", "tout effacer"},
		IntentUndo:      {"annule ca", "annule le dernier", "reviens en arriere"},
		IntentChangeQty: {"change la quantite", "modifie la quantite", "mets en"},
		IntentRemove:    {"enleve", "retire", "supprime"},
		IntentContinue:  {"continue", "je continue", "pas fini", "encore des choses"},
		IntentCancel:    {"annuler", "annuler la commande", "laisse tomber", "oublie"},
	},
	Recap: map[RecapAction][]string{
		RecapConfirm:  {"confirmer", "confirme la commande", "je confirme", "valider", "envoyer"},
		RecapClear:    {"vider", "tout effacer", "recommencer"},
		RecapContinue: {"continuer", "revenir", "ajouter autre chose"},
		RecapCancel:   {"annuler", "laisse tomber"},
	},
	Payments: map[PaymentHint][]string{
		PaymentCard: {"carte", "par carte", "carte bancaire", "carte bleue"},
		PaymentCash: {"especes", "en especes", "liquide", "en liquide", "cash"},
	},
	YesWords:         newWordSet("oui", "ouais", "daccord", "exact", "parfait"),
	NoWords:          newWordSet("non", "pas", "jamais"),
	Connectors:       newWordSet("et", "plus", "puis", "ensuite", "avec"),
	ProtectedPhrases: []string{"en plus"},
	Stopwords:        newWordSet("un", "une", "le", "la", "les", "je", "jaimerais", "voudrais", "veux", "prends", "prendrai", "sil", "vous", "plait", "svp", "du", "de", "des", "moi"),
	Fillers:          newWordSet("merci", "daccord", "bon", "alors", "euh"),
	QuantityNoise:    newWordSet("fois", "portion", "portions", "pieces", "piece"),
	CurrencyWords:    newWordSet("euro", "euros", "eur", "centime", "centimes", "dollar", "dollars"),
	NumberWords: map[string]int{
		"un": 1, "une": 1, "deux": 2, "trois": 3, "quatre": 4, "cinq": 5,
		"six": 6, "sept": 7, "huit": 8, "neuf": 9, "dix": 10,
	},
	IndexWords: map[string]int{
		"premier": 1, "premiere": 1, "deuxieme": 2, "second": 2, "seconde": 2, "troisieme": 3,
	},
}
