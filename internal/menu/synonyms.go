package menu

import "github.com/ordervox/ordervox/internal/lang"

// synonymGroups holds cross-language token groups: any token of a group
// spoken by the customer matches any catalog name carrying another
// token of the same group. Tokens are normalized single words.
//
// The table is intentionally small and menu-oriented; it is not a
// dictionary. New groups earn their place through real transcripts.
var synonymGroups = [][]string{
	{"cola", "coke", "kola"},
	{"fries", "patates", "frites", "pommes", "chips"},
	{"burger", "hamburger"},
	{"cheeseburger", "cizburger"},
	{"chicken", "tavuk", "poulet", "hahnchen", "huhn"},
	{"water", "su", "wasser", "eau"},
	{"sparkling", "soda", "maden"},
	{"tea", "cay", "the", "tee"},
	{"coffee", "kahve", "cafe", "kaffee"},
	{"kebab", "kebap"},
	{"doner", "doener"},
	{"wrap", "durum"},
	{"meatball", "kofte", "boulette"},
	{"juice", "suyu", "jus", "saft"},
	{"salad", "salata", "salat", "salade"},
	{"soup", "corba", "suppe", "soupe"},
	{"dessert", "tatli", "nachtisch"},
	{"ice", "buz", "eis", "glace"},
	{"cream", "krem", "creme", "sahne"},
	{"bread", "ekmek", "brot", "pain"},
	{"rice", "pilav", "reis", "riz"},
	{"lamb", "kuzu", "agneau"},
	{"beef", "dana", "rind", "boeuf"},
	{"fish", "balik", "fisch", "poisson"},
}

// tokenToGroup maps each synonym token to the group ids it belongs to.
var tokenToGroup = func() map[string][]int {
	idx := make(map[string][]int)
	for gid, group := range synonymGroups {
		for _, tok := range group {
			idx[tok] = append(idx[tok], gid)
		}
	}
	return idx
}()

// expandTokens widens tokens through the synonym table: the result
// contains every input token plus all tokens sharing a synonym group
// with one of them.
func expandTokens(tokens []string) lang.WordSet {
	out := make(lang.WordSet, len(tokens)*2)
	for _, tok := range tokens {
		out[tok] = struct{}{}
		for _, gid := range tokenToGroup[tok] {
			for _, syn := range synonymGroups[gid] {
				out[syn] = struct{}{}
			}
		}
	}
	return out
}
