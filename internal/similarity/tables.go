package similarity

// Static lookup tables for the weighted distance and the semantic check.
// They are data, not logic: swapping them out (another keyboard layout,
// another language's synonym table) must not touch the algorithms.

// phoneticGroups lists characters that sound alike in French; substituting
// one for another inside a group costs less than an arbitrary substitution.
var phoneticGroups = []string{
	"scz", // sibilants
	"bp",  // bilabial stops
	"dt",  // alveolar stops
	"gkq", // velar stops
	"vf",  // labiodental fricatives
	"ea",  // open vowels
	"iy",  // close front vowels
	"ou",  // back vowels
	"mn",  // nasals
}

// phoneticGroupOf maps each character to the index of its group, built once
// at package init.
var phoneticGroupOf = func() map[rune]int {
	m := make(map[rune]int)
	for i, group := range phoneticGroups {
		for _, r := range group {
			m[r] = i
		}
	}
	return m
}()

// keyboardNeighbors is the physical adjacency of an AZERTY layout, the
// keyboard the game's audience types on.
var keyboardNeighbors = map[rune]string{
	'a': "zqs",
	'z': "aesq",
	'e': "zrds",
	'r': "etfd",
	't': "rygf",
	'y': "tuhg",
	'u': "yijh",
	'i': "uokj",
	'o': "iplk",
	'p': "oml",
	'q': "aswz",
	's': "qdzawe",
	'd': "sfer",
	'f': "dgrt",
	'g': "fhty",
	'h': "gjyu",
	'j': "hkui",
	'k': "jlio",
	'l': "kmop",
	'm': "lp",
	'w': "qsx",
	'x': "wc",
	'c': "xv",
	'v': "cb",
	'b': "vn",
	'n': "b",
}

// semanticGroups are small clusters of synonyms and closely related words,
// keyed on normalized forms. Two words co-located in any group are treated
// as semantically similar.
var semanticGroups = [][]string{
	// numbers
	{"un", "une", "premier", "premiere"},
	{"deux", "deuxieme", "second", "seconde"},
	{"trois", "troisieme"},

	// common words
	{"grand", "grande", "gros", "grosse", "enorme", "vaste", "immense"},
	{"petit", "petite", "peu", "minuscule"},
	{"bon", "bonne", "bien", "meilleur", "meilleure"},
	{"mauvais", "mauvaise", "mal"},
	{"homme", "humain", "personne", "individu", "garcon"},
	{"femme", "dame", "personne", "fille"},
	{"ville", "cite", "commune", "metropole", "urbain"},
	{"pays", "nation", "etat", "territoire"},
	{"roi", "monarque", "souverain"},
	{"guerre", "conflit", "combat", "bataille"},
	{"paix", "armistice", "treve"},

	// time
	{"jour", "journee"},
	{"an", "annee", "ans"},
	{"siecle", "centenaire"},

	// directions
	{"nord", "septentrional"},
	{"sud", "meridional"},
	{"est", "oriental"},
	{"ouest", "occidental"},
}

// semanticGroupsOf maps each member to the indices of the groups it belongs
// to; a word such as "personne" appears in more than one group.
var semanticGroupsOf = func() map[string][]int {
	m := make(map[string][]int)
	for i, group := range semanticGroups {
		for _, w := range group {
			m[w] = append(m[w], i)
		}
	}
	return m
}()
