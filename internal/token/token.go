// Package token segments field text into the typed token stream the game
// renders. The scanner is a single left-to-right pass with four branches
// (letter/digit run, lone newline, other whitespace run, everything-else run),
// so every input character lands in exactly one token and the original text
// can always be rebuilt from the stream.
package token

import (
	"encoding/json"
	"strconv"
	"unicode"

	"github.com/lexiguess/lexiguess/internal/norm"
)

// Kind discriminates the two token variants.
type Kind int

const (
	Word Kind = iota
	Punct
)

// Token is one unit of display text. Word tokens carry only their index and
// length so the masked view never leaks the hidden text; the surface form
// lives in the parallel Word list. Punct tokens keep their literal text,
// newlines included, for verbatim rendering.
type Token struct {
	Kind   Kind
	ID     string
	Index  int    // word tokens: zero-based index within the field
	Length int    // word tokens: display length in runes
	Text   string // punct tokens: literal text
}

// MarshalJSON emits the variant-specific wire shape:
// {"type":"word","id":...,"index":n,"length":n} or
// {"type":"punct","id":...,"text":...}.
func (t Token) MarshalJSON() ([]byte, error) {
	if t.Kind == Word {
		return json.Marshal(struct {
			Type   string `json:"type"`
			ID     string `json:"id"`
			Index  int    `json:"index"`
			Length int    `json:"length"`
		}{"word", t.ID, t.Index, t.Length})
	}
	return json.Marshal(struct {
		Type string `json:"type"`
		ID   string `json:"id"`
		Text string `json:"text"`
	}{"punct", t.ID, t.Text})
}

// WordInfo is the searchable side of a word token: its canonical form, its
// original surface text and its index within the field.
type WordInfo struct {
	Normalized string
	Display    string
	Index      int
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Tokenize splits text into its token stream and the parallel word list.
// Token ids are <prefix>w<n> / <prefix>p<n> over a shared counter; they are
// stable for the lifetime of the returned slices. Word indices are dense and
// zero-based within this call.
func Tokenize(text, prefix string) ([]Token, []WordInfo) {
	runes := []rune(text)
	tokens := make([]Token, 0, len(runes)/4)
	var words []WordInfo

	wordIndex := 0
	tokenID := 0
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case isWordRune(r):
			j := i
			for j < len(runes) && isWordRune(runes[j]) {
				j++
			}
			display := string(runes[i:j])
			tokens = append(tokens, Token{
				Kind:   Word,
				ID:     prefix + "w" + strconv.Itoa(tokenID),
				Index:  wordIndex,
				Length: j - i,
			})
			words = append(words, WordInfo{
				Normalized: norm.Word(display),
				Display:    display,
				Index:      wordIndex,
			})
			wordIndex++
			tokenID++
			i = j
		case r == '\n':
			// A newline is always its own token so rendering can turn it
			// into a line break instead of collapsing it with spaces.
			tokens = append(tokens, punct(prefix, &tokenID, "\n"))
			i++
		case unicode.IsSpace(r):
			j := i
			for j < len(runes) && runes[j] != '\n' && unicode.IsSpace(runes[j]) {
				j++
			}
			tokens = append(tokens, punct(prefix, &tokenID, string(runes[i:j])))
			i = j
		default:
			j := i
			for j < len(runes) && !isWordRune(runes[j]) && !unicode.IsSpace(runes[j]) {
				j++
			}
			tokens = append(tokens, punct(prefix, &tokenID, string(runes[i:j])))
			i = j
		}
	}
	return tokens, words
}

func punct(prefix string, tokenID *int, text string) Token {
	t := Token{
		Kind: Punct,
		ID:   prefix + "p" + strconv.Itoa(*tokenID),
		Text: text,
	}
	*tokenID++
	return t
}
