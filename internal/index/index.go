// Package index builds the per-day searchable form of an article: the masked
// token stream for rendering and the reverse index from normalized word to
// every position where it occurs. A built snapshot is immutable; the day
// rolling over replaces it wholesale.
package index

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/lexiguess/lexiguess/internal/article"
	"github.com/lexiguess/lexiguess/internal/token"
)

// TitleSection tags positions that live in the article title, which sits
// outside the numbered sections.
const TitleSection = -1

// Part names within a section.
const (
	PartTitle   = "title"
	PartContent = "content"
)

// Position locates one word occurrence: which field it is in and which word
// slot it occupies, plus the original surface form found there.
type Position struct {
	Section   int    `json:"section"` // TitleSection for the article title
	Part      string `json:"part"`
	WordIndex int    `json:"wordIndex"`
	Display   string `json:"display"`
}

// Key returns the reveal-map key for this position, the same
// section:part:wordIndex format the clients persist.
func (p Position) Key() string {
	return fmt.Sprintf("%d:%s:%d", p.Section, p.Part, p.WordIndex)
}

// MaskedSection is the renderable token view of one section.
type MaskedSection struct {
	TitleTokens   []token.Token `json:"titleTokens"`
	ContentTokens []token.Token `json:"contentTokens"`
}

// MaskedArticle is the full masked view sent to clients: token streams only,
// no word text.
type MaskedArticle struct {
	TitleTokens []token.Token   `json:"articleTitleTokens"`
	Sections    []MaskedSection `json:"sections"`
	TotalWords  int             `json:"totalWords"`
	Date        string          `json:"date"`
}

// Snapshot is the read-only index for one calendar day. All fields are
// populated at build time and never mutated afterwards; concurrent readers
// share it freely.
type Snapshot struct {
	Masked      MaskedArticle
	TitleWords  []string // normalized article-title words, win condition
	TotalWords  int
	DateKey     string
	Fingerprint uint64 // xxhash of the raw article, cache identity

	reverse map[string][]Position
	keys    []string // reverse-index keys in first-insertion (document) order
}

// Lookup returns the positions of a normalized word, in document order, or
// nil when the word does not occur.
func (s *Snapshot) Lookup(normalized string) []Position {
	return s.reverse[normalized]
}

// Keys returns the reverse-index keys in first-insertion order. Callers must
// not modify the returned slice.
func (s *Snapshot) Keys() []string {
	return s.keys
}

// AllPositions enumerates every bucket of the reverse index.
func (s *Snapshot) AllPositions() []Position {
	out := make([]Position, 0, s.TotalWords)
	for _, k := range s.keys {
		out = append(out, s.reverse[k]...)
	}
	return out
}

// DateKey formats t as the UTC calendar-day cache key.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Build constructs the snapshot for one article and day. Field order is
// fixed: article title, then per section its title and content, which makes
// every reverse-index bucket document-ordered.
func Build(art article.RawArticle, dateKey string) *Snapshot {
	s := &Snapshot{
		DateKey:     dateKey,
		Fingerprint: fingerprint(art),
		reverse:     make(map[string][]Position),
	}

	titleTokens, titleWords := token.Tokenize(art.Title, "at-")
	s.Masked.TitleTokens = titleTokens
	for _, w := range titleWords {
		s.TitleWords = append(s.TitleWords, w.Normalized)
		s.add(w.Normalized, Position{
			Section:   TitleSection,
			Part:      PartTitle,
			WordIndex: w.Index,
			Display:   w.Display,
		})
	}
	s.TotalWords = len(titleWords)

	s.Masked.Sections = make([]MaskedSection, len(art.Sections))
	for i, sec := range art.Sections {
		stTokens, stWords := token.Tokenize(sec.Title, fmt.Sprintf("s%dt-", i))
		scTokens, scWords := token.Tokenize(sec.Content, fmt.Sprintf("s%dc-", i))
		s.Masked.Sections[i] = MaskedSection{TitleTokens: stTokens, ContentTokens: scTokens}

		for _, w := range stWords {
			s.add(w.Normalized, Position{Section: i, Part: PartTitle, WordIndex: w.Index, Display: w.Display})
		}
		for _, w := range scWords {
			s.add(w.Normalized, Position{Section: i, Part: PartContent, WordIndex: w.Index, Display: w.Display})
		}
		s.TotalWords += len(stWords) + len(scWords)
	}

	s.Masked.TotalWords = s.TotalWords
	s.Masked.Date = dateKey

	// Every word token must have landed in exactly one bucket. A mismatch
	// is a construction bug, not a recoverable state.
	indexed := 0
	for _, ps := range s.reverse {
		indexed += len(ps)
	}
	if indexed != s.TotalWords {
		panic(fmt.Sprintf("index: %d positions for %d word tokens", indexed, s.TotalWords))
	}

	return s
}

func (s *Snapshot) add(normalized string, p Position) {
	if _, ok := s.reverse[normalized]; !ok {
		s.keys = append(s.keys, normalized)
	}
	s.reverse[normalized] = append(s.reverse[normalized], p)
}

func fingerprint(art article.RawArticle) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(art.Title)
	for _, sec := range art.Sections {
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(sec.Title)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(sec.Content)
	}
	return h.Sum64()
}
