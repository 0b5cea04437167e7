// Package article defines the raw article the engine consumes and a
// directory-backed source that serves it per calendar day. How an article got
// into the directory (encyclopedia fetching, section filtering) is someone
// else's job; files arrive pre-shaped.
package article

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Section is one titled block of article body text.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// RawArticle is the unmasked input: a title and ordered sections.
type RawArticle struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// ErrNotFound is returned when no article file exists for the requested day.
var ErrNotFound = errors.New("article: no article for date")

// DirSource resolves a date key to an article JSON file somewhere under its
// root directory. Files are named <dateKey>.json and may live in
// subdirectories (years, months, whatever the operator prefers).
type DirSource struct {
	root string
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{root: dir}
}

// Article loads the article for dateKey (YYYY-MM-DD). When several files
// match the glob, the lexicographically first wins, so lookups stay
// deterministic.
func (s *DirSource) Article(dateKey string) (RawArticle, error) {
	pattern := filepath.Join(s.root, "**", dateKey+".json")
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return RawArticle{}, fmt.Errorf("article: glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return RawArticle{}, fmt.Errorf("%w %s", ErrNotFound, dateKey)
	}
	sort.Strings(matches)

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return RawArticle{}, fmt.Errorf("article: read %s: %w", matches[0], err)
	}
	var art RawArticle
	if err := json.Unmarshal(data, &art); err != nil {
		return RawArticle{}, fmt.Errorf("article: parse %s: %w", matches[0], err)
	}
	if art.Title == "" {
		return RawArticle{}, fmt.Errorf("article: %s has no title", matches[0])
	}
	return art, nil
}
