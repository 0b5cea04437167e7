package index

import (
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/lexiguess/lexiguess/internal/article"
)

// Source supplies the raw article for a calendar day.
type Source interface {
	Article(dateKey string) (article.RawArticle, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(dateKey string) (article.RawArticle, error)

func (f SourceFunc) Article(dateKey string) (article.RawArticle, error) { return f(dateKey) }

// Cache holds the current day's snapshot behind an atomic pointer. Readers
// take the pointer and work on an immutable value; a date-key miss rebuilds
// a complete snapshot and swaps it in. Concurrent misses for the same day
// collapse into one build through the singleflight group.
type Cache struct {
	source  Source
	current atomic.Pointer[Snapshot]
	group   singleflight.Group
}

// NewCache creates a cache fed by src.
func NewCache(src Source) *Cache {
	return &Cache{source: src}
}

// Snapshot returns the index for dateKey, building it if the cached one is
// for another day (or absent). The previous snapshot is discarded, never
// patched.
func (c *Cache) Snapshot(dateKey string) (*Snapshot, error) {
	if s := c.current.Load(); s != nil && s.DateKey == dateKey {
		return s, nil
	}

	v, err, _ := c.group.Do(dateKey, func() (any, error) {
		// A losing racer may land here after the winner already swapped.
		if s := c.current.Load(); s != nil && s.DateKey == dateKey {
			return s, nil
		}
		art, err := c.source.Article(dateKey)
		if err != nil {
			return nil, err
		}
		s := Build(art, dateKey)
		c.current.Store(s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Invalidate drops the cached snapshot so the next request rebuilds. Used
// when the article file behind the current day changes.
func (c *Cache) Invalidate() {
	c.current.Store(nil)
}
