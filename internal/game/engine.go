package game

import (
	"time"

	"github.com/lexiguess/lexiguess/internal/index"
)

// Engine ties the daily index cache to the matching logic and exposes the
// operations the outer layers call. All methods are safe for concurrent use:
// they work on an immutable snapshot of the current day's index.
type Engine struct {
	cache *index.Cache
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine reading articles from src.
func NewEngine(src index.Source, opts ...Option) *Engine {
	e := &Engine{
		cache: index.NewCache(src),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today returns the current UTC date key.
func (e *Engine) Today() string {
	return index.DateKey(e.now())
}

// Yesterday returns the UTC date key of the previous day.
func (e *Engine) Yesterday() string {
	return index.DateKey(e.now().AddDate(0, 0, -1))
}

// Snapshot returns today's index, building it on first use or after a day
// rollover.
func (e *Engine) Snapshot() (*index.Snapshot, error) {
	return e.cache.Snapshot(e.Today())
}

// Invalidate drops the cached index; the next call rebuilds from the source.
func (e *Engine) Invalidate() {
	e.cache.Invalidate()
}

// MaskedView returns the renderable masked article for today.
func (e *Engine) MaskedView() (index.MaskedArticle, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return index.MaskedArticle{}, err
	}
	return snap.Masked, nil
}

// SubmitGuess matches one raw guess against today's article.
func (e *Engine) SubmitGuess(raw string) (Result, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return Result{}, err
	}
	return Match(raw, snap), nil
}

// CheckWin reports whether the accepted guesses cover the whole title.
func (e *Engine) CheckWin(accepted []string) (bool, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return false, err
	}
	return HasWon(accepted, snap), nil
}

// RevealAll returns every position in today's index, used to unmask the
// whole article once a win is confirmed. It enumerates the reverse index;
// it does not re-filter by the guesses.
func (e *Engine) RevealAll() ([]index.Position, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.AllPositions(), nil
}
