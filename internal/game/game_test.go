package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexiguess/lexiguess/internal/article"
	"github.com/lexiguess/lexiguess/internal/index"
	"github.com/lexiguess/lexiguess/internal/similarity"
)

func gambettaSnapshot() *index.Snapshot {
	return index.Build(article.RawArticle{
		Title: "Léon Gambetta",
		Sections: []article.Section{
			{Title: "Biographie", Content: "Avocat puis tribun, Gambetta proclame la République."},
		},
	}, "2026-09-01")
}

func TestMatchExact(t *testing.T) {
	snap := gambettaSnapshot()

	res := Match("Leon", snap)
	assert.True(t, res.Found)
	assert.Equal(t, "leon", res.Word)
	assert.Equal(t, 1.0, res.Similarity)
	require.Len(t, res.Positions, 1)
	assert.Equal(t, index.TitleSection, res.Positions[0].Section)
	assert.Equal(t, "Léon", res.Positions[0].Display)
	assert.Equal(t, res.Occurrences, len(res.Positions))
}

func TestMatchExactAllOccurrences(t *testing.T) {
	snap := gambettaSnapshot()

	res := Match("gambetta", snap)
	assert.True(t, res.Found)
	assert.Equal(t, 1.0, res.Similarity, "exact match never falls through to fuzzy scoring")
	assert.Len(t, res.Positions, 2, "every occurrence of the word is revealed")
}

func TestMatchEmpty(t *testing.T) {
	snap := gambettaSnapshot()

	for _, raw := range []string{"", "   ", "\t\n"} {
		res := Match(raw, snap)
		assert.False(t, res.Found)
		assert.Empty(t, res.Word)
		assert.Empty(t, res.Positions)
		assert.Zero(t, res.Similarity)
	}
}

func TestMatchLemma(t *testing.T) {
	// Guess the plural against singular-only content: a lemma candidate of
	// the guess is an index key.
	snap := index.Build(article.RawArticle{
		Title: "Animaux",
		Sections: []article.Section{
			{Title: "", Content: "Un chat noir."},
		},
	}, "2026-09-01")

	res := Match("chats", snap)
	require.True(t, res.Found)
	assert.Equal(t, similarity.MorphConfidence, res.Similarity)
	require.Len(t, res.Positions, 1)
	assert.Equal(t, "chat", res.Positions[0].Display)

	// And the singular against plural-only content: no exact "chat" token
	// exists, but "chats" does, and the shared lemma bridges them at the
	// same confidence.
	snap = index.Build(article.RawArticle{
		Title: "Animaux",
		Sections: []article.Section{
			{Title: "", Content: "Des chats noirs."},
		},
	}, "2026-09-01")

	res = Match("chat", snap)
	require.True(t, res.Found)
	assert.Equal(t, similarity.MorphConfidence, res.Similarity)
	assert.Equal(t, "chat", res.Word)
	require.Len(t, res.Positions, 1)
	assert.Equal(t, "chats", res.Positions[0].Display)
}

func TestMatchFuzzyDroppedLetter(t *testing.T) {
	snap := gambettaSnapshot()

	res := Match("gambeta", snap)
	assert.True(t, res.Found)
	assert.GreaterOrEqual(t, res.Similarity, similarity.RevealThreshold)
	assert.Len(t, res.Positions, 2, "the selected bucket's occurrences are revealed")
}

func TestMatchNotFound(t *testing.T) {
	snap := gambettaSnapshot()

	res := Match("xyz", snap)
	assert.False(t, res.Found)
	assert.Empty(t, res.Positions)
	assert.Zero(t, res.Similarity, "short guesses never enter the fuzzy sweep")
}

func TestMatchNotFoundReportsBestScore(t *testing.T) {
	snap := gambettaSnapshot()

	// Long enough for the sweep, related to nothing: the best sub-threshold
	// score is still reported even though no bucket is selected.
	res := Match("zzzyyy", snap)
	assert.False(t, res.Found)
	assert.Empty(t, res.Positions)
	assert.Greater(t, res.Similarity, 0.0)
	assert.Less(t, res.Similarity, similarity.RevealThreshold)
}

func TestMatchSemantic(t *testing.T) {
	snap := index.Build(article.RawArticle{
		Title: "Histoire",
		Sections: []article.Section{
			{Title: "", Content: "Une guerre terrible."},
		},
	}, "2026-09-01")

	// "conflit" and "guerre" are in the same semantic group.
	res := Match("conflit", snap)
	require.True(t, res.Found)
	assert.Equal(t, similarity.SemanticConfidence, res.Similarity)
	require.Len(t, res.Positions, 1)
	assert.Equal(t, "guerre", res.Positions[0].Display)
}

func TestHasWon(t *testing.T) {
	snap := gambettaSnapshot()

	assert.True(t, HasWon([]string{"leon", "gambetta"}, snap))
	assert.True(t, HasWon([]string{"Léon", "Gambetta", "avocat"}, snap))
	assert.False(t, HasWon([]string{"leon"}, snap))
	assert.False(t, HasWon(nil, snap))

	// A close misspelling covers a title word at the same threshold the
	// matcher uses.
	assert.True(t, HasWon([]string{"leon", "gambeta"}, snap))
}

func TestHasWonEmptyTitle(t *testing.T) {
	snap := index.Build(article.RawArticle{Title: "...", Sections: nil}, "2026-09-01")
	require.Empty(t, snap.TitleWords)
	assert.False(t, HasWon([]string{"anything"}, snap), "an empty title is never won")
}

type fixedSource struct{ art article.RawArticle }

func (f fixedSource) Article(string) (article.RawArticle, error) { return f.art, nil }

func TestEngine(t *testing.T) {
	current := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	e := NewEngine(
		fixedSource{art: article.RawArticle{
			Title:    "Léon Gambetta",
			Sections: []article.Section{{Title: "Vie", Content: "Né à Cahors."}},
		}},
		WithClock(func() time.Time { return current }),
	)

	view, err := e.MaskedView()
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", view.Date)
	assert.Equal(t, 6, view.TotalWords)

	res, err := e.SubmitGuess("cahors")
	require.NoError(t, err)
	assert.True(t, res.Found)

	won, err := e.CheckWin([]string{"leon", "gambetta"})
	require.NoError(t, err)
	assert.True(t, won)

	all, err := e.RevealAll()
	require.NoError(t, err)
	assert.Len(t, all, 6)

	// Day rollover rebuilds for the new key.
	current = current.Add(24 * time.Hour)
	view, err = e.MaskedView()
	require.NoError(t, err)
	assert.Equal(t, "2026-09-02", view.Date)
}
