package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lexiguess/lexiguess/internal/article"
	"github.com/lexiguess/lexiguess/internal/auth"
	"github.com/lexiguess/lexiguess/internal/game"
	"github.com/lexiguess/lexiguess/internal/index"
	"github.com/lexiguess/lexiguess/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func testArticle() article.RawArticle {
	return article.RawArticle{
		Title: "Léon Gambetta",
		Sections: []article.Section{
			{Title: "Biographie", Content: "Gambetta est né à Cahors."},
		},
	}
}

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "game.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	src := index.SourceFunc(func(dateKey string) (article.RawArticle, error) {
		return st.EnsureDailyArticle(dateKey, func() (article.RawArticle, error) {
			return testArticle(), nil
		})
	})
	engine := game.NewEngine(src, game.WithClock(func() time.Time { return fixedNow }))
	authMgr := auth.NewManager("secret-de-test", time.Hour)

	return New(engine, st, authMgr), st
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestGetGame(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/game", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "2026-09-01", view["date"])
	assert.InDelta(t, 8, view["totalWords"], 0.1)

	// No word text in the masked payload.
	assert.NotContains(t, rec.Body.String(), "Gambetta")
	assert.NotContains(t, rec.Body.String(), "Cahors")
}

func TestGuessFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/game/guess", guessRequest{Word: "Gambetta"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[game.Result](t, rec)
	assert.True(t, res.Found)
	assert.Equal(t, "gambetta", res.Word)
	assert.Equal(t, 2, res.Occurrences)
	assert.Equal(t, 1.0, res.Similarity)
}

func TestGuessValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/game/guess", guessRequest{Word: "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Mot manquant", decodeBody[errorResponse](t, rec).Error)

	long := make([]byte, 0, MaxGuessLength+1)
	for range MaxGuessLength + 1 {
		long = append(long, 'a')
	}
	rec = doJSON(t, srv, http.MethodPost, "/api/game/guess", guessRequest{Word: string(long)}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Mot invalide", decodeBody[errorResponse](t, rec).Error)

	rec = doJSON(t, srv, http.MethodPost, "/api/game/guess", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRevealRequiresWin(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/game/reveal", revealRequest{Guesses: []string{"gambetta"}}, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Victoire non vérifiée", decodeBody[errorResponse](t, rec).Error)

	rec = doJSON(t, srv, http.MethodPost, "/api/game/reveal", revealRequest{Guesses: []string{"léon", "gambetta"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[revealResponse](t, rec)
	assert.True(t, res.Won)
	assert.Len(t, res.Positions, 8)
}

func TestYesterday(t *testing.T) {
	srv, st := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/game/yesterday", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err := st.EnsureDailyArticle("2026-08-31", func() (article.RawArticle, error) {
		return article.RawArticle{Title: "Jules Ferry"}, nil
	})
	require.NoError(t, err)

	rec = doJSON(t, srv, http.MethodGet, "/api/game/yesterday", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[yesterdayResponse](t, rec)
	assert.Equal(t, "2026-08-31", res.Date)
	assert.Equal(t, "Jules Ferry", res.Title)
}

func TestStateRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	// Without a token both state routes refuse.
	rec := doJSON(t, srv, http.MethodGet, "/api/game/state", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Non authentifié", decodeBody[errorResponse](t, rec).Error)

	rec = doJSON(t, srv, http.MethodPut, "/api/game/state", store.SavedState{}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/auth/session", sessionRequest{Name: "Léa"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	session := decodeBody[sessionResponse](t, rec)
	require.NotEmpty(t, session.Token)

	authz := http.Header{"Authorization": []string{fmt.Sprintf("Bearer %s", session.Token)}}

	// Fresh player: empty state, not an error.
	rec = doJSON(t, srv, http.MethodGet, "/api/game/state", nil, authz)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decodeBody[store.SavedState](t, rec)
	assert.Empty(t, empty.Guesses)
	assert.False(t, empty.Won)

	saved := store.SavedState{
		Guesses:  []store.StoredGuess{{Word: "gambetta", Found: true, Occurrences: 2, Similarity: 1}},
		Revealed: map[string]string{"-1:title:1": "Gambetta"},
	}
	rec = doJSON(t, srv, http.MethodPut, "/api/game/state", saved, authz)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/game/state", nil, authz)
	require.Equal(t, http.StatusOK, rec.Code)
	loaded := decodeBody[store.SavedState](t, rec)
	assert.Equal(t, saved.Guesses, loaded.Guesses)
	assert.Equal(t, saved.Revealed, loaded.Revealed)
}

func TestBadToken(t *testing.T) {
	srv, _ := newTestServer(t)

	authz := http.Header{"Authorization": []string{"Bearer pas-un-jeton"}}
	rec := doJSON(t, srv, http.MethodGet, "/api/game/state", nil, authz)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
