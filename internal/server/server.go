// Package server exposes the game over HTTP. Handlers are thin: they decode,
// call the engine or the store, and encode. All game rules live below.
package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/lexiguess/lexiguess/internal/article"
	"github.com/lexiguess/lexiguess/internal/auth"
	"github.com/lexiguess/lexiguess/internal/game"
	"github.com/lexiguess/lexiguess/internal/index"
	"github.com/lexiguess/lexiguess/internal/store"
)

// MaxGuessLength is the longest accepted raw guess, in runes.
const MaxGuessLength = 100

// Server routes game requests.
type Server struct {
	engine *game.Engine
	store  *store.Store
	auth   *auth.Manager
	mux    *http.ServeMux
}

// New wires the HTTP routes.
func New(engine *game.Engine, st *store.Store, authMgr *auth.Manager) *Server {
	s := &Server{
		engine: engine,
		store:  st,
		auth:   authMgr,
		mux:    http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /api/game", s.handleGame)
	s.mux.HandleFunc("POST /api/game/guess", s.handleGuess)
	s.mux.HandleFunc("POST /api/game/reveal", s.handleReveal)
	s.mux.HandleFunc("GET /api/game/yesterday", s.handleYesterday)
	s.mux.HandleFunc("POST /api/auth/session", s.handleSession)
	s.mux.Handle("GET /api/game/state", s.requireUser(s.handleLoadState))
	s.mux.Handle("PUT /api/game/state", s.requireUser(s.handleSaveState))

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleGame returns today's masked article.
func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	view, err := s.engine.MaskedView()
	if err != nil {
		s.articleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type guessRequest struct {
	Word string `json:"word"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	word := strings.TrimSpace(req.Word)
	if word == "" {
		writeError(w, http.StatusBadRequest, "Mot manquant")
		return
	}
	if utf8.RuneCountInString(word) > MaxGuessLength {
		writeError(w, http.StatusBadRequest, "Mot invalide")
		return
	}

	result, err := s.engine.SubmitGuess(word)
	if err != nil {
		s.articleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type revealRequest struct {
	Guesses []string `json:"guesses"`
}

type revealResponse struct {
	Won       bool             `json:"won"`
	Positions []index.Position `json:"positions"`
}

// handleReveal unmasks the whole article, but only for a verified win: the
// client's accepted guesses are re-checked against the title server-side.
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	var req revealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	won, err := s.engine.CheckWin(req.Guesses)
	if err != nil {
		s.articleError(w, err)
		return
	}
	if !won {
		writeError(w, http.StatusForbidden, "Victoire non vérifiée")
		return
	}

	positions, err := s.engine.RevealAll()
	if err != nil {
		s.articleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, revealResponse{Won: true, Positions: positions})
}

type yesterdayResponse struct {
	Date  string `json:"date"`
	Title string `json:"title"`
}

// handleYesterday reveals the previous day's answer.
func (s *Server) handleYesterday(w http.ResponseWriter, r *http.Request) {
	date := s.engine.Yesterday()
	title, ok, err := s.store.ArticleTitle(date)
	if err != nil {
		log.Printf("server: article d'hier: %v", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Pas d'article pour hier")
		return
	}
	writeJSON(w, http.StatusOK, yesterdayResponse{Date: date, Title: title})
}

type sessionRequest struct {
	Name string `json:"name"`
}

type sessionResponse struct {
	Token string `json:"token"`
	User  string `json:"user"`
}

// handleSession issues a signed token for a fresh anonymous player id.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	userID, err := newUserID()
	if err != nil {
		log.Printf("server: génération d'identifiant: %v", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne")
		return
	}
	token, err := s.auth.Issue(userID, strings.TrimSpace(req.Name))
	if err != nil {
		log.Printf("server: émission du jeton: %v", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: userID})
}

func (s *Server) handleLoadState(w http.ResponseWriter, r *http.Request, user auth.User) {
	state, err := s.store.LoadState(user.ID, s.engine.Today())
	if err != nil {
		log.Printf("server: chargement de l'état: %v", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne")
		return
	}
	if state == nil {
		state = &store.SavedState{Guesses: []store.StoredGuess{}, Revealed: map[string]string{}}
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSaveState(w http.ResponseWriter, r *http.Request, user auth.User) {
	var state store.SavedState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if err := s.store.SaveState(user.ID, s.engine.Today(), state); err != nil {
		log.Printf("server: sauvegarde de l'état: %v", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireUser verifies the Bearer token and passes the user to the handler.
func (s *Server) requireUser(h func(http.ResponseWriter, *http.Request, auth.User)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Non authentifié")
			return
		}
		user, err := s.auth.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Non authentifié")
			return
		}
		h(w, r, user)
	})
}

func (s *Server) articleError(w http.ResponseWriter, err error) {
	if errors.Is(err, article.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Pas d'article pour aujourd'hui")
		return
	}
	log.Printf("server: %v", err)
	writeError(w, http.StatusInternalServerError, "Erreur interne")
}

func newUserID() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encodage de la réponse: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
