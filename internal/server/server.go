// Package server implements a development stand-in for the remote record
// endpoint: an in-memory, owner-filtered note collection speaking the same
// wire contract the sync client consumes.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Note is the wire shape of a remote record.
type Note struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

type Server struct {
	apiKey string
	router *chi.Mux

	mu    sync.Mutex
	notes map[string]Note
}

// New creates a server. If apiKey is non-empty, every request must carry it
// as an apikey header or bearer credential.
func New(apiKey string) *Server {
	s := &Server{
		apiKey: apiKey,
		router: chi.NewRouter(),
		notes:  make(map[string]Note),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Route("/notes", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Head("/", s.probeHandler)
		r.Get("/", s.listNotesHandler)
		r.Post("/", s.createNoteHandler)
		r.Patch("/", s.updateNoteHandler)
		r.Delete("/", s.deleteNoteHandler)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get("apikey") == s.apiKey {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] == s.apiKey {
			next.ServeHTTP(w, r)
			return
		}

		jsonError(w, "invalid api key", http.StatusUnauthorized)
	})
}

// eqFilter extracts a PostgREST-style "column=eq.value" query filter.
func eqFilter(r *http.Request, column string) (string, bool) {
	raw := r.URL.Query().Get(column)
	if !strings.HasPrefix(raw, "eq.") {
		return "", false
	}
	return strings.TrimPrefix(raw, "eq."), true
}

func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, map[string]string{"message": message}, status)
}
