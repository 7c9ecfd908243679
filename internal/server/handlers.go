package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

func (s *Server) probeHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listNotesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := eqFilter(r, "user_id")
	if !ok {
		jsonError(w, "user_id filter required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	notes := make([]Note, 0)
	for _, n := range s.notes {
		if n.UserID == userID {
			notes = append(notes, n)
		}
	}
	s.mu.Unlock()

	// Only created_at.desc ordering is supported; it is all the client asks for.
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit >= 0 && limit < len(notes) {
			notes = notes[:limit]
		}
	}

	jsonResponse(w, notes, http.StatusOK)
}

type upsertRequest struct {
	UserID     string     `json:"user_id"`
	Title      *string    `json:"title"`
	Content    *string    `json:"content"`
	ModifiedAt *time.Time `json:"modified_at"`
}

func (s *Server) createNoteHandler(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		jsonError(w, "user_id required", http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	note := Note{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.ModifiedAt != nil {
		note.ModifiedAt = req.ModifiedAt.UTC()
	}

	s.mu.Lock()
	s.notes[note.ID] = note
	s.mu.Unlock()

	if r.Header.Get("Prefer") == "return=representation" {
		jsonResponse(w, []Note{note}, http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) updateNoteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := eqFilter(r, "id")
	if !ok {
		jsonError(w, "id filter required", http.StatusBadRequest)
		return
	}
	userID, ok := eqFilter(r, "user_id")
	if !ok {
		jsonError(w, "user_id filter required", http.StatusBadRequest)
		return
	}

	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	note, found := s.notes[id]
	if found && note.UserID == userID {
		if req.Title != nil {
			note.Title = *req.Title
		}
		if req.Content != nil {
			note.Content = *req.Content
		}
		if req.ModifiedAt != nil {
			note.ModifiedAt = req.ModifiedAt.UTC()
		} else {
			note.ModifiedAt = time.Now().UTC()
		}
		s.notes[id] = note
		s.mu.Unlock()
		jsonResponse(w, []Note{note}, http.StatusOK)
		return
	}
	s.mu.Unlock()

	// A filter matching zero rows is not an error on the wire: the client
	// is expected to treat the empty array as not-found.
	jsonResponse(w, []Note{}, http.StatusOK)
}

func (s *Server) deleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := eqFilter(r, "id")
	if !ok {
		jsonError(w, "id filter required", http.StatusBadRequest)
		return
	}
	userID, ok := eqFilter(r, "user_id")
	if !ok {
		jsonError(w, "user_id filter required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if note, found := s.notes[id]; found && note.UserID == userID {
		delete(s.notes, id)
	}
	s.mu.Unlock()

	// Deleting an absent record is not an error.
	w.WriteHeader(http.StatusNoContent)
}

// Seed inserts notes directly into the store, bypassing the wire contract.
func (s *Server) Seed(notes ...Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range notes {
		s.notes[n.ID] = n
	}
}

// Snapshot returns a copy of all stored notes, for inspection.
func (s *Server) Snapshot() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	notes := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		notes = append(notes, n)
	}
	return notes
}
