package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/garden"
	"github.com/mhuisman/etymon/pkg/pipeline"
)

type gardenListResponse struct {
	Entries []garden.Entry `json:"entries"`
	Count   int            `json:"count"`
}

func (s *Server) handleGardenList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.garden.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []garden.Entry{}
	}
	writeJSON(w, http.StatusOK, gardenListResponse{Entries: entries, Count: len(entries)})
}

type gardenSaveRequest struct {
	Word     string `json:"word"`
	Language string `json:"language,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

func (s *Server) handleGardenSave(w http.ResponseWriter, r *http.Request) {
	var req gardenSaveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Mode != "" {
		if err := pipeline.ValidateMode(req.Mode); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	entry := garden.NewEntry(req.Word, req.Language, req.Mode, req.Notes)
	if !entry.Valid() {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidWord, "word is required"))
		return
	}

	if err := s.garden.Save(r.Context(), entry); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.hub.Notify("garden")
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleGardenGet(w http.ResponseWriter, r *http.Request) {
	entry, err := s.garden.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleGardenDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.garden.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.hub.Notify("garden")
	w.WriteHeader(http.StatusNoContent)
}
