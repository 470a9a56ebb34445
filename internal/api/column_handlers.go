package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isayev/coinstack-sub001/internal/columns"
)

func (s *Server) handleGetColumns(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("visible") == "true" {
		cols := s.app.Columns().Visible()
		if cols == nil {
			cols = []columns.Column{}
		}
		RespondWithJSON(w, http.StatusOK, cols)
		return
	}
	RespondWithJSON(w, http.StatusOK, s.app.Columns().Columns())
}

func (s *Server) handleSetColumnVisibility(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Visible *bool `json:"visible"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.Visible == nil {
		RespondWithError(w, http.StatusBadRequest, "visible is required")
		return
	}
	if !s.app.Columns().SetVisibility(chi.URLParam(r, "columnID"), *payload.Visible) {
		RespondWithError(w, http.StatusNotFound, "Column not found")
		return
	}
	RespondWithJSON(w, http.StatusOK, s.app.Columns().Columns())
}

func (s *Server) handleToggleColumn(w http.ResponseWriter, r *http.Request) {
	if !s.app.Columns().Toggle(chi.URLParam(r, "columnID")) {
		RespondWithError(w, http.StatusNotFound, "Column not found")
		return
	}
	RespondWithJSON(w, http.StatusOK, s.app.Columns().Columns())
}

func (s *Server) handleReorderColumns(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if err := s.app.Columns().Reorder(payload.From, payload.To); err != nil {
		if errors.Is(err, columns.ErrIndexOutOfRange) {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, s.app.Columns().Columns())
}

func (s *Server) handleResetColumns(w http.ResponseWriter, r *http.Request) {
	s.app.Columns().ResetToDefaults()
	RespondWithJSON(w, http.StatusOK, s.app.Columns().Columns())
}
