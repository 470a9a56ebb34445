package api

import (
	"net/http"
)

type selectionResponse struct {
	IDs       []int64 `json:"ids"`
	Count     int     `json:"count"`
	Selecting bool    `json:"selecting"`
}

// respondWithSelection replies with the current selection and, when it
// changed, tells the other connected views.
func (s *Server) respondWithSelection(w http.ResponseWriter, changed bool) {
	sel := s.app.Selection()
	resp := selectionResponse{IDs: sel.ToArray(), Count: sel.Count(), Selecting: sel.IsSelecting()}
	if changed {
		s.app.WsHub().Publish("selection", resp)
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

type idPayload struct {
	ID *int64 `json:"id"`
}

func (s *Server) decodeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var payload idPayload
	if !decodeJSON(w, r, &payload) {
		return 0, false
	}
	if payload.ID == nil {
		RespondWithError(w, http.StatusBadRequest, "id is required")
		return 0, false
	}
	return *payload.ID, true
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	s.respondWithSelection(w, false)
}

func (s *Server) handleSelectionToggle(w http.ResponseWriter, r *http.Request) {
	if id, ok := s.decodeID(w, r); ok {
		s.app.Selection().Toggle(id)
		s.respondWithSelection(w, true)
	}
}

func (s *Server) handleSelectionSelect(w http.ResponseWriter, r *http.Request) {
	if id, ok := s.decodeID(w, r); ok {
		s.app.Selection().Select(id)
		s.respondWithSelection(w, true)
	}
}

func (s *Server) handleSelectionDeselect(w http.ResponseWriter, r *http.Request) {
	if id, ok := s.decodeID(w, r); ok {
		s.app.Selection().Deselect(id)
		s.respondWithSelection(w, true)
	}
}

func (s *Server) handleSelectAll(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IDs []int64 `json:"ids"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	s.app.Selection().SelectAll(payload.IDs)
	s.respondWithSelection(w, true)
}

func (s *Server) handleSelectRange(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Start int64   `json:"start"`
		End   int64   `json:"end"`
		IDs   []int64 `json:"ids"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	s.app.Selection().SelectRange(payload.Start, payload.End, payload.IDs)
	s.respondWithSelection(w, true)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.app.Selection().Clear()
	s.respondWithSelection(w, true)
}
