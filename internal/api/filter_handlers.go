package api

import (
	"net/http"

	"github.com/isayev/coinstack-sub001/internal/filter"
)

// filtersResponse is the filter state together with what it serializes to.
type filtersResponse struct {
	State       filter.State  `json:"state"`
	ActiveCount int           `json:"active_count"`
	Query       filter.Params `json:"query"`
	QueryString string        `json:"query_string"`
}

func (s *Server) respondWithFilters(w http.ResponseWriter) {
	st := s.app.Filters().Snapshot()
	params := filter.Serialize(st)
	RespondWithJSON(w, http.StatusOK, filtersResponse{
		State:       st,
		ActiveCount: filter.CountActiveFilters(st),
		Query:       params,
		QueryString: params.Encode(),
	})
}

func (s *Server) handleGetFilters(w http.ResponseWriter, r *http.Request) {
	s.respondWithFilters(w)
}

func (s *Server) handlePatchFilters(w http.ResponseWriter, r *http.Request) {
	var patch filter.Patch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := patch.Validate(); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.app.Filters().Apply(patch)
	s.respondWithFilters(w)
}

func (s *Server) handleSetSort(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Field filter.SortField `json:"field"`
		Dir   filter.SortDir   `json:"dir"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if !payload.Field.Valid() {
		RespondWithError(w, http.StatusBadRequest, "Unknown sort field")
		return
	}
	if payload.Dir == "" {
		s.app.Filters().SetSort(payload.Field)
	} else {
		if !payload.Dir.Valid() {
			RespondWithError(w, http.StatusBadRequest, "Sort direction must be asc or desc")
			return
		}
		s.app.Filters().SetSort(payload.Field, payload.Dir)
	}
	s.respondWithFilters(w)
}

func (s *Server) handleToggleSortDir(w http.ResponseWriter, r *http.Request) {
	s.app.Filters().ToggleSortDir()
	s.respondWithFilters(w)
}

func (s *Server) handleSetPage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Page int `json:"page"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.Page < 1 {
		RespondWithError(w, http.StatusBadRequest, "Page must be 1 or greater")
		return
	}
	s.app.Filters().SetPage(payload.Page)
	s.respondWithFilters(w)
}

func (s *Server) handleSetPageSize(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PageSize filter.PageSize `json:"page_size"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if !payload.PageSize.Valid() {
		RespondWithError(w, http.StatusBadRequest, "Page size must be 20, 50, 100 or all")
		return
	}
	s.app.Filters().SetPageSize(payload.PageSize)
	s.respondWithFilters(w)
}

func (s *Server) handleResetFilters(w http.ResponseWriter, r *http.Request) {
	s.app.Filters().Reset()
	s.respondWithFilters(w)
}
