package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/isayev/coinstack-sub001/internal/feed"
	"go.uber.org/zap"
)

// handleListCoins fetches one page of the listing for the current filters.
// ?page overrides the stored page without changing it.
func (s *Server) handleListCoins(w http.ResponseWriter, r *http.Request) {
	page := 0
	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			RespondWithError(w, http.StatusBadRequest, "Invalid page")
			return
		}
		page = p
	}

	result, err := s.app.Client().ListCoins(r.Context(), s.app.Filters().Serialize(), page)
	if err != nil {
		RespondWithBackendError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.app.Feed().Snapshot())
}

// handleResetFeed restarts infinite scroll from page 1 of the current filters.
func (s *Server) handleResetFeed(w http.ResponseWriter, r *http.Request) {
	snap, err := s.app.Feed().Reset(r.Context(), s.app.Filters().Serialize())
	s.respondWithFeed(w, r, snap, err)
}

func (s *Server) handleLoadMore(w http.ResponseWriter, r *http.Request) {
	snap, err := s.app.Feed().LoadMore(r.Context())
	s.respondWithFeed(w, r, snap, err)
}

func (s *Server) respondWithFeed(w http.ResponseWriter, r *http.Request, snap feed.Snapshot, err error) {
	switch {
	case err == nil, errors.Is(err, feed.ErrNoMorePages):
		RespondWithJSON(w, http.StatusOK, snap)
	case errors.Is(err, feed.ErrInFlight), errors.Is(err, feed.ErrSuperseded):
		RespondWithError(w, http.StatusConflict, err.Error())
	default:
		requestLogger(r).Info("Feed fetch failed", zap.Error(err))
		RespondWithBackendError(w, err)
	}
}

func (s *Server) handleImportURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		URL string `json:"url"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	u := strings.TrimSpace(payload.URL)
	if u == "" {
		RespondWithError(w, http.StatusBadRequest, "url is required")
		return
	}
	preview, err := s.app.Client().ScrapeURL(r.Context(), u)
	if err != nil {
		RespondWithBackendError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, preview)
}

func (s *Server) handleImportNGC(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Cert string `json:"cert"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	cert := strings.TrimSpace(payload.Cert)
	if cert == "" {
		RespondWithError(w, http.StatusBadRequest, "cert is required")
		return
	}
	preview, err := s.app.Client().LookupNGC(r.Context(), cert)
	if err != nil {
		RespondWithBackendError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, preview)
}
