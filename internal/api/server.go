// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/isayev/coinstack-sub001/internal/core"
	"github.com/isayev/coinstack-sub001/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the dependencies for our API.
type Server struct {
	app *core.App
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	return &Server{app: app}
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(metrics.Middleware())
	r.Use(s.RequestLogger)

	r.Handle("/metrics", promhttp.Handler())

	// WebSocket route. Kept outside the timeout middleware, which would
	// cut long-lived connections.
	r.Get("/ws/view", func(w http.ResponseWriter, r *http.Request) {
		s.app.WsHub().ServeWs(w, r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
			if err := s.app.DB().Ping(); err != nil {
				RespondWithError(w, http.StatusServiceUnavailable, "Database connection failed")
				return
			}
			RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/api", func(r chi.Router) {
			r.Route("/view", func(r chi.Router) {
				// Filter, sort and pagination state
				r.Get("/filters", s.handleGetFilters)
				r.Patch("/filters", s.handlePatchFilters)
				r.Post("/filters/sort", s.handleSetSort)
				r.Post("/filters/sort/toggle", s.handleToggleSortDir)
				r.Put("/filters/page", s.handleSetPage)
				r.Put("/filters/page-size", s.handleSetPageSize)
				r.Post("/filters/reset", s.handleResetFilters)

				// Column layout
				r.Get("/columns", s.handleGetColumns)
				r.Put("/columns/{columnID}/visibility", s.handleSetColumnVisibility)
				r.Post("/columns/{columnID}/toggle", s.handleToggleColumn)
				r.Post("/columns/reorder", s.handleReorderColumns)
				r.Post("/columns/reset", s.handleResetColumns)

				// Selection
				r.Get("/selection", s.handleGetSelection)
				r.Post("/selection/toggle", s.handleSelectionToggle)
				r.Post("/selection/select", s.handleSelectionSelect)
				r.Post("/selection/deselect", s.handleSelectionDeselect)
				r.Post("/selection/all", s.handleSelectAll)
				r.Post("/selection/range", s.handleSelectRange)
				r.Delete("/selection", s.handleClearSelection)
			})

			// Backend listing and infinite scroll
			r.Get("/coins", s.handleListCoins)
			r.Get("/feed", s.handleGetFeed)
			r.Post("/feed/reset", s.handleResetFeed)
			r.Post("/feed/more", s.handleLoadMore)

			// Import lookups
			r.Post("/import/url", s.handleImportURL)
			r.Post("/import/ngc", s.handleImportNGC)

			// Job triggers
			r.Get("/jobs/status", s.handleGetJobsStatus)
			r.Post("/jobs/run", s.handleRunJob)
		})
	})

	return r
}
