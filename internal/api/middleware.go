package api

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/isayev/coinstack-sub001/internal/logger"
	"go.uber.org/zap"
)

// RequestLogger injects a request-scoped logger, tagged with the chi
// request id, into the request context for downstream handlers to use.
func (s *Server) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := s.app.Logger().With(
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r.WithContext(logger.ContextWithLogger(r.Context(), l)))
	})
}

// requestLogger is a helper function to retrieve the logger from the request context.
func requestLogger(r *http.Request) *zap.Logger {
	return logger.FromContext(r.Context())
}
