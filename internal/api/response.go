// Helper functions for sending standardized JSON responses.

package api

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/isayev/coinstack-sub001/internal/client"
)

// RespondWithJSON writes a JSON response with the given status code and payload.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		// If marshaling fails, return an error response
		RespondWithError(w, http.StatusInternalServerError, "Failed to marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithError writes a standardized JSON error response.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

type backendErrorResponse struct {
	Error             string   `json:"error"`
	Kind              string   `json:"kind"`
	RetryAfter        *float64 `json:"retry_after,omitempty"`
	EnableManualEntry bool     `json:"enable_manual_entry,omitempty"`
}

// RespondWithBackendError relays a failed backend call. Backend statuses
// pass through; a backend that could not be reached is a 502.
func RespondWithBackendError(w http.ResponseWriter, err error) {
	apiErr, ok := client.AsError(err)
	if !ok {
		RespondWithError(w, http.StatusInternalServerError, "Unexpected error talking to the backend")
		return
	}

	code := apiErr.Status
	switch {
	case apiErr.Kind == client.KindRequest:
		code = http.StatusInternalServerError
	case apiErr.Kind == client.KindNetwork || code < 400:
		code = http.StatusBadGateway
	}
	body := backendErrorResponse{
		Error:             apiErr.Message,
		Kind:              string(apiErr.Kind),
		EnableManualEntry: apiErr.EnableManualEntry,
	}
	if apiErr.RetryAfter > 0 {
		secs := apiErr.RetryAfter.Seconds()
		body.RetryAfter = &secs
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(secs))))
	}
	RespondWithJSON(w, code, body)
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}
