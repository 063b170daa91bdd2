package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteServiceError maps service errors onto HTTP status codes: missing
// records become 404, invalid input 400, upstream failures 502, anything
// else 500.
func WriteServiceError(w http.ResponseWriter, logger arbor.ILogger, err error) {
	switch {
	case common.IsNotFound(err):
		WriteError(w, http.StatusNotFound, err.Error())
	case common.IsValidation(err):
		WriteError(w, http.StatusBadRequest, err.Error())
	case common.IsUpstreamFetch(err):
		WriteError(w, http.StatusBadGateway, err.Error())
	default:
		logger.Error().Err(err).Msg("Request failed")
		WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
