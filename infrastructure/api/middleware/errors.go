package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorBody is the JSON error envelope returned by all endpoints.
type errorBody struct {
	Error string `json:"error"`
}

// WriteError writes a JSON error response with the given status code.
func WriteError(w http.ResponseWriter, r *http.Request, status int, err error, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: err.Error()})
}
