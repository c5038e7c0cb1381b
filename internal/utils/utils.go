// Package utils holds the response writers shared by every HTTP handler.
package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
)

// WriteJSON encodes v before touching w, so a value that cannot be encoded
// turns into a 500 error body instead of a truncated response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode JSON", "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorBody(status, "failed to encode response"))
	}
	write(w, status, contentTypeJSON, append(body, '\n'))
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody(status, msg))
}

func errorBody(status int, msg string) map[string]string {
	return map[string]string{
		"error":   http.StatusText(status),
		"message": msg,
	}
}

// WriteHTML writes an already rendered page. Render into a buffer first so a
// template failure can still produce a clean error response.
func WriteHTML(w http.ResponseWriter, status int, body []byte) {
	write(w, status, contentTypeHTML, body)
}

func write(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Debug("response write failed", "content_type", contentType, "error", err)
	}
}
