package httpx

import (
	"encoding/json"
	"net/http"
)

// Failure is the envelope for every unsuccessful response.
type Failure struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
	Code    string   `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteFailure writes the failure envelope with one or more messages.
func WriteFailure(w http.ResponseWriter, status int, code string, messages ...string) {
	if messages == nil {
		messages = []string{}
	}
	WriteJSON(w, status, Failure{Success: false, Errors: messages, Code: code})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
