// Package jsonutil reads and writes the JSON bodies of the API.
package jsonutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/interviewhub/internal/app/system/apperr"
)

// DefaultMaxBody caps request bodies when no limit is configured.
const DefaultMaxBody int64 = 1 << 20

// MsgInvalidJSON is returned for bodies that do not parse.
const MsgInvalidJSON = "Invalid JSON body"

// Write sends v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error sends {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"error": msg})
}

// Decode reads at most limit bytes of r's body into dst. An empty body
// leaves dst untouched. Malformed or oversized bodies produce a
// Validation error.
func Decode(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	if limit <= 0 {
		limit = DefaultMaxBody
	}
	body := http.MaxBytesReader(w, r.Body, limit)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Validation(MsgInvalidJSON)
	}
	return nil
}
