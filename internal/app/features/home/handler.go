package home

import (
	"io"
	"net/http"
)

// Greeting is the body served at the root path. Existing uptime checks
// match on it, trailing space included.
const Greeting = "Server is calling "

// Handler serves the plaintext root route.
type Handler struct{}

// NewHandler returns the root handler.
func NewHandler() *Handler {
	return &Handler{}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – liveness greeting                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot answers GET / with a plain-text greeting.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, Greeting)
}
