// internal/app/features/submissions/routes.go
package submissions

import "github.com/go-chi/chi/v5"

// Routes registers the submission endpoints on r (mounted under /api).
func Routes(r chi.Router, h *Handler) {
	r.Post("/create-submission", h.HandleCreate)
	r.Get("/get-all-submission", h.ServeList)
	r.Put("/update-submission/{id}", h.HandleUpdate)
}
