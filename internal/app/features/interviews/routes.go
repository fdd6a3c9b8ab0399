// internal/app/features/interviews/routes.go
package interviews

import "github.com/go-chi/chi/v5"

// Routes registers the interview endpoints on r. They are mounted under
// /api next to the other features, so paths are spelled out in full.
func Routes(r chi.Router, h *Handler) {
	r.Post("/create-interview", h.HandleCreate)
	r.Get("/get-all-interviews", h.ServeList)
	r.Get("/get-interview/{id}", h.ServeGet)
	r.Put("/update-interview/{id}", h.HandleUpdate)
	r.Delete("/delete-interview/{id}", h.HandleDelete)
}
