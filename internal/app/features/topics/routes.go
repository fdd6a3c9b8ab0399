// internal/app/features/topics/routes.go
package topics

import "github.com/go-chi/chi/v5"

// Routes registers the topic endpoints on r (mounted under /api).
func Routes(r chi.Router, h *Handler) {
	r.Post("/create-topic", h.HandleCreate)
	r.Get("/get-all-topic", h.ServeList)
	r.Put("/update-topic", h.HandleUpdateStatus)
}
