package api

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the v1 API routes on the router.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/parse", h.Parse)
	})
}
