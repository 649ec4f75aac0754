package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// every route requires a resolved user identity
	router.Group(func(r chi.Router) {
		r.Use(h.withUser)

		r.Route("/api/entries", func(r chi.Router) {
			r.Get("/", h.listEntries)
			r.Post("/", h.saveEntry)
			r.Get("/{id}", h.getEntry)
			r.Delete("/{id}", h.deleteEntry)
			r.Post("/{id}/favorite", h.setFavorite)
			r.Post("/{id}/publish", h.publishEntry)
		})

		r.Put("/api/profile", h.saveProfile)
		r.Post("/api/profile/avatar", h.saveAvatar)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
