package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fw_trader/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Get("/status", handler(s.getV1Status))
			r.Get("/purchases", handler(s.getV1Purchases))

			r.Route("/signals", func(r chi.Router) {
				r.Post("/start", handler(s.postV1SignalStart))
				r.Post("/stop", handler(s.postV1SignalStop))
			})

			r.Post("/problem/clear", handler(s.postV1ProblemClear))

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", handler(s.getV1Categories))
				r.Put("/", handler(s.putV1Categories))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
