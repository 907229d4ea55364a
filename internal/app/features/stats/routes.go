// internal/app/features/stats/routes.go
package stats

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleGlobalStats)
	r.Get("/networks/evolution", h.HandleNetworkEvolution)
	r.Get("/networks/evolution/compare", h.HandleNetworkCompare)

	return r
}
