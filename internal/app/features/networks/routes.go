// internal/app/features/networks/routes.go
package networks

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleListNetworks)
	r.Post("/", h.HandleCreateNetwork)
	r.Get("/{id}", h.HandleGetNetwork)
	r.Put("/{id}", h.HandleUpdateNetwork)
	r.Delete("/{id}", h.HandleDeleteNetwork)

	r.Get("/{id}/groups", h.HandleListNetworkGroups)

	return r
}
