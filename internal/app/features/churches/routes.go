// internal/app/features/churches/routes.go
package churches

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleListChurches)
	r.Post("/", h.HandleCreateChurch)
	r.Get("/{id}", h.HandleGetChurch)
	r.Put("/{id}", h.HandleUpdateChurch)
	r.Delete("/{id}", h.HandleDeleteChurch)

	return r
}
