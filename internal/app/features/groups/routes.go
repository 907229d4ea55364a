// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleListGroups)
	r.Post("/", h.HandleCreateGroup)
	r.Get("/{id}", h.HandleGetGroup)
	r.Put("/{id}", h.HandleUpdateGroup)
	r.Delete("/{id}", h.HandleDeleteGroup)

	r.Post("/{id}/members", h.HandleAddMember)
	r.Delete("/{id}/members/{userId}", h.HandleRemoveMember)

	return r
}
