// internal/app/features/departments/routes.go
package departments

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleListDepartments)
	r.Post("/", h.HandleCreateDepartment)
	r.Get("/{id}", h.HandleGetDepartment)
	r.Put("/{id}", h.HandleUpdateDepartment)
	r.Delete("/{id}", h.HandleDeleteDepartment)

	return r
}
