// internal/app/features/users/delete.go
package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleDeleteUser removes a user document. Group membership records and
// closed ledger intervals that reference the user are left in place; the
// history remains a faithful record even when the person is gone.
//
// DELETE /api/users/{id}
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid user ID.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete user")
	defer cancel()

	deleted, err := h.Users.Delete(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error deleting user", err, "Failed to delete user.")
		return
	}
	if deleted == 0 {
		apierrors.NotFound(w, "User not found.")
		return
	}
	respond.OK(w, "User deleted.")
}
