// internal/app/features/groups/delete.go
package groups

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	groupstore "github.com/impactcentre/churchhub/internal/app/store/groups"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleDeleteGroup removes a group and runs the qualification transition
// for its responsibles. The group document carries the membership ledger,
// so deleting it also discards the group's history.
//
// DELETE /api/groups/{id}
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid group ID.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete group")
	defer cancel()
	store := groupstore.New(h.DB)

	group, err := store.GetByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		apierrors.NotFound(w, "Group not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading group", err, "A database error occurred.")
		return
	}

	if _, err := store.Delete(ctx, oid); err != nil {
		h.ErrLog.LogServerError(w, r, "database error deleting group", err, "Failed to delete group.")
		return
	}

	if err := h.Qualify.OnGroupDeleted(ctx, group); err != nil {
		h.ErrLog.LogWarn(r, "qualification update failed after group delete", err)
	}

	respond.OK(w, "Group deleted.")
}
