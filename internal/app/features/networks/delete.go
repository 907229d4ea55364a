// internal/app/features/networks/delete.go
package networks

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	groupstore "github.com/impactcentre/churchhub/internal/app/store/groups"
	networkstore "github.com/impactcentre/churchhub/internal/app/store/networks"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleDeleteNetwork removes a network and cascades deletion of its
// groups. Every affected responsible, group leaders and network
// responsibles alike, falls back to the Leader qualification.
//
// DELETE /api/networks/{id}
func (h *Handler) HandleDeleteNetwork(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid network ID.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete network")
	defer cancel()
	store := networkstore.New(h.DB)

	network, err := store.GetByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		apierrors.NotFound(w, "Network not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading network", err, "A database error occurred.")
		return
	}

	// Group leaders are demoted before the cascade so their group's
	// responsible sets are still readable.
	grpStore := groupstore.New(h.DB)
	netGroups, err := grpStore.ListByNetwork(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing network groups", err, "A database error occurred.")
		return
	}
	for _, g := range netGroups {
		if err := h.Qualify.OnGroupDeleted(ctx, g); err != nil {
			h.ErrLog.LogWarn(r, "qualification update failed for cascaded group", err)
		}
	}

	deleted, err := grpStore.DeleteByNetwork(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error deleting network groups", err, "Failed to delete network groups.")
		return
	}

	if _, err := store.Delete(ctx, oid); err != nil {
		h.ErrLog.LogServerError(w, r, "database error deleting network", err, "Failed to delete network.")
		return
	}

	if err := h.Qualify.OnNetworkDeleted(ctx, network); err != nil {
		h.ErrLog.LogWarn(r, "qualification update failed after network delete", err)
	}

	h.Log.Info("network deleted",
		zap.String("network_id", oid.Hex()),
		zap.Int64("groups_deleted", deleted))

	respond.OK(w, "Network deleted.")
}
