// internal/app/features/groups/list.go
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

// HandleListGroups returns every group. An optional ?network=<id> query
// narrows the result to one network.
//
// GET /api/groups
func (h *Handler) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list groups")
	defer cancel()

	store := groupstore.New(h.DB)

	if netHex := r.URL.Query().Get("network"); netHex != "" {
		netOID, err := primitive.ObjectIDFromHex(netHex)
		if err != nil {
			apierrors.BadRequest(w, "Invalid network ID.")
			return
		}
		list, err := store.ListByNetwork(ctx, netOID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "database error listing groups by network", err, "A database error occurred.")
			return
		}
		respond.Data(w, http.StatusOK, list)
		return
	}

	list, err := store.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing groups", err, "A database error occurred.")
		return
	}
	respond.Data(w, http.StatusOK, list)
}

// HandleGetGroup returns one group by ID, including its live member set and
// full membership history.
//
// GET /api/groups/{id}
func (h *Handler) HandleGetGroup(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid group ID.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get group")
	defer cancel()

	group, err := groupstore.New(h.DB).GetByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		apierrors.NotFound(w, "Group not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading group", err, "A database error occurred.")
		return
	}
	respond.Data(w, http.StatusOK, group)
}
