// internal/app/features/networks/list.go
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
)

// HandleListNetworks returns every network.
//
// GET /api/networks
func (h *Handler) HandleListNetworks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list networks")
	defer cancel()

	list, err := networkstore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing networks", err, "A database error occurred.")
		return
	}
	respond.Data(w, http.StatusOK, list)
}

// HandleGetNetwork returns one network by ID.
//
// GET /api/networks/{id}
func (h *Handler) HandleGetNetwork(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid network ID.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get network")
	defer cancel()

	network, err := networkstore.New(h.DB).GetByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		apierrors.NotFound(w, "Network not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading network", err, "A database error occurred.")
		return
	}
	respond.Data(w, http.StatusOK, network)
}

// HandleListNetworkGroups returns the groups belonging to a network.
//
// GET /api/networks/{id}/groups
func (h *Handler) HandleListNetworkGroups(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid network ID.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list network groups")
	defer cancel()

	if _, err := networkstore.New(h.DB).GetByID(ctx, oid); err != nil {
		if err == mongo.ErrNoDocuments {
			apierrors.NotFound(w, "Network not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "database error loading network", err, "A database error occurred.")
		return
	}

	list, err := groupstore.New(h.DB).ListByNetwork(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing network groups", err, "A database error occurred.")
		return
	}
	respond.Data(w, http.StatusOK, list)
}
