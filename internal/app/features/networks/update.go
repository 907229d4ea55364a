// internal/app/features/networks/update.go
package networks

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	networkstore "github.com/impactcentre/churchhub/internal/app/store/networks"
	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type updateNetworkRequest struct {
	Name         string `json:"name"`
	Responsable1 string `json:"responsable1"`
	Responsable2 string `json:"responsable2,omitempty"`
}

// HandleUpdateNetwork rewrites a network's name and responsible slots, then
// runs the qualification transition: users that lost a slot fall back to
// Leader, current responsibles become Responsable réseau.
//
// PUT /api/networks/{id}
func (h *Handler) HandleUpdateNetwork(w http.ResponseWriter, r *http.Request) {
	networkOID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid network ID.")
		return
	}

	var req updateNetworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "Invalid JSON body.")
		return
	}

	resp1OID, err := primitive.ObjectIDFromHex(req.Responsable1)
	if err != nil {
		apierrors.BadRequest(w, "Invalid responsable1 ID.")
		return
	}
	var resp2OID *primitive.ObjectID
	if req.Responsable2 != "" {
		oid, err := primitive.ObjectIDFromHex(req.Responsable2)
		if err != nil {
			apierrors.BadRequest(w, "Invalid responsable2 ID.")
			return
		}
		resp2OID = &oid
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update network")
	defer cancel()
	store := networkstore.New(h.DB)

	network, err := store.GetByID(ctx, networkOID)
	if err == mongo.ErrNoDocuments {
		apierrors.NotFound(w, "Network not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading network", err, "A database error occurred.")
		return
	}

	newResponsibles := []primitive.ObjectID{resp1OID}
	if resp2OID != nil {
		newResponsibles = append(newResponsibles, *resp2OID)
	}
	ok, err := userstore.New(h.DB).AllExist(ctx, newResponsibles)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error checking users", err, "A database error occurred.")
		return
	}
	if !ok {
		apierrors.NotFound(w, "One or more users not found.")
		return
	}

	oldResponsibles := network.Responsibles()

	if err := store.UpdateInfo(ctx, networkOID, req.Name, resp1OID, resp2OID); err != nil {
		if err == networkstore.ErrDuplicateNetworkName {
			apierrors.Conflict(w, "A network with this name already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "database error updating network", err, "Failed to update network.")
		return
	}

	if err := h.Qualify.OnNetworkResponsiblesChanged(ctx, oldResponsibles, newResponsibles); err != nil {
		h.ErrLog.LogWarn(r, "qualification update failed after network update", err)
	}

	updated, err := store.GetByID(ctx, networkOID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error reloading network", err, "A database error occurred.")
		return
	}
	respond.Data(w, http.StatusOK, updated)
}
