// internal/app/features/groups/update.go
package groups

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	groupstore "github.com/impactcentre/churchhub/internal/app/store/groups"
	networkstore "github.com/impactcentre/churchhub/internal/app/store/networks"
	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type updateGroupRequest struct {
	Name         string `json:"name"`
	Network      string `json:"network"`
	Responsable1 string `json:"responsable1"`
	Responsable2 string `json:"responsable2,omitempty"`
}

// HandleUpdateGroup rewrites a group's name, network, and responsible
// slots. New responsibles are added to the live member set (opening ledger
// intervals) and the qualification engine is run over the old/new
// responsible sets: users that lost their slot fall back to Leader, current
// responsibles are (re-)promoted to Leader.
//
// PUT /api/groups/{id}
func (h *Handler) HandleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	groupOID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid group ID.")
		return
	}

	var req updateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "Invalid JSON body.")
		return
	}

	networkOID, err := primitive.ObjectIDFromHex(req.Network)
	if err != nil {
		apierrors.BadRequest(w, "Invalid network ID.")
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update group")
	defer cancel()
	store := groupstore.New(h.DB)

	group, err := store.GetByID(ctx, groupOID)
	if err == mongo.ErrNoDocuments {
		apierrors.NotFound(w, "Group not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading group", err, "A database error occurred.")
		return
	}

	if _, err := networkstore.New(h.DB).GetByID(ctx, networkOID); err != nil {
		if err == mongo.ErrNoDocuments {
			apierrors.NotFound(w, "Network not found.")
			return
		}
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

	oldResponsibles := group.Responsibles()

	if err := store.UpdateInfo(ctx, groupOID, req.Name, networkOID, resp1OID, resp2OID); err != nil {
		if err == groupstore.ErrDuplicateGroupName {
			apierrors.Conflict(w, "A group with this name already exists in the network.")
			return
		}
		h.ErrLog.LogServerError(w, r, "database error updating group", err, "Failed to update group.")
		return
	}

	// A responsible must always also be a member of their group.
	if err := store.EnsureMembers(ctx, groupOID, newResponsibles); err != nil {
		h.ErrLog.LogWarn(r, "failed to enroll new responsibles as members", err)
	}
	if err := h.Qualify.OnGroupResponsiblesChanged(ctx, oldResponsibles, newResponsibles); err != nil {
		h.ErrLog.LogWarn(r, "qualification update failed after group update", err)
	}

	updated, err := store.GetByID(ctx, groupOID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error reloading group", err, "A database error occurred.")
		return
	}
	respond.Data(w, http.StatusOK, updated)
}
