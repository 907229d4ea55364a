// internal/app/features/networks/create.go
package networks

import (
	"encoding/json"
	"net/http"

	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	churchstore "github.com/impactcentre/churchhub/internal/app/store/churches"
	networkstore "github.com/impactcentre/churchhub/internal/app/store/networks"
	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"github.com/impactcentre/churchhub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var sanitize = bluemonday.StrictPolicy()

type createNetworkRequest struct {
	Name         string `json:"name"`
	Responsable1 string `json:"responsable1"`
	Responsable2 string `json:"responsable2,omitempty"`
	Church       string `json:"church,omitempty"`
}

// HandleCreateNetwork creates a network and promotes its responsibles to
// Responsable réseau.
//
// POST /api/networks
func (h *Handler) HandleCreateNetwork(w http.ResponseWriter, r *http.Request) {
	var req createNetworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	if req.Name == "" {
		apierrors.BadRequest(w, "Network name is required.")
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
	var churchOID *primitive.ObjectID
	if req.Church != "" {
		oid, err := primitive.ObjectIDFromHex(req.Church)
		if err != nil {
			apierrors.BadRequest(w, "Invalid church ID.")
			return
		}
		churchOID = &oid
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create network")
	defer cancel()

	responsibles := []primitive.ObjectID{resp1OID}
	if resp2OID != nil {
		responsibles = append(responsibles, *resp2OID)
	}
	ok, err := userstore.New(h.DB).AllExist(ctx, responsibles)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error checking users", err, "A database error occurred.")
		return
	}
	if !ok {
		apierrors.NotFound(w, "One or more users not found.")
		return
	}

	if churchOID != nil {
		if _, err := churchstore.New(h.DB).GetByID(ctx, *churchOID); err != nil {
			if err == mongo.ErrNoDocuments {
				apierrors.NotFound(w, "Church not found.")
				return
			}
			h.ErrLog.LogServerError(w, r, "database error loading church", err, "A database error occurred.")
			return
		}
	}

	network, err := networkstore.New(h.DB).Create(ctx, models.Network{
		Name:         sanitize.Sanitize(req.Name),
		Responsable1: resp1OID,
		Responsable2: resp2OID,
		ChurchID:     churchOID,
	})
	if err == networkstore.ErrDuplicateNetworkName {
		apierrors.Conflict(w, "A network with this name already exists.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error creating network", err, "Failed to create network.")
		return
	}

	if err := h.Qualify.OnNetworkResponsiblesChanged(ctx, nil, responsibles); err != nil {
		h.ErrLog.LogWarn(r, "qualification update failed after network create", err)
	}

	respond.Data(w, http.StatusCreated, network)
}
