// internal/app/features/groups/create.go
package groups

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	groupstore "github.com/impactcentre/churchhub/internal/app/store/groups"
	networkstore "github.com/impactcentre/churchhub/internal/app/store/networks"
	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"github.com/impactcentre/churchhub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// sanitize strips any markup from free-text input fields.
var sanitize = bluemonday.StrictPolicy()

type createGroupRequest struct {
	Name         string   `json:"name"`
	Network      string   `json:"network"`
	Responsable1 string   `json:"responsable1"`
	Responsable2 string   `json:"responsable2,omitempty"`
	Members      []string `json:"members,omitempty"`
}

// HandleCreateGroup creates a group under a network, seeds the live member
// set and the membership ledger with the responsibles (plus any initial
// members), then promotes the responsibles to Leader.
//
// POST /api/groups
//
// Consistency: the group insert is the primary mutation; the qualification
// update is a best-effort side effect (logged, never fatal).
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create group")
	defer cancel()
	db := h.DB

	network, err := networkstore.New(db).GetByID(ctx, networkOID)
	if err == mongo.ErrNoDocuments {
		apierrors.NotFound(w, "Network not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading network", err, "A database error occurred.")
		return
	}

	// Members start as responsibles plus any explicitly listed users,
	// deduplicated; every one must resolve to an existing user.
	memberIDs := []primitive.ObjectID{resp1OID}
	if resp2OID != nil {
		memberIDs = append(memberIDs, *resp2OID)
	}
	for _, hex := range req.Members {
		oid, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			apierrors.BadRequest(w, "Invalid member ID.")
			return
		}
		memberIDs = append(memberIDs, oid)
	}
	memberIDs = dedupe(memberIDs)

	users := userstore.New(db)
	ok, err := users.AllExist(ctx, memberIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error checking users", err, "A database error occurred.")
		return
	}
	if !ok {
		apierrors.NotFound(w, "One or more users not found.")
		return
	}

	now := time.Now().UTC()
	history := make([]models.MemberInterval, 0, len(memberIDs))
	for _, id := range memberIDs {
		history = append(history, models.MemberInterval{UserID: id, JoinedAt: now})
	}

	name := req.Name
	if name == "" {
		name = "Groupe de " + network.Name
	}
	group, err := groupstore.New(db).Create(ctx, models.Group{
		Name:           sanitize.Sanitize(name),
		NetworkID:      network.ID,
		Responsable1:   resp1OID,
		Responsable2:   resp2OID,
		Members:        memberIDs,
		MembersHistory: history,
	})
	if err == groupstore.ErrDuplicateGroupName {
		apierrors.Conflict(w, "A group with this name already exists in the network.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error creating group", err, "Failed to create group.")
		return
	}

	if err := h.Qualify.OnGroupCreated(ctx, group); err != nil {
		h.ErrLog.LogWarn(r, "qualification update failed after group create", err)
	}

	respond.Data(w, http.StatusCreated, group)
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
