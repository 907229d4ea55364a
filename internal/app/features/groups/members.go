// internal/app/features/groups/members.go
package groups

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	groupstore "github.com/impactcentre/churchhub/internal/app/store/groups"
	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type addMemberRequest struct {
	UserID string `json:"userId"`
}

// HandleAddMember adds a user to a group's live member set and opens a new
// ledger interval. Re-adding a current member is a 409; a past member gets
// a fresh interval, never a reopened one.
//
// POST /api/groups/{id}/members
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	groupOID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid group ID.")
		return
	}

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	userOID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		apierrors.BadRequest(w, "Invalid user ID.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "add group member")
	defer cancel()

	exists, err := userstore.New(h.DB).Exists(ctx, userOID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error checking user", err, "A database error occurred.")
		return
	}
	if !exists {
		apierrors.NotFound(w, "User not found.")
		return
	}

	err = groupstore.New(h.DB).AddMember(ctx, groupOID, userOID)
	switch {
	case err == mongo.ErrNoDocuments:
		apierrors.NotFound(w, "Group not found.")
	case err == groupstore.ErrAlreadyMember:
		apierrors.Conflict(w, "User is already a member of this group.")
	case err != nil:
		h.ErrLog.LogServerError(w, r, "database error adding member", err, "Failed to add member.")
	default:
		respond.OK(w, "Member added.")
	}
}

// HandleRemoveMember pulls a user from the live member set and closes their
// open ledger interval. Responsibles cannot be removed as plain members
// (403); reassign the slot first. A missing open interval is a data
// inconsistency: the removal still happens and the gap is logged.
//
// DELETE /api/groups/{id}/members/{userId}
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	groupOID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid group ID.")
		return
	}
	userOID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid user ID.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "remove group member")
	defer cancel()

	err = groupstore.New(h.DB).RemoveMember(ctx, groupOID, userOID)
	switch {
	case err == mongo.ErrNoDocuments:
		apierrors.NotFound(w, "Group not found.")
	case err == groupstore.ErrResponsible:
		apierrors.Forbidden(w, "User is a responsible of this group; reassign the slot before removing them.")
	case err == groupstore.ErrNoOpenInterval:
		h.ErrLog.LogWarn(r, "member removed without an open history interval", err)
		respond.OK(w, "Member removed.")
	case err != nil:
		h.ErrLog.LogServerError(w, r, "database error removing member", err, "Failed to remove member.")
	default:
		respond.OK(w, "Member removed.")
	}
}
