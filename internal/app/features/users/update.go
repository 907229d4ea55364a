// internal/app/features/users/update.go
package users

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type updateUserRequest struct {
	FullName      *string `json:"full_name,omitempty"`
	Email         *string `json:"email,omitempty"`
	Qualification *string `json:"qualification,omitempty"`
	Church        *string `json:"church,omitempty"`
	Department    *string `json:"department,omitempty"`
}

// HandleUpdateUser applies a partial edit. Absent fields stay unchanged;
// an empty church/department string clears the reference. Setting a
// qualification here is the administrative override path; the transition
// engine may later overwrite it.
//
// PUT /api/users/{id}
func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid user ID.")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "Invalid JSON body.")
		return
	}

	upd := userstore.Update{
		Email:         req.Email,
		Qualification: req.Qualification,
	}
	if req.FullName != nil {
		clean := sanitize.Sanitize(*req.FullName)
		upd.FullName = &clean
	}
	if req.Church != nil {
		var ref *primitive.ObjectID
		if *req.Church != "" {
			churchOID, err := primitive.ObjectIDFromHex(*req.Church)
			if err != nil {
				apierrors.BadRequest(w, "Invalid church ID.")
				return
			}
			ref = &churchOID
		}
		upd.ChurchID = &ref
	}
	if req.Department != nil {
		var ref *primitive.ObjectID
		if *req.Department != "" {
			deptOID, err := primitive.ObjectIDFromHex(*req.Department)
			if err != nil {
				apierrors.BadRequest(w, "Invalid department ID.")
				return
			}
			ref = &deptOID
		}
		upd.DepartmentID = &ref
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update user")
	defer cancel()

	if _, err := h.Users.GetByID(ctx, oid); err != nil {
		if err == mongo.ErrNoDocuments {
			apierrors.NotFound(w, "User not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "database error loading user", err, "A database error occurred.")
		return
	}

	err = h.Users.UpdateInfo(ctx, oid, upd)
	switch {
	case err == userstore.ErrDuplicateEmail:
		apierrors.Conflict(w, "A user with this email already exists.")
		return
	case err == userstore.ErrBadQualification:
		apierrors.BadRequest(w, "Unknown qualification label.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "database error updating user", err, "Failed to update user.")
		return
	}

	updated, err := h.Users.GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error reloading user", err, "A database error occurred.")
		return
	}
	respond.Data(w, http.StatusOK, updated)
}
