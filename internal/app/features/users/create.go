// internal/app/features/users/create.go
package users

import (
	"encoding/json"
	"net/http"

	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"github.com/impactcentre/churchhub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var sanitize = bluemonday.StrictPolicy()

type createUserRequest struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Password      string `json:"password,omitempty"`
	Role          string `json:"role,omitempty"`
	Qualification string `json:"qualification,omitempty"`
	Church        string `json:"church,omitempty"`
	Department    string `json:"department,omitempty"`
}

// HandleCreateUser registers a user. The qualification label is normalized
// to canonical form and defaults to "En intégration"; role defaults to
// member.
//
// POST /api/users
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	if req.FullName == "" || req.Email == "" {
		apierrors.BadRequest(w, "Full name and email are required.")
		return
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
	var deptOID *primitive.ObjectID
	if req.Department != "" {
		oid, err := primitive.ObjectIDFromHex(req.Department)
		if err != nil {
			apierrors.BadRequest(w, "Invalid department ID.")
			return
		}
		deptOID = &oid
	}

	role := req.Role
	if role == "" {
		role = "member"
	}

	user := models.User{
		FullName:      sanitize.Sanitize(req.FullName),
		Email:         req.Email,
		Role:          role,
		Qualification: req.Qualification,
		ChurchID:      churchOID,
		DepartmentID:  deptOID,
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "password hashing failed", err, "Failed to create user.")
			return
		}
		user.PasswordHash = string(hash)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create user")
	defer cancel()

	created, err := h.Users.Create(ctx, user)
	switch {
	case err == userstore.ErrDuplicateEmail:
		apierrors.Conflict(w, "A user with this email already exists.")
	case err == userstore.ErrBadQualification:
		apierrors.BadRequest(w, "Unknown qualification label.")
	case err != nil:
		h.ErrLog.LogBadRequest(w, r, "user creation rejected", err, "Failed to create user.")
	default:
		respond.Data(w, http.StatusCreated, created)
	}
}
