// internal/app/features/auth/login.go
package auth

import (
	"encoding/json"
	"net/http"

	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	sysauth "github.com/impactcentre/churchhub/internal/app/system/auth"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies email+password and opens a session. Wrong email and
// wrong password produce the same 401 so the response doesn't leak which
// accounts exist.
//
// POST /api/auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	if req.Email == "" || req.Password == "" {
		apierrors.BadRequest(w, "Email and password are required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "login")
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err == mongo.ErrNoDocuments {
		apierrors.Unauthorized(w, "Invalid email or password.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading user for login", err, "A database error occurred.")
		return
	}
	if user.PasswordHash == "" {
		apierrors.Unauthorized(w, "Invalid email or password.")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		apierrors.Unauthorized(w, "Invalid email or password.")
		return
	}

	sessionUser := &sysauth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
		Role:  user.Role,
	}
	if err := h.Sessions.SignIn(w, r, sessionUser); err != nil {
		h.ErrLog.LogServerError(w, r, "failed to write session", err, "Failed to sign in.")
		return
	}

	h.Log.Info("user signed in", zap.String("user_id", sessionUser.ID))
	respond.Data(w, http.StatusOK, sessionUser)
}

// HandleLogout expires the session cookie.
//
// POST /api/auth/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.ErrLog.LogServerError(w, r, "failed to expire session", err, "Failed to sign out.")
		return
	}
	respond.OK(w, "Signed out.")
}

// HandleMe returns the signed-in user from the session.
//
// GET /api/auth/me
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := sysauth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w, "authentication required")
		return
	}
	respond.Data(w, http.StatusOK, user)
}
