// internal/app/features/auth/reset.go
package auth

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// HandleForgotPassword issues a reset token for the account. The response
// is identical whether or not the email exists; delivery of the token is
// the mail pipeline's job, so the token never appears in the response.
//
// POST /api/auth/forgot-password
func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	if req.Email == "" {
		apierrors.BadRequest(w, "Email is required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "forgot password")
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err == mongo.ErrNoDocuments {
		respond.OK(w, "If the account exists, a reset link has been sent.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading user for reset", err, "A database error occurred.")
		return
	}

	token := uuid.NewString()
	if err := h.Users.SetResetToken(ctx, user.ID, token); err != nil {
		h.ErrLog.LogServerError(w, r, "failed to store reset token", err, "Failed to start password reset.")
		return
	}

	h.Log.Info("password reset token issued", zap.String("user_id", user.ID.Hex()))
	respond.OK(w, "If the account exists, a reset link has been sent.")
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// HandleResetPassword consumes a reset token and replaces the password.
//
// POST /api/auth/reset-password
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	if req.Token == "" || req.Password == "" {
		apierrors.BadRequest(w, "Token and password are required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "reset password")
	defer cancel()

	user, err := h.Users.GetByResetToken(ctx, req.Token)
	if err == mongo.ErrNoDocuments {
		apierrors.BadRequest(w, "Invalid or expired reset token.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error resolving reset token", err, "A database error occurred.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "password hashing failed", err, "Failed to reset password.")
		return
	}
	if err := h.Users.SetPassword(ctx, user.ID, string(hash)); err != nil {
		h.ErrLog.LogServerError(w, r, "failed to store new password", err, "Failed to reset password.")
		return
	}

	h.Log.Info("password reset completed", zap.String("user_id", user.ID.Hex()))
	respond.OK(w, "Password updated.")
}
