// internal/app/features/churches/manage.go
package churches

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	churchstore "github.com/impactcentre/churchhub/internal/app/store/churches"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"github.com/impactcentre/churchhub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var sanitize = bluemonday.StrictPolicy()

type churchRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// HandleListChurches returns every church.
//
// GET /api/churches
func (h *Handler) HandleListChurches(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list churches")
	defer cancel()

	list, err := h.Churches.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing churches", err, "A database error occurred.")
		return
	}
	respond.Data(w, http.StatusOK, list)
}

// HandleGetChurch returns one church by ID.
//
// GET /api/churches/{id}
func (h *Handler) HandleGetChurch(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid church ID.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get church")
	defer cancel()

	church, err := h.Churches.GetByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		apierrors.NotFound(w, "Church not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading church", err, "A database error occurred.")
		return
	}
	respond.Data(w, http.StatusOK, church)
}

// HandleCreateChurch creates a church.
//
// POST /api/churches
func (h *Handler) HandleCreateChurch(w http.ResponseWriter, r *http.Request) {
	var req churchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	if req.Name == "" {
		apierrors.BadRequest(w, "Church name is required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create church")
	defer cancel()

	church, err := h.Churches.Create(ctx, models.Church{
		Name:    sanitize.Sanitize(req.Name),
		Address: sanitize.Sanitize(req.Address),
	})
	if err == churchstore.ErrDuplicateChurchName {
		apierrors.Conflict(w, "A church with this name already exists.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error creating church", err, "Failed to create church.")
		return
	}
	respond.Data(w, http.StatusCreated, church)
}

// HandleUpdateChurch rewrites a church's name and address.
//
// PUT /api/churches/{id}
func (h *Handler) HandleUpdateChurch(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid church ID.")
		return
	}

	var req churchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "Invalid JSON body.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update church")
	defer cancel()

	if _, err := h.Churches.GetByID(ctx, oid); err != nil {
		if err == mongo.ErrNoDocuments {
			apierrors.NotFound(w, "Church not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "database error loading church", err, "A database error occurred.")
		return
	}

	err = h.Churches.UpdateInfo(ctx, oid, sanitize.Sanitize(req.Name), sanitize.Sanitize(req.Address))
	if err == churchstore.ErrDuplicateChurchName {
		apierrors.Conflict(w, "A church with this name already exists.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error updating church", err, "Failed to update church.")
		return
	}

	church, err := h.Churches.GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error reloading church", err, "A database error occurred.")
		return
	}
	respond.Data(w, http.StatusOK, church)
}

// HandleDeleteChurch removes a church and clears the church reference on
// every user that pointed at it.
//
// DELETE /api/churches/{id}
func (h *Handler) HandleDeleteChurch(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid church ID.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete church")
	defer cancel()

	deleted, err := h.Churches.Delete(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error deleting church", err, "Failed to delete church.")
		return
	}
	if deleted == 0 {
		apierrors.NotFound(w, "Church not found.")
		return
	}

	detached, err := h.Users.DetachChurch(ctx, oid)
	if err != nil {
		h.ErrLog.LogWarn(r, "failed to detach users from deleted church", err)
	} else if detached > 0 {
		h.Log.Info("users detached from deleted church",
			zap.String("church_id", oid.Hex()),
			zap.Int64("users", detached))
	}

	respond.OK(w, "Church deleted.")
}
