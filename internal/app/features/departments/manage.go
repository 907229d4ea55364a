// internal/app/features/departments/manage.go
package departments

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	departmentstore "github.com/impactcentre/churchhub/internal/app/store/departments"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"github.com/impactcentre/churchhub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var sanitize = bluemonday.StrictPolicy()

type departmentRequest struct {
	Name string `json:"name"`
}

// HandleListDepartments returns every department.
//
// GET /api/departments
func (h *Handler) HandleListDepartments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list departments")
	defer cancel()

	list, err := h.Departments.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing departments", err, "A database error occurred.")
		return
	}
	respond.Data(w, http.StatusOK, list)
}

// HandleGetDepartment returns one department by ID.
//
// GET /api/departments/{id}
func (h *Handler) HandleGetDepartment(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid department ID.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get department")
	defer cancel()

	dept, err := h.Departments.GetByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		apierrors.NotFound(w, "Department not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading department", err, "A database error occurred.")
		return
	}
	respond.Data(w, http.StatusOK, dept)
}

// HandleCreateDepartment creates a department.
//
// POST /api/departments
func (h *Handler) HandleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req departmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	if req.Name == "" {
		apierrors.BadRequest(w, "Department name is required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create department")
	defer cancel()

	dept, err := h.Departments.Create(ctx, models.Department{Name: sanitize.Sanitize(req.Name)})
	if err == departmentstore.ErrDuplicateDepartmentName {
		apierrors.Conflict(w, "A department with this name already exists.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error creating department", err, "Failed to create department.")
		return
	}
	respond.Data(w, http.StatusCreated, dept)
}

// HandleUpdateDepartment renames a department.
//
// PUT /api/departments/{id}
func (h *Handler) HandleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid department ID.")
		return
	}

	var req departmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	if req.Name == "" {
		apierrors.BadRequest(w, "Department name is required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update department")
	defer cancel()

	if _, err := h.Departments.GetByID(ctx, oid); err != nil {
		if err == mongo.ErrNoDocuments {
			apierrors.NotFound(w, "Department not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "database error loading department", err, "A database error occurred.")
		return
	}

	err = h.Departments.UpdateName(ctx, oid, sanitize.Sanitize(req.Name))
	if err == departmentstore.ErrDuplicateDepartmentName {
		apierrors.Conflict(w, "A department with this name already exists.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error updating department", err, "Failed to update department.")
		return
	}

	dept, err := h.Departments.GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error reloading department", err, "A database error occurred.")
		return
	}
	respond.Data(w, http.StatusOK, dept)
}

// HandleDeleteDepartment removes a department and clears the department
// reference on every user that pointed at it.
//
// DELETE /api/departments/{id}
func (h *Handler) HandleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, "Invalid department ID.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete department")
	defer cancel()

	deleted, err := h.Departments.Delete(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error deleting department", err, "Failed to delete department.")
		return
	}
	if deleted == 0 {
		apierrors.NotFound(w, "Department not found.")
		return
	}

	detached, err := h.Users.DetachDepartment(ctx, oid)
	if err != nil {
		h.ErrLog.LogWarn(r, "failed to detach users from deleted department", err)
	} else if detached > 0 {
		h.Log.Info("users detached from deleted department",
			zap.String("department_id", oid.Hex()),
			zap.Int64("users", detached))
	}

	respond.OK(w, "Department deleted.")
}
