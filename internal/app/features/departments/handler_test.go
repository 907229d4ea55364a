package departments_test

import (
	"net/http"
	"testing"

	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/departments"
	"github.com/impactcentre/churchhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*departments.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := departments.NewHandler(db, apierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

func TestHandleCreateDepartment(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/api/departments", `{"name":"Louange"}`, testutil.AdminUser())
	rec := testutil.NewRecorder()

	h.HandleCreateDepartment(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"success":true`)
}

func TestHandleCreateDepartment_MissingName(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/api/departments", `{}`, testutil.AdminUser())
	rec := testutil.NewRecorder()

	h.HandleCreateDepartment(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleDeleteDepartment_DetachesUsers(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dept := fixtures.CreateDepartment(ctx, "Accueil")
	user := fixtures.CreateRegularUser(ctx, "Jean Petit", "jean@example.com")
	_, err := fixtures.DB().Collection("users").UpdateByID(ctx, user.ID, bson.M{
		"$set": bson.M{"department_id": dept.ID},
	})
	if err != nil {
		t.Fatalf("UpdateByID failed: %v", err)
	}

	req := testutil.NewAuthenticatedRequest(http.MethodDelete, "/api/departments/"+dept.ID.Hex(), testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", dept.ID.Hex())
	rec := testutil.NewRecorder()

	h.HandleDeleteDepartment(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	var doc struct {
		DepartmentID *bson.RawValue `bson:"department_id"`
	}
	err = fixtures.DB().Collection("users").FindOne(ctx, bson.M{"_id": user.ID}).Decode(&doc)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if doc.DepartmentID != nil && doc.DepartmentID.Type != bson.TypeNull {
		t.Errorf("department_id after delete: got %v, want null", doc.DepartmentID)
	}
}
