package users_test

import (
	"net/http"
	"testing"

	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/users"
	"github.com/impactcentre/churchhub/internal/app/system/qualification"
	"github.com/impactcentre/churchhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func uniqueEmailIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_email").SetUnique(true),
	}
}

func newTestHandler(t *testing.T) (*users.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := users.NewHandler(db, apierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

func TestHandleCreateUser_DefaultsToIntegration(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	body := `{"full_name":"Marie Dupont","email":"Marie@Example.com"}`
	req := testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/api/users", body, testutil.AdminUser())
	rec := testutil.NewRecorder()

	h.HandleCreateUser(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)

	var user struct {
		Email         string `bson:"email"`
		Qualification string `bson:"qualification"`
	}
	err := fixtures.DB().Collection("users").FindOne(ctx, bson.M{"full_name": "Marie Dupont"}).Decode(&user)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if user.Email != "marie@example.com" {
		t.Errorf("email: got %q, want lowercase normalized", user.Email)
	}
	if user.Qualification != qualification.Integration {
		t.Errorf("qualification: got %q, want %q", user.Qualification, qualification.Integration)
	}
}

func TestHandleCreateUser_NormalizesQualificationVariant(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Accent- and case-insensitive variant of "Régulier".
	body := `{"full_name":"Jean Petit","email":"jean@example.com","qualification":"REGULIER"}`
	req := testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/api/users", body, testutil.AdminUser())
	rec := testutil.NewRecorder()

	h.HandleCreateUser(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)

	var user struct {
		Qualification string `bson:"qualification"`
	}
	err := fixtures.DB().Collection("users").FindOne(ctx, bson.M{"email": "jean@example.com"}).Decode(&user)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if user.Qualification != qualification.Regular {
		t.Errorf("qualification: got %q, want %q", user.Qualification, qualification.Regular)
	}
}

func TestHandleCreateUser_UnknownQualification(t *testing.T) {
	h, _ := newTestHandler(t)

	body := `{"full_name":"Jean Petit","email":"jean@example.com","qualification":"archange"}`
	req := testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/api/users", body, testutil.AdminUser())
	rec := testutil.NewRecorder()

	h.HandleCreateUser(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleCreateUser_DuplicateEmail(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateRegularUser(ctx, "Marie Dupont", "marie@example.com")

	// The unique index on email enforces the conflict.
	if _, err := fixtures.DB().Collection("users").Indexes().CreateOne(ctx, uniqueEmailIndex()); err != nil {
		t.Fatalf("CreateOne index failed: %v", err)
	}

	body := `{"full_name":"Other Marie","email":"MARIE@example.com"}`
	req := testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/api/users", body, testutil.AdminUser())
	rec := testutil.NewRecorder()

	h.HandleCreateUser(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusConflict)
}

func TestHandleDeleteUser_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	missing := "65f000000000000000000000"
	req := testutil.NewAuthenticatedRequest(http.MethodDelete, "/api/users/"+missing, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", missing)
	rec := testutil.NewRecorder()

	h.HandleDeleteUser(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusNotFound)
}
