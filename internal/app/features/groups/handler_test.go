package groups_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/groups"
	"github.com/impactcentre/churchhub/internal/app/system/qualification"
	"github.com/impactcentre/churchhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*groups.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := groups.NewHandler(db, apierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

func TestHandleCreateGroup(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateRegularUser(ctx, "Marie Dupont", "marie@example.com")
	network := fixtures.CreateNetwork(ctx, "Réseau Nord", leader.ID)

	body := `{"name":"GR Nord 1","network":"` + network.ID.Hex() + `","responsable1":"` + leader.ID.Hex() + `"}`
	req := testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/api/groups", body, testutil.AdminUser())
	rec := testutil.NewRecorder()

	h.HandleCreateGroup(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"success":true`)

	// The responsible must be in the live member set with an open interval,
	// and must now hold the Leader qualification.
	var group struct {
		Members []any `bson:"members"`
		History []struct {
			LeftAt *time.Time `bson:"left_at"`
		} `bson:"members_history"`
	}
	err := fixtures.DB().Collection("groups").FindOne(ctx, bson.M{"name": "GR Nord 1"}).Decode(&group)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if len(group.Members) != 1 {
		t.Errorf("members: got %d, want 1", len(group.Members))
	}
	if len(group.History) != 1 || group.History[0].LeftAt != nil {
		t.Errorf("expected one open history interval, got %+v", group.History)
	}

	var user struct {
		Qualification string `bson:"qualification"`
	}
	err = fixtures.DB().Collection("users").FindOne(ctx, bson.M{"_id": leader.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if user.Qualification != qualification.Leader {
		t.Errorf("qualification: got %q, want %q", user.Qualification, qualification.Leader)
	}
}

func TestHandleCreateGroup_UnknownNetwork(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateRegularUser(ctx, "Marie Dupont", "marie@example.com")

	body := `{"network":"65f000000000000000000000","responsable1":"` + leader.ID.Hex() + `"}`
	req := testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/api/groups", body, testutil.AdminUser())
	rec := testutil.NewRecorder()

	h.HandleCreateGroup(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, `"success":false`)
}

func TestHandleUpdateGroup_ReplacesResponsible(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	oldResp := fixtures.CreateLeaderUser(ctx, "Marie Dupont", "marie@example.com")
	newResp := fixtures.CreateRegularUser(ctx, "Jean Petit", "jean@example.com")
	network := fixtures.CreateNetwork(ctx, "Réseau Nord", oldResp.ID)
	group := fixtures.CreateGroup(ctx, "GR Nord 1", network.ID, oldResp.ID)

	body := `{"name":"GR Nord 1","network":"` + network.ID.Hex() + `","responsable1":"` + newResp.ID.Hex() + `"}`
	req := testutil.NewAuthenticatedJSONRequest(http.MethodPut, "/api/groups/"+group.ID.Hex(), body, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
	rec := testutil.NewRecorder()

	h.HandleUpdateGroup(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	// The new responsible is enrolled as a member with an open interval;
	// the replaced one keeps their membership and ledger history.
	var g struct {
		Members []any `bson:"members"`
		History []struct {
			LeftAt *time.Time `bson:"left_at"`
		} `bson:"members_history"`
	}
	err := fixtures.DB().Collection("groups").FindOne(ctx, bson.M{"_id": group.ID}).Decode(&g)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if len(g.Members) != 2 {
		t.Errorf("members: got %d, want 2", len(g.Members))
	}
	if len(g.History) != 2 {
		t.Errorf("history intervals: got %d, want 2", len(g.History))
	}
	for _, iv := range g.History {
		if iv.LeftAt != nil {
			t.Error("expected all history intervals to remain open")
		}
	}

	// Both end up at Leader: the replaced responsible falls back one rung,
	// the new one is promoted.
	for _, id := range []any{oldResp.ID, newResp.ID} {
		var user struct {
			Qualification string `bson:"qualification"`
		}
		err := fixtures.DB().Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user)
		if err != nil {
			t.Fatalf("FindOne failed: %v", err)
		}
		if user.Qualification != qualification.Leader {
			t.Errorf("qualification: got %q, want %q", user.Qualification, qualification.Leader)
		}
	}
}

func TestHandleAddMember_AlreadyMember(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeaderUser(ctx, "Marie Dupont", "marie@example.com")
	network := fixtures.CreateNetwork(ctx, "Réseau Nord", leader.ID)
	group := fixtures.CreateGroup(ctx, "GR Nord 1", network.ID, leader.ID)
	member := fixtures.CreateRegularUser(ctx, "Jean Petit", "jean@example.com")

	body := `{"userId":"` + member.ID.Hex() + `"}`

	req := testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/api/groups/"+group.ID.Hex()+"/members", body, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleAddMember(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	// Second add of the same user conflicts.
	req = testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/api/groups/"+group.ID.Hex()+"/members", body, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleAddMember(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusConflict)
}

func TestHandleRemoveMember_Responsible(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeaderUser(ctx, "Marie Dupont", "marie@example.com")
	network := fixtures.CreateNetwork(ctx, "Réseau Nord", leader.ID)
	group := fixtures.CreateGroup(ctx, "GR Nord 1", network.ID, leader.ID)

	req := testutil.NewAuthenticatedRequest(http.MethodDelete, "/api/groups/"+group.ID.Hex()+"/members/"+leader.ID.Hex(), testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "userId", leader.ID.Hex())
	rec := testutil.NewRecorder()

	h.HandleRemoveMember(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusForbidden)
}

func TestHandleRemoveMember_ClosesInterval(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeaderUser(ctx, "Marie Dupont", "marie@example.com")
	network := fixtures.CreateNetwork(ctx, "Réseau Nord", leader.ID)
	group := fixtures.CreateGroup(ctx, "GR Nord 1", network.ID, leader.ID)
	member := fixtures.CreateRegularUser(ctx, "Jean Petit", "jean@example.com")

	body := `{"userId":"` + member.ID.Hex() + `"}`
	req := testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/api/groups/"+group.ID.Hex()+"/members", body, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleAddMember(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	req = testutil.NewAuthenticatedRequest(http.MethodDelete, "/api/groups/"+group.ID.Hex()+"/members/"+member.ID.Hex(), testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "userId", member.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleRemoveMember(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	// The member leaves the live set but the closed interval stays in the ledger.
	var g struct {
		Members []any `bson:"members"`
		History []struct {
			UserID any        `bson:"user_id"`
			LeftAt *time.Time `bson:"left_at"`
		} `bson:"members_history"`
	}
	err := fixtures.DB().Collection("groups").FindOne(ctx, bson.M{"_id": group.ID}).Decode(&g)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if len(g.Members) != 1 {
		t.Errorf("members after removal: got %d, want 1", len(g.Members))
	}
	if len(g.History) != 2 {
		t.Fatalf("history intervals: got %d, want 2", len(g.History))
	}
	closed := 0
	for _, iv := range g.History {
		if iv.LeftAt != nil {
			closed++
		}
	}
	if closed != 1 {
		t.Errorf("closed intervals: got %d, want 1", closed)
	}
}
