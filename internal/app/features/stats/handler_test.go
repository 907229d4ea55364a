package stats_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/stats"
	"github.com/impactcentre/churchhub/internal/app/system/qualification"
	"github.com/impactcentre/churchhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*stats.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := stats.NewHandler(db, apierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

func TestHandleGlobalStats(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeaderUser(ctx, "Marie Dupont", "marie@example.com")
	fixtures.CreateRegularUser(ctx, "Jean Petit", "jean@example.com")
	fixtures.CreateUser(ctx, "Paul Grand", "paul@example.com", qualification.Governance)
	network := fixtures.CreateNetwork(ctx, "Réseau Nord", leader.ID)
	fixtures.CreateGroup(ctx, "GR Nord 1", network.ID, leader.ID)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/stats", testutil.AdminUser())
	rec := testutil.NewRecorder()

	h.HandleGlobalStats(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	var got stats.GlobalStats
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.TotalAll != 3 {
		t.Errorf("total_all: got %d, want 3", got.TotalAll)
	}
	if got.TotalGR != 1 {
		t.Errorf("total_gr: got %d, want 1", got.TotalGR)
	}
	if got.TotalReseaux != 1 {
		t.Errorf("total_reseaux: got %d, want 1", got.TotalReseaux)
	}
	if got.TotalGouvernance != 1 {
		t.Errorf("total_gouvernance: got %d, want 1", got.TotalGouvernance)
	}
	if got.TotalRespGR != 1 {
		t.Errorf("total_resp_gr: got %d, want 1", got.TotalRespGR)
	}
	// Jean is in no group and not exempt; Paul holds Gouvernance (exempt);
	// Marie is a group member.
	if got.TotalPersonnesIsolees != 1 {
		t.Errorf("total_personnes_isolees: got %d, want 1", got.TotalPersonnesIsolees)
	}
}

func TestHandleNetworkEvolution_TwelveAscendingMonths(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeaderUser(ctx, "Marie Dupont", "marie@example.com")
	network := fixtures.CreateNetwork(ctx, "Réseau Nord", leader.ID)
	group := fixtures.CreateGroup(ctx, "GR Nord 1", network.ID, leader.ID)

	// A member who joined six months ago contributes to recent windows only.
	member := fixtures.CreateRegularUser(ctx, "Jean Petit", "jean@example.com")
	fixtures.AddGroupMember(ctx, group.ID, member.ID, time.Now().AddDate(0, -6, 0))

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/stats/networks/evolution", testutil.AdminUser())
	rec := testutil.NewRecorder()

	h.HandleNetworkEvolution(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	var envelope struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected success envelope")
	}
	if len(envelope.Data) != 12 {
		t.Fatalf("rows: got %d, want 12", len(envelope.Data))
	}

	// Months ascend and the last row is the current month.
	last := envelope.Data[11]["month"].(string)
	now := time.Now()
	wantLast := now.Format("2006-01")
	if last != wantLast {
		t.Errorf("last month: got %q, want %q", last, wantLast)
	}
	for i := 1; i < len(envelope.Data); i++ {
		prev := envelope.Data[i-1]["month"].(string)
		cur := envelope.Data[i]["month"].(string)
		if prev >= cur {
			t.Errorf("months not ascending: %q before %q", prev, cur)
		}
	}

	// Current month counts both members; the oldest window predates every
	// join (the leader joined at group creation, Jean six months ago).
	if got := envelope.Data[11]["Réseau Nord"].(float64); got != 2 {
		t.Errorf("current month count: got %v, want 2", got)
	}
	if got := envelope.Data[0]["Réseau Nord"].(float64); got != 0 {
		t.Errorf("oldest month count: got %v, want 0", got)
	}
}

func TestHandleNetworkCompare_YearOverYear(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeaderUser(ctx, "Marie Dupont", "marie@example.com")
	network := fixtures.CreateNetwork(ctx, "Réseau Nord", leader.ID)
	group := fixtures.CreateGroup(ctx, "GR Nord 1", network.ID, leader.ID)

	// Jean joined mid-2023 and never left, so he counts at the end of both
	// years. The leader's interval opened at group creation (now) and
	// postdates both year ends.
	member := fixtures.CreateRegularUser(ctx, "Jean Petit", "jean@example.com")
	fixtures.AddGroupMember(ctx, group.ID, member.ID, time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC))

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/stats/networks/evolution/compare?years=2023,2024", testutil.AdminUser())
	rec := testutil.NewRecorder()

	h.HandleNetworkCompare(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	var envelope struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected success envelope")
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("rows: got %d, want 1", len(envelope.Data))
	}

	row := envelope.Data[0]
	if got := row["network"].(string); got != "Réseau Nord" {
		t.Errorf("network: got %q, want %q", got, "Réseau Nord")
	}
	if got := row["2023"].(float64); got != 1 {
		t.Errorf("2023 count: got %v, want 1", got)
	}
	if got := row["2024"].(float64); got != 1 {
		t.Errorf("2024 count: got %v, want 1", got)
	}
}

func TestHandleNetworkCompare_InvalidYears(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, target := range []string{
		"/api/stats/networks/evolution/compare",
		"/api/stats/networks/evolution/compare?years=2024",
		"/api/stats/networks/evolution/compare?years=abc,2024",
	} {
		req := testutil.NewAuthenticatedRequest(http.MethodGet, target, testutil.AdminUser())
		rec := testutil.NewRecorder()
		h.HandleNetworkCompare(rec.ResponseRecorder, req)
		rec.AssertStatus(t, http.StatusBadRequest)
	}
}
