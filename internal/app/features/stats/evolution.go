// internal/app/features/stats/evolution.go
package stats

import (
	"context"
	"net/http"
	"time"

	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	groupstore "github.com/impactcentre/churchhub/internal/app/store/groups"
	networkstore "github.com/impactcentre/churchhub/internal/app/store/networks"
	"github.com/impactcentre/churchhub/internal/app/system/ledger"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
	"github.com/impactcentre/churchhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// evolutionMonths is the fixed depth of the rolling member-count series.
const evolutionMonths = 12

// HandleNetworkEvolution serves the per-network member counts for the last
// twelve calendar months, months ascending and ending at the current month.
// Each network's count at a month end is the union of its groups' members
// replayed from the ledger at that instant, so past members are counted in
// past months even after leaving.
//
// GET /api/stats/networks/evolution
func (h *Handler) HandleNetworkEvolution(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "network evolution stats")
	defer cancel()

	rows, err := h.collectEvolution(ctx, time.Now())
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			apierrors.Timeout(w, "Statistics aggregation timed out.")
			return
		}
		h.ErrLog.LogServerError(w, r, "evolution aggregation failed", err, "Failed to compute statistics.")
		return
	}

	respond.Data(w, http.StatusOK, rows)
}

func (h *Handler) collectEvolution(ctx context.Context, now time.Time) ([]map[string]any, error) {
	networks, err := networkstore.New(h.DB).List(ctx)
	if err != nil {
		return nil, err
	}
	groupsByNet, err := h.groupsByNetwork(ctx)
	if err != nil {
		return nil, err
	}

	windows := ledger.LastNMonths(now, evolutionMonths)
	rows := make([]map[string]any, 0, len(windows))
	for _, win := range windows {
		row := map[string]any{"month": win.Label}
		for _, n := range networks {
			row[n.Name] = countNetworkMembersAt(groupsByNet[n.ID], win.End)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// groupsByNetwork loads every group once and buckets them by network so the
// replay never re-reads a group per month window.
func (h *Handler) groupsByNetwork(ctx context.Context) (map[primitive.ObjectID][]models.Group, error) {
	all, err := groupstore.New(h.DB).List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID][]models.Group)
	for _, g := range all {
		out[g.NetworkID] = append(out[g.NetworkID], g)
	}
	return out, nil
}

// countNetworkMembersAt unions MembersAsOf across the network's groups; a
// user in two groups of the same network counts once.
func countNetworkMembersAt(groups []models.Group, t time.Time) int {
	union := make(map[primitive.ObjectID]struct{})
	for _, g := range groups {
		for id := range ledger.MembersAsOf(g.MembersHistory, t) {
			union[id] = struct{}{}
		}
	}
	return len(union)
}
