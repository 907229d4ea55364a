// internal/app/features/stats/compare.go
package stats

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	networkstore "github.com/impactcentre/churchhub/internal/app/store/networks"
	"github.com/impactcentre/churchhub/internal/app/system/ledger"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
)

// HandleNetworkCompare serves a year-over-year member count per network,
// each year evaluated at its last instant (Dec 31 23:59:59.999 local time).
//
// GET /api/stats/networks/evolution/compare?years=Y1,Y2
func (h *Handler) HandleNetworkCompare(w http.ResponseWriter, r *http.Request) {
	year1, year2, err := parseYearsParam(r.URL.Query().Get("years"))
	if err != nil {
		apierrors.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "network compare stats")
	defer cancel()

	rows, err := h.collectCompare(ctx, year1, year2)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			apierrors.Timeout(w, "Statistics aggregation timed out.")
			return
		}
		h.ErrLog.LogServerError(w, r, "compare aggregation failed", err, "Failed to compute statistics.")
		return
	}

	respond.Data(w, http.StatusOK, rows)
}

// parseYearsParam validates the years query parameter: a comma-separated
// pair of integers, both required.
func parseYearsParam(raw string) (int, int, error) {
	if raw == "" {
		return 0, 0, fmt.Errorf("years parameter is required (e.g. years=2023,2024)")
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("years must be a comma-separated pair of integers")
	}
	year1, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("years must be a comma-separated pair of integers")
	}
	year2, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("years must be a comma-separated pair of integers")
	}
	return year1, year2, nil
}

func (h *Handler) collectCompare(ctx context.Context, year1, year2 int) ([]map[string]any, error) {
	networks, err := networkstore.New(h.DB).List(ctx)
	if err != nil {
		return nil, err
	}
	groupsByNet, err := h.groupsByNetwork(ctx)
	if err != nil {
		return nil, err
	}

	end1 := ledger.YearEnd(year1, time.Local)
	end2 := ledger.YearEnd(year2, time.Local)

	rows := make([]map[string]any, 0, len(networks))
	for _, n := range networks {
		rows = append(rows, map[string]any{
			"network":           n.Name,
			strconv.Itoa(year1): countNetworkMembersAt(groupsByNet[n.ID], end1),
			strconv.Itoa(year2): countNetworkMembersAt(groupsByNet[n.ID], end2),
		})
	}
	return rows, nil
}
