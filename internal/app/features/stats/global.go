// internal/app/features/stats/global.go
package stats

import (
	"context"
	"net/http"

	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	"github.com/impactcentre/churchhub/internal/app/features/shared/respond"
	groupstore "github.com/impactcentre/churchhub/internal/app/store/groups"
	networkstore "github.com/impactcentre/churchhub/internal/app/store/networks"
	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	"github.com/impactcentre/churchhub/internal/app/system/qualification"
	"github.com/impactcentre/churchhub/internal/app/system/timeouts"
)

// GlobalStats is the flat totals object served at GET /api/stats.
type GlobalStats struct {
	TotalGouvernance      int64 `json:"total_gouvernance"`
	TotalReseaux          int64 `json:"total_reseaux"`
	TotalRespReseaux      int64 `json:"total_resp_reseaux"`
	TotalGR               int64 `json:"total_gr"`
	TotalRespGR           int64 `json:"total_resp_gr"`
	TotalLeadersAll       int64 `json:"total_leaders_all"`
	TotalReguliers        int64 `json:"total_reguliers"`
	TotalIntegration      int64 `json:"total_integration"`
	TotalIrreguliers      int64 `json:"total_irreguliers"`
	TotalEcodim           int64 `json:"total_ecodim"`
	TotalRespEcodim       int64 `json:"total_resp_ecodim"`
	TotalPersonnesIsolees int64 `json:"total_personnes_isolees"`
	TotalAll              int64 `json:"total_all"`
}

// HandleGlobalStats serves the membership totals. The counts are
// independent queries with no snapshot consistency between them; the whole
// aggregation either completes or fails.
//
// GET /api/stats
func (h *Handler) HandleGlobalStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "global stats")
	defer cancel()

	out, err := h.collectGlobalStats(ctx)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			apierrors.Timeout(w, "Statistics aggregation timed out.")
			return
		}
		h.ErrLog.LogServerError(w, r, "statistics aggregation failed", err, "Failed to compute statistics.")
		return
	}

	respond.JSON(w, http.StatusOK, out)
}

func (h *Handler) collectGlobalStats(ctx context.Context) (GlobalStats, error) {
	users := userstore.New(h.DB)
	grpStore := groupstore.New(h.DB)

	var out GlobalStats
	var err error

	if out.TotalGouvernance, err = users.CountByQualification(ctx, qualification.Governance); err != nil {
		return out, err
	}
	if out.TotalReseaux, err = networkstore.New(h.DB).CountAll(ctx); err != nil {
		return out, err
	}
	if out.TotalRespReseaux, err = users.CountByQualification(ctx, qualification.NetworkResponsible); err != nil {
		return out, err
	}
	if out.TotalGR, err = grpStore.CountAll(ctx); err != nil {
		return out, err
	}
	if out.TotalRespGR, err = users.CountByQualification(ctx, qualification.ResponsibleSet...); err != nil {
		return out, err
	}
	if out.TotalLeadersAll, err = users.CountByQualification(ctx,
		qualification.Leader, qualification.Twelve,
		qualification.HundredFortyFour, qualification.TierTwelveCubed); err != nil {
		return out, err
	}
	if out.TotalReguliers, err = users.CountByQualification(ctx, qualification.Regular); err != nil {
		return out, err
	}
	if out.TotalIntegration, err = users.CountByQualification(ctx, qualification.Integration); err != nil {
		return out, err
	}
	if out.TotalIrreguliers, err = users.CountByQualification(ctx, qualification.Irregular); err != nil {
		return out, err
	}
	if out.TotalEcodim, err = users.CountByQualification(ctx, qualification.Ecodim); err != nil {
		return out, err
	}
	if out.TotalRespEcodim, err = users.CountByQualification(ctx, qualification.EcodimResponsible); err != nil {
		return out, err
	}

	grouped, err := grpStore.DistinctMemberIDs(ctx)
	if err != nil {
		return out, err
	}
	if out.TotalPersonnesIsolees, err = users.CountIsolated(ctx, grouped); err != nil {
		return out, err
	}

	if out.TotalAll, err = users.CountAll(ctx); err != nil {
		return out, err
	}
	return out, nil
}
