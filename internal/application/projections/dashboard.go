package projections

import (
	"context"

	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/audit"
	"treasurecove/internal/domain/permission"
)

// recentActivityLimit is how many log entries the dashboard shows.
const recentActivityLimit = 5

// ResultCount is one bar of the results chart.
type ResultCount struct {
	Result audit.Result `json:"result"`
	Count  int          `json:"count"`
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Username         string               `json:"username"`
	ActiveLifeguards int                  `json:"active_lifeguards"`
	TotalAudits      int                  `json:"total_audits"`
	AuditsThisMonth  int                  `json:"audits_this_month"`
	PassRate         int                  `json:"pass_rate"`
	RecentActivity   []activity.Entry     `json:"recent_activity"`
	ResultsBreakdown []ResultCount        `json:"results_breakdown"`
	Sections         []permission.Section `json:"sections"`
}

// QueryDashboard builds the landing page aggregates.
// PRE: A session is active
// POST: PassRate is 0 when there are no audits
// POST: ResultsBreakdown follows EXCEEDS, MEETS, FAILS order and omits zero counts
func QueryDashboard(ctx context.Context, deps Deps) (DashboardResult, error) {
	ws := deps.Workspace
	u, err := ws.Actor(ctx)
	if err != nil {
		return DashboardResult{}, err
	}
	st := ws.State()

	res := DashboardResult{
		Username:    u.Username,
		TotalAudits: len(st.Audits),
		Sections:    permission.Sections(u.Permissions),
	}
	for _, l := range st.Lifeguards {
		if l.Active {
			res.ActiveLifeguards++
		}
	}

	thisMonth := ws.Now().Format(audit.MonthLayout)
	counts := make(map[audit.Result]int, len(audit.ValidResults))
	passed := 0
	for _, a := range st.Audits {
		if a.Month() == thisMonth {
			res.AuditsThisMonth++
		}
		if a.Result.Passed() {
			passed++
		}
		counts[a.Result]++
	}
	if res.TotalAudits > 0 {
		res.PassRate = audit.Percent(passed, res.TotalAudits)
	}

	res.ResultsBreakdown = []ResultCount{}
	for _, r := range audit.ValidResults {
		if n := counts[r]; n > 0 {
			res.ResultsBreakdown = append(res.ResultsBreakdown, ResultCount{Result: r, Count: n})
		}
	}

	n := min(recentActivityLimit, len(st.Activity))
	res.RecentActivity = append([]activity.Entry{}, st.Activity[:n]...)
	return res, nil
}

// QueryMonthlyStats builds a lifeguard's monthly statistics without recording
// a view.
// PRE: Actor holds view_all_audits
func QueryMonthlyStats(ctx context.Context, lifeguardName string, deps Deps) (audit.MonthlyReport, error) {
	ws := deps.Workspace
	if _, err := ws.Authorize(ctx, permission.ViewAllAudits); err != nil {
		return audit.MonthlyReport{}, err
	}
	return audit.Monthly(ws.State().Audits, lifeguardName), nil
}
