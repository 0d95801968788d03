package projections

import (
	"context"
	"sort"
	"time"

	"treasurecove/internal/adapters/perf"
	"treasurecove/internal/domain/permission"
	"treasurecove/internal/domain/user"
)

// metricsWindow is how far back storage timings are aggregated.
const metricsWindow = 24 * time.Hour

// NameCount pairs a name with a count.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AdminMetricsResult carries the admin metrics view.
type AdminMetricsResult struct {
	UsersByRole     map[user.Role]int `json:"users_by_role"`
	ActiveUsers     int               `json:"active_users"`
	InactiveUsers   int               `json:"inactive_users"`
	AuditsByAuditor []NameCount       `json:"audits_by_auditor"`
	ActivityEntries int               `json:"activity_entries"`
	Storage         perf.Snapshot     `json:"storage"`
}

// QueryAdminMetrics aggregates user, audit and storage timing figures.
// PRE: Actor holds view_admin_metrics
// POST: AuditsByAuditor is sorted by count descending, then name
func QueryAdminMetrics(ctx context.Context, deps Deps) (AdminMetricsResult, error) {
	ws := deps.Workspace
	if _, err := viewer(ctx, ws, permission.SectionAdminMetrics); err != nil {
		return AdminMetricsResult{}, err
	}
	st := ws.State()

	res := AdminMetricsResult{
		UsersByRole:     make(map[user.Role]int, len(user.ValidRoles)),
		ActivityEntries: len(st.Activity),
	}
	for _, r := range user.ValidRoles {
		res.UsersByRole[r] = 0
	}
	for _, u := range st.Users {
		res.UsersByRole[u.Role]++
		if u.Active {
			res.ActiveUsers++
		} else {
			res.InactiveUsers++
		}
	}

	byAuditor := make(map[string]int)
	for _, a := range st.Audits {
		byAuditor[a.AuditorName]++
	}
	res.AuditsByAuditor = make([]NameCount, 0, len(byAuditor))
	for name, n := range byAuditor {
		res.AuditsByAuditor = append(res.AuditsByAuditor, NameCount{Name: name, Count: n})
	}
	sort.Slice(res.AuditsByAuditor, func(i, j int) bool {
		a, b := res.AuditsByAuditor[i], res.AuditsByAuditor[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})

	res.Storage = ws.Collector().Snapshot(ws.Now().Add(-metricsWindow), 5)
	return res, nil
}
