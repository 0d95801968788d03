package projections

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"treasurecove/internal/application/listutil"
	"treasurecove/internal/domain/audit"
	"treasurecove/internal/domain/permission"
)

// AuditListQuery carries filters for the audit list.
type AuditListQuery struct {
	Search string // substring of the lifeguard name
	Month  string // YYYY-MM
	Type   string
	Result string
	listutil.PageParams
}

// AuditListResult carries the filtered page.
type AuditListResult struct {
	Rows []audit.Audit     `json:"rows"`
	Page listutil.PageInfo `json:"page"`
}

func sortAuditsNewestFirst(audits []audit.Audit) {
	sort.SliceStable(audits, func(i, j int) bool {
		a, b := audits[i], audits[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if a.Time != b.Time {
			return a.Time > b.Time
		}
		return a.ID > b.ID
	})
}

// QueryAuditList filters and pages audits, newest first.
// PRE: Actor holds view_all_audits
func QueryAuditList(ctx context.Context, q AuditListQuery, deps Deps) (AuditListResult, error) {
	ws := deps.Workspace
	if _, err := viewer(ctx, ws, permission.SectionAudits); err != nil {
		return AuditListResult{}, err
	}

	var typ audit.Type
	if strings.TrimSpace(q.Type) != "" {
		t, err := audit.ParseType(q.Type)
		if err != nil {
			return AuditListResult{}, err
		}
		typ = t
	}
	var result audit.Result
	if strings.TrimSpace(q.Result) != "" {
		r, err := audit.ParseResult(q.Result)
		if err != nil {
			return AuditListResult{}, err
		}
		result = r
	}
	month := strings.TrimSpace(q.Month)

	rows := []audit.Audit{}
	for _, a := range ws.State().Audits {
		switch {
		case typ != "" && a.Type != typ:
		case result != "" && a.Result != result:
		case month != "" && a.Month() != month:
		case !listutil.Matches(a.LifeguardName, q.Search):
		default:
			rows = append(rows, a)
		}
	}
	sortAuditsNewestFirst(rows)

	page, info := listutil.Paginate(rows, q.PageParams)
	return AuditListResult{Rows: page, Page: info}, nil
}

// QueryAuditDetails returns one audit.
// PRE: Actor holds view_all_audits
func QueryAuditDetails(ctx context.Context, id int, deps Deps) (audit.Audit, error) {
	ws := deps.Workspace
	if _, err := viewer(ctx, ws, permission.SectionAudits); err != nil {
		return audit.Audit{}, err
	}
	st := ws.State()
	i := st.AuditIndex(id)
	if i < 0 {
		return audit.Audit{}, fmt.Errorf("audit %d: %w", id, ErrNotFound)
	}
	return st.Audits[i], nil
}
