package projections

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"treasurecove/internal/application/listutil"
	"treasurecove/internal/domain/audit"
	"treasurecove/internal/domain/lifeguard"
	"treasurecove/internal/domain/permission"
)

// Lifeguard list sort orders.
const (
	SortNameAsc  = "name-asc"
	SortNameDesc = "name-desc"
	SortDateAsc  = "date-asc"
	SortDateDesc = "date-desc"
)

var lifeguardSorts = []string{SortNameAsc, SortNameDesc, SortDateAsc, SortDateDesc}

// LifeguardListQuery carries filters for the lifeguard list.
type LifeguardListQuery struct {
	Search string // substring of the name
	Status string // ACTIVE, INACTIVE or empty for all
	Sort   string // one of name-asc, name-desc, date-asc, date-desc
	listutil.PageParams
}

// LifeguardRow is a lifeguard with audit summary columns.
type LifeguardRow struct {
	lifeguard.Lifeguard
	AuditCount    int    `json:"audit_count"`
	LastAuditDate string `json:"last_audit_date"`
}

// LifeguardListResult carries the filtered page.
type LifeguardListResult struct {
	Rows []LifeguardRow    `json:"rows"`
	Page listutil.PageInfo `json:"page"`
}

type auditSummary struct {
	count int
	last  string
}

func summarizeAudits(audits []audit.Audit) map[string]auditSummary {
	out := make(map[string]auditSummary)
	for _, a := range audits {
		s := out[a.LifeguardName]
		s.count++
		if a.Date > s.last {
			s.last = a.Date
		}
		out[a.LifeguardName] = s
	}
	return out
}

// QueryLifeguardList filters, sorts and pages the roster.
// PRE: Actor may view the lifeguards section
// POST: Default order is name ascending
func QueryLifeguardList(ctx context.Context, q LifeguardListQuery, deps Deps) (LifeguardListResult, error) {
	ws := deps.Workspace
	if _, err := viewer(ctx, ws, permission.SectionLifeguards); err != nil {
		return LifeguardListResult{}, err
	}
	var status lifeguard.Status
	if strings.TrimSpace(q.Status) != "" {
		s, err := lifeguard.ParseStatus(q.Status)
		if err != nil {
			return LifeguardListResult{}, err
		}
		status = s
	}

	st := ws.State()
	summary := summarizeAudits(st.Audits)
	rows := make([]LifeguardRow, 0, len(st.Lifeguards))
	for _, l := range st.Lifeguards {
		if status != "" && l.Status != status {
			continue
		}
		if !listutil.Matches(l.Name, q.Search) {
			continue
		}
		s := summary[l.Name]
		rows = append(rows, LifeguardRow{Lifeguard: l, AuditCount: s.count, LastAuditDate: s.last})
	}

	switch listutil.ParseSort(q.Sort, lifeguardSorts, SortNameAsc) {
	case SortNameAsc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	case SortNameDesc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name > rows[j].Name })
	case SortDateAsc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].HireDate < rows[j].HireDate })
	case SortDateDesc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].HireDate > rows[j].HireDate })
	}

	page, info := listutil.Paginate(rows, q.PageParams)
	return LifeguardListResult{Rows: page, Page: info}, nil
}

// LifeguardDetails is one lifeguard with their audit history, newest first.
type LifeguardDetails struct {
	LifeguardRow
	Audits []audit.Audit `json:"audits"`
}

// QueryLifeguardDetails returns a lifeguard by sheet number.
// PRE: Actor may view the lifeguards section
func QueryLifeguardDetails(ctx context.Context, sheetNumber string, deps Deps) (LifeguardDetails, error) {
	ws := deps.Workspace
	if _, err := viewer(ctx, ws, permission.SectionLifeguards); err != nil {
		return LifeguardDetails{}, err
	}
	st := ws.State()
	i := st.LifeguardIndex(strings.TrimSpace(sheetNumber))
	if i < 0 {
		return LifeguardDetails{}, fmt.Errorf("lifeguard sheet %q: %w", sheetNumber, ErrNotFound)
	}
	l := st.Lifeguards[i]

	d := LifeguardDetails{LifeguardRow: LifeguardRow{Lifeguard: l}, Audits: []audit.Audit{}}
	for _, a := range st.Audits {
		if a.LifeguardName == l.Name {
			d.Audits = append(d.Audits, a)
		}
	}
	sortAuditsNewestFirst(d.Audits)
	d.AuditCount = len(d.Audits)
	if d.AuditCount > 0 {
		d.LastAuditDate = d.Audits[0].Date
	}
	return d, nil
}

// QueryNextSheetNumber returns the sheet number the next new lifeguard will get.
// PRE: Actor holds manage_lifeguards
// POST: Nothing is reserved
func QueryNextSheetNumber(ctx context.Context, deps Deps) (string, error) {
	ws := deps.Workspace
	if _, err := ws.Authorize(ctx, permission.ManageLifeguards); err != nil {
		return "", err
	}
	return ws.State().PeekSheetNumber(), nil
}
