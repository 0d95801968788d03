package projections

import (
	"context"
	"strings"

	"treasurecove/internal/application/listutil"
	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/permission"
)

// ActivityLogQuery carries filters for the activity log.
type ActivityLogQuery struct {
	Search string // substring of the user or details
	Action string
	listutil.PageParams
}

// ActivityLogResult carries the filtered page, newest first.
type ActivityLogResult struct {
	Rows []activity.Entry  `json:"rows"`
	Page listutil.PageInfo `json:"page"`
}

// QueryActivityLog filters and pages the activity log.
// PRE: Actor holds view_activity_log
// POST: Rows keep the stored newest-first order
func QueryActivityLog(ctx context.Context, q ActivityLogQuery, deps Deps) (ActivityLogResult, error) {
	ws := deps.Workspace
	if _, err := viewer(ctx, ws, permission.SectionActivityLog); err != nil {
		return ActivityLogResult{}, err
	}
	var action activity.Action
	if strings.TrimSpace(q.Action) != "" {
		a, err := activity.ParseAction(q.Action)
		if err != nil {
			return ActivityLogResult{}, err
		}
		action = a
	}

	rows := []activity.Entry{}
	for _, e := range ws.State().Activity {
		if action != "" && e.Action != action {
			continue
		}
		if !listutil.Matches(e.User, q.Search) && !listutil.Matches(e.Details, q.Search) {
			continue
		}
		rows = append(rows, e)
	}

	page, info := listutil.Paginate(rows, q.PageParams)
	return ActivityLogResult{Rows: page, Page: info}, nil
}
