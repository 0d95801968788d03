package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"treasurecove/internal/adapters/notify"
	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/audit"
	"treasurecove/internal/domain/permission"
)

// ExecuteClearActivityLog empties the activity log after confirmation. Entry
// ids keep counting from where they were.
// PRE: Actor holds view_activity_log
// POST: On confirmation the log is empty and state is flushed
func ExecuteClearActivityLog(ctx context.Context, deps Deps) (err error) {
	ws := deps.Workspace
	defer track(ws, "activity.clear", time.Now(), &err)

	actor, err := ws.Authorize(ctx, permission.ViewActivityLog)
	if err != nil {
		return err
	}
	if !deps.confirm(ctx, "Are you sure you want to clear the activity log? This cannot be undone.") {
		return ErrCancelled
	}

	cleared := len(ws.State().Activity)
	ws.ClearActivity()
	ws.Flush(ctx)

	slog.Info("activity_event", "event", "activity_cleared", "entries", cleared, "by", actor.Username)
	ws.Notify(ctx, notify.Success("Activity log cleared"))
	return nil
}

// ViewMonthlyStatsInput names the lifeguard whose statistics are shown.
type ViewMonthlyStatsInput struct {
	LifeguardName string
}

// ExecuteViewMonthlyStats builds a lifeguard's monthly statistics and records
// that they were viewed.
// PRE: Actor holds view_all_audits
// POST: One VIEW_MONTHLY_STATS entry is appended and state is flushed
func ExecuteViewMonthlyStats(ctx context.Context, input ViewMonthlyStatsInput, deps Deps) (report audit.MonthlyReport, err error) {
	ws := deps.Workspace
	defer track(ws, "audits.monthly_stats", time.Now(), &err)

	if _, err := ws.Authorize(ctx, permission.ViewAllAudits); err != nil {
		return audit.MonthlyReport{}, err
	}
	name := strings.ToUpper(strings.TrimSpace(input.LifeguardName))
	if name == "" {
		return audit.MonthlyReport{}, ErrMissingLifeguard
	}

	report = audit.Monthly(ws.State().Audits, name)
	ws.LogActivity(ctx, activity.ActionViewMonthlyStats, "Viewed monthly statistics for "+name)
	return report, nil
}
