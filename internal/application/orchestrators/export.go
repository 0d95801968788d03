package orchestrators

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"treasurecove/internal/adapters/export"
	"treasurecove/internal/application/workspace"
	"treasurecove/internal/domain/audit"
	"treasurecove/internal/domain/permission"
	"treasurecove/internal/domain/user"
)

// ExportInput selects what to export. LifeguardName is used by the monthly report.
type ExportInput struct {
	Dataset       string
	Format        string
	LifeguardName string
}

// ExecuteExport writes a dataset to w.
// PRE: Actor holds export_data and can see the dataset's section: audits and
// the monthly report need view_all_audits, lifeguards needs the lifeguards
// section and activity needs view_activity_log
// POST: State is unchanged
func ExecuteExport(ctx context.Context, input ExportInput, w io.Writer, deps Deps) (err error) {
	ws := deps.Workspace
	defer track(ws, "export", time.Now(), &err)

	actor, err := ws.Authorize(ctx, permission.ExportData)
	if err != nil {
		return err
	}
	dataset, err := export.ParseDataset(input.Dataset)
	if err != nil {
		return err
	}
	format, err := export.ResolveFormat(dataset, input.Format)
	if err != nil {
		return err
	}

	if err := exportAllowed(actor, dataset); err != nil {
		return err
	}

	st := ws.State()
	switch dataset {
	case export.DatasetAudits:
		err = export.Audits(w, format, st.Audits)
	case export.DatasetLifeguards:
		err = export.Lifeguards(w, format, st.Lifeguards)
	case export.DatasetActivity:
		err = export.Activity(w, format, st.Activity)
	case export.DatasetMonthly:
		name := strings.ToUpper(strings.TrimSpace(input.LifeguardName))
		if name == "" {
			return ErrMissingLifeguard
		}
		err = export.Monthly(w, format, audit.Monthly(st.Audits, name))
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", dataset, err)
	}

	slog.Info("export_event", "event", "exported", "dataset", dataset, "format", format, "by", actor.Username)
	return nil
}

// exportAllowed checks that actor may read the records behind dataset.
func exportAllowed(actor *user.User, dataset export.Dataset) error {
	var section permission.Section
	switch dataset {
	case export.DatasetAudits, export.DatasetMonthly:
		section = permission.SectionAudits
	case export.DatasetLifeguards:
		section = permission.SectionLifeguards
	case export.DatasetActivity:
		section = permission.SectionActivityLog
	}
	if !permission.CanView(actor.Permissions, section) {
		slog.Warn("auth_event", "event", "forbidden", "username", actor.Username, "export", dataset)
		return fmt.Errorf("%w: cannot export %s", workspace.ErrForbidden, dataset)
	}
	return nil
}
