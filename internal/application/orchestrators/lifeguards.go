package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"treasurecove/internal/adapters/notify"
	"treasurecove/internal/application/workspace"
	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/lifeguard"
	"treasurecove/internal/domain/permission"
)

// SaveLifeguardInput carries the lifeguard form fields.
type SaveLifeguardInput struct {
	Name     string
	HireDate string
	Status   string
}

// ExecuteSaveLifeguard creates a lifeguard, or updates the one open in the editor.
// PRE: Actor holds manage_lifeguards
// POST: Name is upper-cased; Active == (Status == ACTIVE)
// POST: New lifeguards get the next sheet number, never a reused one
func ExecuteSaveLifeguard(ctx context.Context, input SaveLifeguardInput, deps Deps) (saved lifeguard.Lifeguard, err error) {
	ws := deps.Workspace
	defer track(ws, "lifeguards.save", time.Now(), &err)

	actor, err := ws.Authorize(ctx, permission.ManageLifeguards)
	if err != nil {
		return lifeguard.Lifeguard{}, err
	}

	cand := lifeguard.Lifeguard{
		Name:     input.Name,
		HireDate: input.HireDate,
		Status:   lifeguard.Status(strings.TrimSpace(input.Status)),
	}
	if s, err := lifeguard.ParseStatus(input.Status); err == nil {
		cand.Status = s
	}

	st := ws.State()
	target, editing := ws.Editing(workspace.EditLifeguard)
	i := -1
	if editing {
		if i = st.LifeguardIndex(target.Key); i < 0 {
			ws.CancelEdit()
			return lifeguard.Lifeguard{}, fmt.Errorf("lifeguard sheet %s: %w", target.Key, ErrNotFound)
		}
		cand.SheetNumber = target.Key
	} else {
		cand.SheetNumber = st.PeekSheetNumber()
	}
	cand.Normalize()
	if err := cand.Validate(); err != nil {
		return lifeguard.Lifeguard{}, err
	}

	if editing {
		st.Lifeguards[i] = cand
		ws.LogActivity(ctx, activity.ActionEditLifeguard, fmt.Sprintf("Updated lifeguard %s (Sheet %s)", cand.Name, cand.SheetNumber))
	} else {
		cand.SheetNumber = st.NextSheetNumber()
		cand.Normalize()
		st.Lifeguards = append(st.Lifeguards, cand)
		ws.LogActivity(ctx, activity.ActionCreateLifeguard, fmt.Sprintf("Added new lifeguard %s (Sheet %s)", cand.Name, cand.SheetNumber))
	}

	ws.CancelEdit()

	slog.Info("lifeguard_event", "event", "lifeguard_saved", "sheet_number", cand.SheetNumber, "name", cand.Name, "status", cand.Status, "updated", editing, "by", actor.Username)
	ws.Notify(ctx, notify.Success("Lifeguard %s saved (Sheet %s)", cand.Name, cand.SheetNumber))
	return cand, nil
}

// DeleteLifeguardInput identifies the lifeguard to remove.
type DeleteLifeguardInput struct {
	SheetNumber string
}

// ExecuteDeleteLifeguard removes a lifeguard after confirmation. Audits that
// reference the lifeguard by name are kept.
// PRE: Actor holds manage_lifeguards
// POST: On confirmation the record is gone, one DELETE_LIFEGUARD entry is appended and state is flushed
func ExecuteDeleteLifeguard(ctx context.Context, input DeleteLifeguardInput, deps Deps) (err error) {
	ws := deps.Workspace
	defer track(ws, "lifeguards.delete", time.Now(), &err)

	actor, err := ws.Authorize(ctx, permission.ManageLifeguards)
	if err != nil {
		return err
	}

	st := ws.State()
	sheet := strings.TrimSpace(input.SheetNumber)
	i := st.LifeguardIndex(sheet)
	if i < 0 {
		return fmt.Errorf("lifeguard sheet %q: %w", sheet, ErrNotFound)
	}
	lg := st.Lifeguards[i]

	if !deps.confirm(ctx, fmt.Sprintf("Are you sure you want to delete %s (Sheet %s)?", lg.Name, lg.SheetNumber)) {
		return ErrCancelled
	}

	st.RemoveLifeguard(i)
	if t, ok := ws.Editing(workspace.EditLifeguard); ok && t.Key == lg.SheetNumber {
		ws.CancelEdit()
	}
	ws.LogActivity(ctx, activity.ActionDeleteLifeguard, fmt.Sprintf("Deleted lifeguard %s (Sheet %s)", lg.Name, lg.SheetNumber))

	slog.Info("lifeguard_event", "event", "lifeguard_deleted", "sheet_number", lg.SheetNumber, "name", lg.Name, "by", actor.Username)
	ws.Notify(ctx, notify.Success("Lifeguard %s deleted", lg.Name))
	return nil
}
