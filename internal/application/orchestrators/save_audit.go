package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"treasurecove/internal/adapters/notify"
	"treasurecove/internal/application/workspace"
	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/audit"
	"treasurecove/internal/domain/permission"
)

// SaveAuditInput carries the audit form fields.
type SaveAuditInput struct {
	LifeguardName string
	Date          string
	Time          string
	Type          string
	SkillDetail   string
	AuditorName   string
	Result        string
	Notes         string
	FollowUp      string
}

func (in SaveAuditInput) candidate() audit.Audit {
	a := audit.Audit{
		LifeguardName: strings.ToUpper(strings.TrimSpace(in.LifeguardName)),
		Date:          strings.TrimSpace(in.Date),
		Time:          strings.TrimSpace(in.Time),
		Type:          audit.Type(strings.TrimSpace(in.Type)),
		SkillDetail:   strings.TrimSpace(in.SkillDetail),
		AuditorName:   strings.TrimSpace(in.AuditorName),
		Result:        audit.Result(strings.TrimSpace(in.Result)),
		Notes:         strings.TrimSpace(in.Notes),
		FollowUp:      strings.TrimSpace(in.FollowUp),
	}
	if t, err := audit.ParseType(in.Type); err == nil {
		a.Type = t
	}
	if r, err := audit.ParseResult(in.Result); err == nil {
		a.Result = r
	}
	return a
}

// ExecuteSaveAudit creates an audit, or updates the one open in the editor.
// PRE: create requires create_audits; update requires edit_all_audits
// POST: The lifeguard name is stored upper-cased, matching the roster's form
// POST: On create LastEditedBy/At are nil; on update both are the actor and now
// POST: One activity entry is appended, state is flushed and the editor is closed
func ExecuteSaveAudit(ctx context.Context, input SaveAuditInput, deps Deps) (saved audit.Audit, err error) {
	ws := deps.Workspace
	defer track(ws, "audits.save", time.Now(), &err)

	target, editing := ws.Editing(workspace.EditAudit)
	required := permission.CreateAudits
	if editing {
		required = permission.EditAllAudits
	}
	actor, err := ws.Authorize(ctx, required)
	if err != nil {
		return audit.Audit{}, err
	}

	cand := input.candidate()
	if err := cand.Validate(); err != nil {
		return audit.Audit{}, err
	}

	st := ws.State()
	if st.LifeguardIndexByName(cand.LifeguardName) < 0 {
		slog.Warn("audit_event", "event", "unknown_lifeguard", "lifeguard", cand.LifeguardName, "by", actor.Username)
	}
	now := ws.Now()
	if editing {
		id, _ := strconv.Atoi(target.Key)
		i := st.AuditIndex(id)
		if i < 0 {
			ws.CancelEdit()
			return audit.Audit{}, fmt.Errorf("audit %d: %w", id, ErrNotFound)
		}
		a := &st.Audits[i]
		a.LifeguardName = cand.LifeguardName
		a.Date = cand.Date
		a.Time = cand.Time
		a.Type = cand.Type
		a.SkillDetail = cand.SkillDetail
		a.AuditorName = cand.AuditorName
		a.Result = cand.Result
		a.Notes = cand.Notes
		a.FollowUp = cand.FollowUp
		editor := actor.Username
		a.LastEditedBy = &editor
		a.LastEditedAt = &now
		saved = *a
		ws.LogActivity(ctx, activity.ActionEditAudit, fmt.Sprintf("Updated audit #%d for %s", a.ID, a.LifeguardName))
	} else {
		cand.ID = st.NextAuditID()
		cand.CreatedBy = actor.Username
		cand.CreatedAt = now
		st.Audits = append(st.Audits, cand)
		saved = cand
		ws.LogActivity(ctx, activity.ActionCreateAudit, "Created new audit for "+cand.LifeguardName)
	}

	ws.CancelEdit()

	slog.Info("audit_event", "event", "audit_saved", "audit_id", saved.ID, "lifeguard", saved.LifeguardName, "result", saved.Result, "updated", editing, "by", actor.Username)
	if saved.Result == audit.ResultFails {
		ws.Notify(ctx, notify.Warning("%s received FAILS on a %s audit (%s %s, auditor %s)",
			saved.LifeguardName, saved.Type, saved.Date, saved.Time, saved.AuditorName))
	}
	if editing {
		ws.Notify(ctx, notify.Success("Audit #%d updated", saved.ID))
	} else {
		ws.Notify(ctx, notify.Success("Audit #%d created", saved.ID))
	}
	return saved, nil
}
