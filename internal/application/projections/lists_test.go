package projections

import (
	"context"
	"errors"
	"testing"

	"treasurecove/internal/application/listutil"
	"treasurecove/internal/application/workspace"
	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/audit"
	"treasurecove/internal/domain/lifeguard"
	"treasurecove/internal/domain/user"
)

// TestQueryLifeguardList verifies search, status filter, sorts and audit columns.
func TestQueryLifeguardList(t *testing.T) {
	deps := newDeps(t, adminID)
	ctx := context.Background()
	deps.Workspace.State().Lifeguards[1].Status = lifeguard.StatusInactive
	deps.Workspace.State().Lifeguards[1].Active = false

	res, err := QueryLifeguardList(ctx, LifeguardListQuery{}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 10 || res.Rows[0].Name != "CARLOS RODRIGUEZ" {
		t.Errorf("expected 10 rows sorted by name, first %q", res.Rows[0].Name)
	}

	res, err = QueryLifeguardList(ctx, LifeguardListQuery{Search: "mia"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0].AuditCount != 2 || res.Rows[0].LastAuditDate != "2025-08-15" {
		t.Errorf("unexpected MIA row %+v", res.Rows)
	}

	res, err = QueryLifeguardList(ctx, LifeguardListQuery{Status: "inactive"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0].Name != "NATHAN RAMLAKHAN" {
		t.Errorf("expected only the inactive lifeguard, got %+v", res.Rows)
	}

	res, err = QueryLifeguardList(ctx, LifeguardListQuery{Sort: "date-desc", PageParams: listutil.PageParams{Page: 1, PerPage: 10}}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Rows[0].HireDate != "2025-03-15" {
		t.Errorf("expected most recent hire first, got %s", res.Rows[0].HireDate)
	}

	if _, err := QueryLifeguardList(ctx, LifeguardListQuery{Status: "retired"}, deps); err == nil {
		t.Error("expected invalid status filter to fail")
	}
}

// TestQueryLifeguardDetails verifies history and not-found handling.
func TestQueryLifeguardDetails(t *testing.T) {
	deps := newDeps(t, viewerID)
	d, err := QueryLifeguardDetails(context.Background(), "01", deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name != "MIA FIGUEROA" || d.AuditCount != 2 || d.Audits[0].Date != "2025-08-15" {
		t.Errorf("unexpected details %+v", d)
	}
	if _, err := QueryLifeguardDetails(context.Background(), "99", deps); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestQueryNextSheetNumber verifies the prefill value and its gate.
func TestQueryNextSheetNumber(t *testing.T) {
	got, err := QueryNextSheetNumber(context.Background(), newDeps(t, adminID))
	if err != nil || got != "11" {
		t.Errorf("expected 11, got %q (%v)", got, err)
	}
	if _, err := QueryNextSheetNumber(context.Background(), newDeps(t, viewerID)); !errors.Is(err, workspace.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

// TestQueryAuditList verifies filters and newest-first ordering.
func TestQueryAuditList(t *testing.T) {
	deps := newDeps(t, viewerID)
	ctx := context.Background()

	res, err := QueryAuditList(ctx, AuditListQuery{}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 10 || res.Rows[0].Date != "2025-10-05" {
		t.Errorf("expected newest first, got %s", res.Rows[0].Date)
	}

	res, err = QueryAuditList(ctx, AuditListQuery{Month: "2025-09", Type: "skill"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Errorf("expected 2 skill audits in September, got %d", len(res.Rows))
	}
	for _, a := range res.Rows {
		if a.Type != audit.TypeSkill || a.Month() != "2025-09" {
			t.Errorf("unexpected row %+v", a)
		}
	}

	res, err = QueryAuditList(ctx, AuditListQuery{Result: "meets", Search: "nathan"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0].ID != 2 {
		t.Errorf("expected audit #2, got %+v", res.Rows)
	}

	if _, err := QueryAuditDetails(ctx, 404, deps); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestQueryActivityLog verifies the gate and filters.
func TestQueryActivityLog(t *testing.T) {
	ctx := context.Background()
	if _, err := QueryActivityLog(ctx, ActivityLogQuery{}, newDeps(t, viewerID)); !errors.Is(err, workspace.ErrForbidden) {
		t.Errorf("expected ErrForbidden for viewer, got %v", err)
	}

	deps := newDeps(t, adminID)
	res, err := QueryActivityLog(ctx, ActivityLogQuery{Action: "login"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Errorf("expected 2 seed LOGIN entries, got %d", len(res.Rows))
	}
	for _, e := range res.Rows {
		if e.Action != activity.ActionLogin {
			t.Errorf("unexpected action %s", e.Action)
		}
	}

	res, err = QueryActivityLog(ctx, ActivityLogQuery{Search: "sofia"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Errorf("expected a details match, got %d", len(res.Rows))
	}
}

// TestQueryUserList verifies filters and that hashes are not exposed.
func TestQueryUserList(t *testing.T) {
	ctx := context.Background()
	deps := newDeps(t, seniorID)
	deps.Workspace.State().Users[3].Active = false

	res, err := QueryUserList(ctx, UserListQuery{Role: "admin"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 6 {
		t.Errorf("expected 6 admins, got %d", len(res.Rows))
	}

	res, err = QueryUserList(ctx, UserListQuery{Status: "inactive"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0].ID != 4 {
		t.Errorf("expected user 4 only, got %+v", res.Rows)
	}

	d, err := QueryUserDetails(ctx, seniorID, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Protected || d.PermissionCount != 11 || d.Role != user.RoleSeniorAdmin {
		t.Errorf("unexpected senior row %+v", d)
	}

	if _, err := QueryUserList(ctx, UserListQuery{}, newDeps(t, adminID)); !errors.Is(err, workspace.ErrForbidden) {
		t.Errorf("expected ErrForbidden for admin without manage_users, got %v", err)
	}
}

// TestQueryAdminMetrics verifies counts and the gate.
func TestQueryAdminMetrics(t *testing.T) {
	ctx := context.Background()
	res, err := QueryAdminMetrics(ctx, newDeps(t, seniorID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UsersByRole[user.RoleAdmin] != 6 || res.UsersByRole[user.RoleViewer] != 1 || res.ActiveUsers != 8 {
		t.Errorf("unexpected user counts %+v", res)
	}
	if len(res.AuditsByAuditor) == 0 || res.AuditsByAuditor[0].Count != 2 {
		t.Errorf("expected top auditor with 2 audits, got %+v", res.AuditsByAuditor)
	}
	if _, err := QueryAdminMetrics(ctx, newDeps(t, adminID)); !errors.Is(err, workspace.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}
