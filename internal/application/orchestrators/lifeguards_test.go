package orchestrators

import (
	"context"
	"errors"
	"testing"

	"treasurecove/internal/application/workspace"
	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/lifeguard"
	"treasurecove/internal/domain/validation"
)

// TestExecuteSaveLifeguard_Create verifies numbering, upper-casing and status sync.
func TestExecuteSaveLifeguard_Create(t *testing.T) {
	h := newHarness(t)
	h.login(t, adminName, adminPass)

	lg, err := ExecuteSaveLifeguard(context.Background(), SaveLifeguardInput{
		Name: "  ana lucia  ", HireDate: "2025-06-01", Status: "inactive",
	}, h.deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lg.SheetNumber != "11" || lg.SheetName != "Lifeguard_Audit_Sheet_11" {
		t.Errorf("expected sheet 11, got %s / %s", lg.SheetNumber, lg.SheetName)
	}
	if lg.Name != "ANA LUCIA" {
		t.Errorf("expected upper-cased name, got %q", lg.Name)
	}
	if lg.Active || lg.Status != lifeguard.StatusInactive {
		t.Errorf("expected inactive, got active=%v status=%s", lg.Active, lg.Status)
	}
	if e := h.state().Activity[0]; e.Action != activity.ActionCreateLifeguard || e.Details != "Added new lifeguard ANA LUCIA (Sheet 11)" {
		t.Errorf("unexpected entry: %+v", e)
	}
}

// TestExecuteSaveLifeguard_Edit verifies the record is replaced in place.
func TestExecuteSaveLifeguard_Edit(t *testing.T) {
	h := newHarness(t)
	h.login(t, adminName, adminPass)
	ctx := context.Background()

	if err := ExecuteOpenEditor(ctx, OpenEditorInput{Kind: workspace.EditLifeguard, Key: "03"}, h.deps); err != nil {
		t.Fatalf("open editor: %v", err)
	}
	lg, err := ExecuteSaveLifeguard(ctx, SaveLifeguardInput{Name: "Jason Moll", HireDate: "2025-01-02", Status: "ACTIVE"}, h.deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lg.SheetNumber != "03" || len(h.state().Lifeguards) != 10 {
		t.Errorf("expected sheet 03 updated in place, got %s with %d lifeguards", lg.SheetNumber, len(h.state().Lifeguards))
	}
	if got := h.state().Lifeguards[2]; got.HireDate != "2025-01-02" || !got.Active {
		t.Errorf("unexpected stored lifeguard %+v", got)
	}
	if e := h.state().Activity[0]; e.Details != "Updated lifeguard JASON MOLL (Sheet 03)" {
		t.Errorf("unexpected entry: %+v", e)
	}
}

// TestExecuteSaveLifeguard_Validation verifies required fields.
func TestExecuteSaveLifeguard_Validation(t *testing.T) {
	h := newHarness(t)
	h.login(t, adminName, adminPass)
	for _, in := range []SaveLifeguardInput{
		{Name: "", HireDate: "2025-01-01", Status: "ACTIVE"},
		{Name: "X", HireDate: "", Status: "ACTIVE"},
		{Name: "X", HireDate: "2025-01-01", Status: "RETIRED"},
	} {
		if _, err := ExecuteSaveLifeguard(context.Background(), in, h.deps); !validation.Is(err) {
			t.Errorf("expected validation error for %+v, got %v", in, err)
		}
	}
	if len(h.state().Lifeguards) != 10 {
		t.Error("expected no lifeguard to be committed")
	}
	if got := h.state().PeekSheetNumber(); got != "11" {
		t.Errorf("expected failed saves not to reserve sheet numbers, next is %s", got)
	}
}

// TestExecuteDeleteLifeguard verifies confirmation and that sheet numbers are not reused.
func TestExecuteDeleteLifeguard(t *testing.T) {
	h := newHarness(t)
	h.login(t, adminName, adminPass)
	ctx := context.Background()

	h.answer = false
	if err := ExecuteDeleteLifeguard(ctx, DeleteLifeguardInput{SheetNumber: "10"}, h.deps); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if len(h.state().Lifeguards) != 10 {
		t.Fatal("expected no change when declined")
	}

	h.answer = true
	if err := ExecuteDeleteLifeguard(ctx, DeleteLifeguardInput{SheetNumber: "10"}, h.deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.state().LifeguardIndex("10") >= 0 {
		t.Error("expected sheet 10 to be removed")
	}
	if e := h.state().Activity[0]; e.Action != activity.ActionDeleteLifeguard || e.Details != "Deleted lifeguard MIGUEL SANTOS (Sheet 10)" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if len(h.prompted) != 2 {
		t.Errorf("expected two confirmation prompts, got %d", len(h.prompted))
	}

	lg, err := ExecuteSaveLifeguard(ctx, SaveLifeguardInput{Name: "new hire", HireDate: "2025-10-01", Status: "ACTIVE"}, h.deps)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if lg.SheetNumber != "11" {
		t.Errorf("expected deleted sheet 10 not to be reused, got %s", lg.SheetNumber)
	}

	if err := ExecuteDeleteLifeguard(ctx, DeleteLifeguardInput{SheetNumber: "10"}, h.deps); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for deleted sheet, got %v", err)
	}
}

// TestExecuteDeleteLifeguard_NilConfirm verifies a missing confirmer declines.
func TestExecuteDeleteLifeguard_NilConfirm(t *testing.T) {
	h := newHarness(t)
	h.login(t, adminName, adminPass)
	deps := h.deps
	deps.Confirm = nil
	if err := ExecuteDeleteLifeguard(context.Background(), DeleteLifeguardInput{SheetNumber: "01"}, deps); !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
}

// TestExecuteDeleteLifeguard_Forbidden verifies the manage_lifeguards gate.
func TestExecuteDeleteLifeguard_Forbidden(t *testing.T) {
	h := newHarness(t)
	h.login(t, viewerName, viewerPass)
	if err := ExecuteDeleteLifeguard(context.Background(), DeleteLifeguardInput{SheetNumber: "01"}, h.deps); !errors.Is(err, workspace.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if len(h.prompted) != 0 {
		t.Error("expected no prompt before authorization")
	}
}
