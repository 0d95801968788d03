package orchestrators

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"treasurecove/internal/application/workspace"
	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/permission"
	"treasurecove/internal/domain/user"
	"treasurecove/internal/domain/validation"
)

// TestExecuteSaveUser_Create verifies a new active user with a hashed password.
func TestExecuteSaveUser_Create(t *testing.T) {
	h := newHarness(t)
	h.login(t, seniorName, seniorPass)

	u, err := ExecuteSaveUser(context.Background(), SaveUserInput{
		Username:    "New Auditor",
		Password:    "lifeguard99",
		Role:        "admin",
		Permissions: user.DefaultPermissions(user.RoleAdmin).With(permission.ModifyPermissions),
	}, h.deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 9 || !u.Active || u.Role != user.RoleAdmin || u.CreatedBy != seniorName {
		t.Errorf("unexpected user %+v", u)
	}
	if u.PasswordHash == "lifeguard99" || u.CheckPassword("lifeguard99") != nil {
		t.Error("expected a bcrypt hash of the password")
	}
	if !u.Can(permission.ModifyPermissions) {
		t.Error("expected a modify_permissions holder to be able to grant it")
	}
	if e := h.state().Activity[0]; e.Action != activity.ActionCreateUser || e.Details != "Created new user New Auditor" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if _, err := ExecuteLogin(context.Background(), LoginInput{Username: "New Auditor", Password: "lifeguard99"}, h.deps); err != nil {
		t.Errorf("expected new user to log in, got %v", err)
	}
}

// TestExecuteSaveUser_AdminOnlyBitsForced verifies non-modifiers cannot grant admin-only capabilities.
func TestExecuteSaveUser_AdminOnlyBitsForced(t *testing.T) {
	h := newHarness(t)
	h.login(t, seniorName, seniorPass)
	// A user manager without modify_permissions.
	mgr, err := ExecuteSaveUser(context.Background(), SaveUserInput{
		Username: "Manager", Password: "manager123", Role: "ADMIN",
		Permissions: permission.NewSet(permission.ManageUsers, permission.CreateUsers),
	}, h.deps)
	if err != nil {
		t.Fatalf("create manager: %v", err)
	}
	h.login(t, mgr.Username, "manager123")

	u, err := ExecuteSaveUser(context.Background(), SaveUserInput{
		Username: "Sneaky", Password: "sneaky123", Role: "VIEWER",
		Permissions: permission.AllSet(),
	}, h.deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Can(permission.ViewAdminMetrics) || u.Can(permission.ModifyPermissions) {
		t.Error("expected admin-only capabilities to be forced off")
	}
	if !u.Can(permission.ExportData) {
		t.Error("expected other capabilities to be kept")
	}
}

// TestExecuteSaveUser_Edit verifies blank password keeps the hash and usernames stay unique.
func TestExecuteSaveUser_Edit(t *testing.T) {
	h := newHarness(t)
	h.login(t, seniorName, seniorPass)
	ctx := context.Background()
	oldHash := h.state().Users[4].PasswordHash

	if err := ExecuteOpenEditor(ctx, OpenEditorInput{Kind: workspace.EditUser, Key: "5"}, h.deps); err != nil {
		t.Fatalf("open editor: %v", err)
	}
	_, err := ExecuteSaveUser(ctx, SaveUserInput{Username: adminName, Role: "ADMIN"}, h.deps)
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	u, err := ExecuteSaveUser(ctx, SaveUserInput{Username: "Ariana A.", Role: "VIEWER", Permissions: permission.NewSet(permission.ViewAllAudits)}, h.deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 5 || u.Username != "Ariana A." || u.Role != user.RoleViewer {
		t.Errorf("unexpected user %+v", u)
	}
	if u.PasswordHash != oldHash {
		t.Error("expected blank password to keep the current hash")
	}
	if e := h.state().Activity[0]; e.Action != activity.ActionEditUser || e.Details != "Updated user Ariana A." {
		t.Errorf("unexpected entry: %+v", e)
	}
}

// TestExecuteSaveUser_Validation verifies required fields and password policy.
func TestExecuteSaveUser_Validation(t *testing.T) {
	h := newHarness(t)
	h.login(t, seniorName, seniorPass)
	for _, in := range []SaveUserInput{
		{Username: "", Password: "longenough", Role: "ADMIN"},
		{Username: "x", Password: "longenough", Role: "OWNER"},
		{Username: "x", Password: "", Role: "ADMIN"},
		{Username: "x", Password: "short", Role: "ADMIN"},
	} {
		if _, err := ExecuteSaveUser(context.Background(), in, h.deps); !validation.Is(err) {
			t.Errorf("expected validation error for %+v, got %v", in, err)
		}
	}
	if len(h.state().Users) != 8 {
		t.Error("expected no user to be committed")
	}

	ctx := context.Background()
	before := h.state().Users[4]
	if err := ExecuteOpenEditor(ctx, OpenEditorInput{Kind: workspace.EditUser, Key: "5"}, h.deps); err != nil {
		t.Fatalf("open editor: %v", err)
	}
	if _, err := ExecuteSaveUser(ctx, SaveUserInput{Username: "   ", Role: "ADMIN"}, h.deps); !validation.Is(err) {
		t.Errorf("expected validation error for a blank rename, got %v", err)
	}
	if got := h.state().Users[4]; got.Username != before.Username || got.Role != before.Role {
		t.Errorf("expected the record to be untouched, got %+v", got)
	}
}

// TestExecuteSaveUser_ProtectedUser verifies id 1 cannot be opened for edit.
func TestExecuteSaveUser_ProtectedUser(t *testing.T) {
	h := newHarness(t)
	h.login(t, seniorName, seniorPass)
	err := ExecuteOpenEditor(context.Background(), OpenEditorInput{Kind: workspace.EditUser, Key: strconv.Itoa(user.ProtectedID)}, h.deps)
	if !errors.Is(err, ErrProtectedUser) {
		t.Errorf("expected ErrProtectedUser, got %v", err)
	}
}

// TestExecuteToggleUserStatus verifies deactivation blocks login and is logged.
func TestExecuteToggleUserStatus(t *testing.T) {
	h := newHarness(t)
	h.login(t, seniorName, seniorPass)
	ctx := context.Background()

	u, err := ExecuteToggleUserStatus(ctx, ToggleUserStatusInput{UserID: 2}, h.deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Active {
		t.Error("expected user to be deactivated")
	}
	if e := h.state().Activity[0]; e.Action != activity.ActionToggleUserStatus || e.Details != "Deactivated user: "+adminName {
		t.Errorf("unexpected entry: %+v", e)
	}
	if h.gateway.stored.Users[1].Active {
		t.Error("expected deactivation to be flushed")
	}

	if _, err := ExecuteLogin(ctx, LoginInput{Username: adminName, Password: adminPass}, h.deps); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected deactivated user to be refused, got %v", err)
	}
	// The failed login above left the senior admin signed in.
	u, err = ExecuteToggleUserStatus(ctx, ToggleUserStatusInput{UserID: 2}, h.deps)
	if err != nil || !u.Active {
		t.Fatalf("expected reactivation, got %v active=%v", err, u.Active)
	}
	if e := h.state().Activity[0]; e.Details != "Activated user: "+adminName {
		t.Errorf("unexpected entry: %+v", e)
	}
}

// TestExecuteToggleUserStatus_Guards verifies protection, confirmation and permissions.
func TestExecuteToggleUserStatus_Guards(t *testing.T) {
	h := newHarness(t)
	h.login(t, seniorName, seniorPass)
	ctx := context.Background()

	if _, err := ExecuteToggleUserStatus(ctx, ToggleUserStatusInput{UserID: user.ProtectedID}, h.deps); !errors.Is(err, ErrProtectedUser) {
		t.Errorf("expected ErrProtectedUser, got %v", err)
	}
	if _, err := ExecuteToggleUserStatus(ctx, ToggleUserStatusInput{UserID: 404}, h.deps); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	h.answer = false
	if _, err := ExecuteToggleUserStatus(ctx, ToggleUserStatusInput{UserID: 3}, h.deps); !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
	if !h.state().Users[2].Active {
		t.Error("expected declined toggle to leave the user active")
	}

	h.login(t, adminName, adminPass)
	if _, err := ExecuteToggleUserStatus(ctx, ToggleUserStatusInput{UserID: 3}, h.deps); !errors.Is(err, workspace.ErrForbidden) {
		t.Errorf("expected ErrForbidden for admin without deactivate_users, got %v", err)
	}
}
