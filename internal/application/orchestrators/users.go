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
	"treasurecove/internal/domain/permission"
	"treasurecove/internal/domain/user"
	"treasurecove/internal/domain/validation"
)

// adminOnly are the capabilities only a holder of modify_permissions may grant.
var adminOnly = []permission.Capability{permission.ViewAdminMetrics, permission.ModifyPermissions}

// SaveUserInput carries the user form fields. Password may be blank on edit
// to keep the current one.
type SaveUserInput struct {
	Username    string
	Password    string
	Role        string
	Permissions permission.Set
}

// ExecuteSaveUser creates a user, or updates the one open in the editor.
// PRE: create requires create_users; update requires manage_users
// POST: Usernames stay unique; the protected user is never changed
// POST: A committed record passes User.Validate
// INVARIANT: view_admin_metrics and modify_permissions are only granted by a holder of modify_permissions
func ExecuteSaveUser(ctx context.Context, input SaveUserInput, deps Deps) (saved user.User, err error) {
	ws := deps.Workspace
	defer track(ws, "users.save", time.Now(), &err)

	target, editing := ws.Editing(workspace.EditUser)
	required := permission.CreateUsers
	if editing {
		required = permission.ManageUsers
	}
	actor, err := ws.Authorize(ctx, required)
	if err != nil {
		return user.User{}, err
	}

	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)
	role, err := user.ParseRole(input.Role)
	if err != nil {
		return user.User{}, validation.New("role", err.Error())
	}
	if !editing && password == "" {
		return user.User{}, validation.New("password", "is required")
	}

	perms := input.Permissions
	if !actor.Can(permission.ModifyPermissions) {
		perms = perms.Without(adminOnly...)
	}

	st := ws.State()
	if j := st.UserIndexByName(username); j >= 0 && (!editing || strconv.Itoa(st.Users[j].ID) != target.Key) {
		return user.User{}, fmt.Errorf("%q: %w", username, ErrUsernameTaken)
	}

	if editing {
		id, _ := strconv.Atoi(target.Key)
		i := st.UserIndex(id)
		if i < 0 {
			ws.CancelEdit()
			return user.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		u := &st.Users[i]
		if u.IsProtected() {
			ws.CancelEdit()
			return user.User{}, ErrProtectedUser
		}
		// Hash into a copy so a short password leaves the record untouched.
		next := *u
		next.Username = username
		next.Role = role
		next.Permissions = perms
		if password != "" {
			if err := next.SetPassword(password, ws.BcryptCost()); err != nil {
				return user.User{}, validation.New("password", err.Error())
			}
		}
		if err := next.Validate(); err != nil {
			return user.User{}, err
		}
		*u = next
		saved = next
		ws.LogActivity(ctx, activity.ActionEditUser, "Updated user "+username)
	} else {
		u := user.User{
			Username:    username,
			Role:        role,
			Active:      true,
			CreatedBy:   actor.Username,
			CreatedAt:   ws.Now(),
			Permissions: perms,
		}
		if err := u.SetPassword(password, ws.BcryptCost()); err != nil {
			return user.User{}, validation.New("password", err.Error())
		}
		if err := u.Validate(); err != nil {
			return user.User{}, err
		}
		u.ID = st.NextUserID()
		st.Users = append(st.Users, u)
		saved = u
		ws.LogActivity(ctx, activity.ActionCreateUser, "Created new user "+username)
	}

	ws.CancelEdit()

	slog.Info("user_event", "event", "user_saved", "user_id", saved.ID, "username", saved.Username, "role", saved.Role, "permissions", saved.Permissions.Count(), "updated", editing, "by", actor.Username)
	ws.Notify(ctx, notify.Success("User %s saved", saved.Username))
	return saved, nil
}

// ToggleUserStatusInput identifies the user to activate or deactivate.
type ToggleUserStatusInput struct {
	UserID int
}

// ExecuteToggleUserStatus flips a user's active flag after confirmation.
// Users are never deleted.
// PRE: Actor holds manage_users and deactivate_users
// POST: On confirmation Active is flipped, one TOGGLE_USER_STATUS entry is appended and state is flushed
func ExecuteToggleUserStatus(ctx context.Context, input ToggleUserStatusInput, deps Deps) (saved user.User, err error) {
	ws := deps.Workspace
	defer track(ws, "users.toggle", time.Now(), &err)

	actor, err := ws.Authorize(ctx, permission.ManageUsers, permission.DeactivateUsers)
	if err != nil {
		return user.User{}, err
	}

	st := ws.State()
	i := st.UserIndex(input.UserID)
	if i < 0 {
		return user.User{}, fmt.Errorf("user %d: %w", input.UserID, ErrNotFound)
	}
	u := &st.Users[i]
	if u.IsProtected() {
		return user.User{}, ErrProtectedUser
	}

	verb := "deactivate"
	if !u.Active {
		verb = "activate"
	}
	if !deps.confirm(ctx, fmt.Sprintf("Are you sure you want to %s %s?", verb, u.Username)) {
		return user.User{}, ErrCancelled
	}

	u.Active = !u.Active
	saved = *u
	if saved.Active {
		ws.LogActivity(ctx, activity.ActionToggleUserStatus, "Activated user: "+saved.Username)
	} else {
		ws.LogActivity(ctx, activity.ActionToggleUserStatus, "Deactivated user: "+saved.Username)
	}

	slog.Info("user_event", "event", "user_status_changed", "user_id", saved.ID, "username", saved.Username, "active", saved.Active, "by", actor.Username)
	ws.Notify(ctx, notify.Success("User %s %sd", saved.Username, verb))
	return saved, nil
}
