package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/user"
)

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// ExecuteLogin validates credentials and starts a session.
// PRE: none
// POST: On success last_login is now, one LOGIN entry is appended and state is flushed
// INVARIANT: Unknown user, wrong password and inactive account produce the same error
func ExecuteLogin(ctx context.Context, input LoginInput, deps Deps) (u user.User, err error) {
	ws := deps.Workspace
	defer track(ws, "login", time.Now(), &err)

	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)
	if username == "" || password == "" {
		return user.User{}, ErrMissingCredentials
	}

	st := ws.State()
	i := st.UserIndexByName(username)
	if i < 0 {
		user.BurnCompare(password, ws.BcryptCost())
		slog.Info("auth_event", "event", "login_failed", "username", username, "reason", "not_found")
		return user.User{}, ErrInvalidCredentials
	}

	// Compare even for inactive accounts so timing matches.
	acct := &st.Users[i]
	if err := acct.CheckPassword(password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", username, "reason", "wrong_password")
		return user.User{}, ErrInvalidCredentials
	}
	if !acct.Active {
		slog.Info("auth_event", "event", "login_failed", "username", username, "reason", "inactive")
		return user.User{}, ErrInvalidCredentials
	}

	if prev, ok := ws.Session(); ok {
		slog.Info("auth_event", "event", "session_replaced", "session_id", prev.ID.String(), "username", prev.Username)
		ws.LogActivity(ctx, activity.ActionLogout, "User logged out")
		ws.End()
	}

	now := ws.Now()
	acct.LastLogin = &now
	sess := ws.Start(*acct)
	ws.LogActivity(ctx, activity.ActionLogin, fmt.Sprintf("%s login", acct.Role))

	slog.Info("auth_event", "event", "login_success", "username", acct.Username, "role", acct.Role, "session_id", sess.ID.String())
	return *acct, nil
}

// ExecuteLogout ends the active session.
// POST: If a session was active, one LOGOUT entry is appended and state is flushed
func ExecuteLogout(ctx context.Context, deps Deps) {
	ws := deps.Workspace
	sess, ok := ws.Session()
	if !ok {
		return
	}
	ws.LogActivity(ctx, activity.ActionLogout, "User logged out")
	ws.End()
	slog.Info("auth_event", "event", "logout", "username", sess.Username, "session_id", sess.ID.String())
}
