package orchestrators

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"treasurecove/internal/application/workspace"
	"treasurecove/internal/domain/permission"
)

// OpenEditorInput identifies the record to edit. Key is an audit or user id,
// or a lifeguard sheet number.
type OpenEditorInput struct {
	Kind workspace.EditKind
	Key  string
}

// ExecuteOpenEditor points the workspace editor at an existing record so the
// next save updates it instead of creating a new one.
// PRE: The actor may edit records of Kind
// POST: The editor targets the record; nothing else changes
func ExecuteOpenEditor(ctx context.Context, input OpenEditorInput, deps Deps) error {
	ws := deps.Workspace
	st := ws.State()
	key := strings.TrimSpace(input.Key)

	switch input.Kind {
	case workspace.EditAudit:
		if _, err := ws.Authorize(ctx, permission.EditAllAudits); err != nil {
			return err
		}
		id, err := strconv.Atoi(key)
		if err != nil || st.AuditIndex(id) < 0 {
			return fmt.Errorf("audit %q: %w", key, ErrNotFound)
		}
		key = strconv.Itoa(id)
	case workspace.EditLifeguard:
		if _, err := ws.Authorize(ctx, permission.ManageLifeguards); err != nil {
			return err
		}
		if st.LifeguardIndex(key) < 0 {
			return fmt.Errorf("lifeguard sheet %q: %w", key, ErrNotFound)
		}
	case workspace.EditUser:
		if _, err := ws.Authorize(ctx, permission.ManageUsers); err != nil {
			return err
		}
		id, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("user %q: %w", key, ErrNotFound)
		}
		i := st.UserIndex(id)
		if i < 0 {
			return fmt.Errorf("user %q: %w", key, ErrNotFound)
		}
		if st.Users[i].IsProtected() {
			return ErrProtectedUser
		}
		key = strconv.Itoa(id)
	default:
		return fmt.Errorf("unknown editor kind %q", input.Kind)
	}

	ws.BeginEdit(input.Kind, key)
	return nil
}

// ExecuteCancelEdit closes the editor. Committed state is untouched.
func ExecuteCancelEdit(deps Deps) {
	deps.Workspace.CancelEdit()
}
