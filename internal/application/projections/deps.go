package projections

import (
	"context"
	"errors"

	"treasurecove/internal/application/workspace"
	"treasurecove/internal/domain/permission"
	"treasurecove/internal/domain/user"
)

// Deps holds dependencies for every projection.
type Deps struct {
	Workspace *workspace.Workspace
}

// ErrNotFound is returned when a detail query names a missing record.
var ErrNotFound = errors.New("record not found")

// viewer returns the actor when they may see section.
func viewer(ctx context.Context, ws *workspace.Workspace, section permission.Section) (*user.User, error) {
	u, err := ws.Actor(ctx)
	if err != nil {
		return nil, err
	}
	if !permission.CanView(u.Permissions, section) {
		return nil, workspace.ErrForbidden
	}
	return u, nil
}
