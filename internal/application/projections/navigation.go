package projections

import (
	"context"

	"treasurecove/internal/domain/permission"
	"treasurecove/internal/domain/user"
)

// NavigationResult lists what the signed-in user may see and use.
type NavigationResult struct {
	Username string               `json:"username"`
	Role     user.Role            `json:"role"`
	Sections []permission.Section `json:"sections"`
	Controls []permission.Control `json:"controls"`
}

// QueryNavigation returns the sections and controls offered to the actor.
// PRE: A session is active
// POST: Result depends only on the actor's stored permission set
func QueryNavigation(ctx context.Context, deps Deps) (NavigationResult, error) {
	u, err := deps.Workspace.Actor(ctx)
	if err != nil {
		return NavigationResult{}, err
	}
	return NavigationResult{
		Username: u.Username,
		Role:     u.Role,
		Sections: permission.Sections(u.Permissions),
		Controls: permission.Controls(u.Permissions),
	}, nil
}
