package orchestrators

import (
	"context"
	"errors"
	"time"

	"treasurecove/internal/adapters/perf"
	"treasurecove/internal/application/workspace"
	"treasurecove/internal/domain/validation"
)

// ConfirmFunc asks the operator a yes/no question.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Deps holds dependencies shared by every orchestrator.
type Deps struct {
	Workspace *workspace.Workspace
	Confirm   ConfirmFunc
}

var (
	ErrMissingCredentials = validation.New("credentials", "please enter both username and password")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("record not found")
	ErrCancelled          = errors.New("cancelled")
	ErrProtectedUser      = errors.New("the primary senior admin cannot be modified")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrMissingLifeguard   = validation.New("lifeguard_name", "is required")
)

// confirm asks the question and treats a missing collaborator as "no".
func (d Deps) confirm(ctx context.Context, prompt string) bool {
	if d.Confirm == nil {
		return false
	}
	return d.Confirm(ctx, prompt)
}

// track records how long an operation took. Call it deferred with a pointer to
// the named error result.
func track(ws *workspace.Workspace, name string, start time.Time, err *error) {
	ws.Collector().Time(perf.KindOperation, name, start, *err)
}
