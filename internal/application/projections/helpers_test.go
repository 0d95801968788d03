package projections

import (
	"context"
	"testing"
	"time"

	"treasurecove/internal/adapters/perf"
	"treasurecove/internal/application/workspace"
	"treasurecove/internal/domain/state"
	"treasurecove/internal/domain/user"
)

// seedGateway serves the default state and discards saves.
type seedGateway struct{}

func (seedGateway) LoadAll(context.Context) (state.State, state.Loaded) {
	return state.State{}, state.Loaded{}
}

func (seedGateway) SaveAll(context.Context, *state.State) error { return nil }

func fixedNow() time.Time {
	return time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
}

// newDeps returns projection deps with a session for the seed user id.
func newDeps(t *testing.T, userID int) Deps {
	t.Helper()
	ws, err := workspace.New(context.Background(), workspace.Deps{
		Gateway:    seedGateway{},
		Collector:  perf.NewCollector(16),
		Now:        fixedNow,
		BcryptCost: 4,
	})
	if err != nil {
		t.Fatalf("workspace.New: %v", err)
	}
	if userID > 0 {
		i := ws.State().UserIndex(userID)
		if i < 0 {
			t.Fatalf("no seed user %d", userID)
		}
		ws.Start(ws.State().Users[i])
	}
	return Deps{Workspace: ws}
}

// seed user ids
const (
	seniorID = user.ProtectedID
	adminID  = 2
	viewerID = 8
)
