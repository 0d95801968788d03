package orchestrators

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"treasurecove/internal/adapters/notify"
	"treasurecove/internal/adapters/perf"
	"treasurecove/internal/application/workspace"
	"treasurecove/internal/domain/state"
)

// memGateway implements workspace.Gateway in memory.
type memGateway struct {
	stored state.State
	saves  int
}

func (m *memGateway) LoadAll(context.Context) (state.State, state.Loaded) {
	return state.State{}, state.Loaded{}
}

func (m *memGateway) SaveAll(_ context.Context, st *state.State) error {
	m.saves++
	m.stored = *st
	return nil
}

func testNow() time.Time {
	return time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
}

// harness bundles a seeded workspace with its collaborators.
type harness struct {
	deps     Deps
	gateway  *memGateway
	notes    *notify.Recorder
	answer   bool
	prompted []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{gateway: &memGateway{}, notes: &notify.Recorder{}, answer: true}
	ws, err := workspace.New(context.Background(), workspace.Deps{
		Gateway:      h.gateway,
		Notifier:     h.notes,
		Collector:    perf.NewCollector(64),
		Now:          testNow,
		NewSessionID: uuid.New,
		IdleTimeout:  8 * time.Hour,
		MaxLifetime:  8 * time.Hour,
		BcryptCost:   4,
	})
	if err != nil {
		t.Fatalf("workspace.New: %v", err)
	}
	h.deps = Deps{
		Workspace: ws,
		Confirm: func(_ context.Context, prompt string) bool {
			h.prompted = append(h.prompted, prompt)
			return h.answer
		},
	}
	return h
}

// seed credentials
const (
	seniorName = "Demetrius Lopez"
	seniorPass = "demetrius2025"
	adminName  = "Asael Gomez"
	adminPass  = "asael2025"
	viewerName = "Viewer"
	viewerPass = "viewer2025"
)

func (h *harness) login(t *testing.T, username, password string) {
	t.Helper()
	if _, err := ExecuteLogin(context.Background(), LoginInput{Username: username, Password: password}, h.deps); err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
}

func (h *harness) state() *state.State {
	return h.deps.Workspace.State()
}
