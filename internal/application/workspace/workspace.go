// Package workspace holds the state owned by one running instance together
// with the signed-in session and the open editor. Every use case receives the
// workspace explicitly; nothing here is global.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"treasurecove/internal/adapters/notify"
	"treasurecove/internal/adapters/perf"
	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/permission"
	"treasurecove/internal/domain/state"
	"treasurecove/internal/domain/user"
)

// Session errors
var (
	ErrNotAuthenticated = errors.New("not logged in")
	ErrSessionExpired   = errors.New("session expired, please log in again")
	ErrForbidden        = errors.New("you do not have permission to do that")
)

// Gateway is the persistence the workspace needs.
type Gateway interface {
	LoadAll(ctx context.Context) (state.State, state.Loaded)
	SaveAll(ctx context.Context, st *state.State) error
}

// Deps holds dependencies for a Workspace.
type Deps struct {
	Gateway          Gateway
	Notifier         notify.Notifier
	Collector        *perf.Collector
	Now              func() time.Time
	NewSessionID     func() uuid.UUID
	IdleTimeout      time.Duration
	MaxLifetime      time.Duration
	ActivityCapacity int
	BcryptCost       int
}

// Session is the signed-in user.
type Session struct {
	ID         uuid.UUID
	UserID     int
	Username   string
	StartedAt  time.Time
	LastSeenAt time.Time
}

// Workspace is the session-scoped context object.
type Workspace struct {
	deps    Deps
	state   state.State
	session *Session
	editing *EditTarget
}

// New loads persisted state, seeding defaults for any collection that was not stored.
// PRE: deps.Gateway is non-nil
// POST: Returns a workspace with no active session
func New(ctx context.Context, deps Deps) (*Workspace, error) {
	if deps.Gateway == nil {
		return nil, errors.New("workspace: gateway is required")
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Noop{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewSessionID == nil {
		deps.NewSessionID = uuid.New
	}
	if deps.ActivityCapacity <= 0 {
		deps.ActivityCapacity = activity.DefaultCapacity
	}
	if deps.BcryptCost <= 0 {
		deps.BcryptCost = user.DefaultCost
	}

	st, loaded := deps.Gateway.LoadAll(ctx)
	if !loaded.Users {
		users, err := state.SeedUsers(deps.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("seed users: %w", err)
		}
		st.Users = users
	}
	if !loaded.Lifeguards {
		st.Lifeguards = state.SeedLifeguards()
	}
	if !loaded.Audits {
		st.Audits = state.SeedAudits()
	}
	if !loaded.Activity {
		st.Activity = state.SeedActivity()
	}

	w := &Workspace{deps: deps, state: st}
	if !loaded.All() {
		slog.Info("store_event", "event", "defaults_seeded",
			"users", !loaded.Users, "lifeguards", !loaded.Lifeguards,
			"audits", !loaded.Audits, "activity", !loaded.Activity)
		w.Flush(ctx)
	}
	return w, nil
}

// State exposes the collections for mutation by use cases.
func (w *Workspace) State() *state.State {
	return &w.state
}

// Now returns the current time without a monotonic reading, so it survives
// a persistence round trip unchanged.
func (w *Workspace) Now() time.Time {
	return w.deps.Now().Round(0)
}

// BcryptCost is the hashing cost for new passwords.
func (w *Workspace) BcryptCost() int {
	return w.deps.BcryptCost
}

// Collector returns the timing collector, which may be nil.
func (w *Workspace) Collector() *perf.Collector {
	return w.deps.Collector
}

// Flush writes every collection. Failures are logged by the gateway and the
// in-memory state stays authoritative.
func (w *Workspace) Flush(ctx context.Context) {
	if err := w.deps.Gateway.SaveAll(ctx, &w.state); err != nil {
		slog.Warn("store_event", "event", "flush_not_durable", "error", err)
	}
}

// Notify forwards n to the notification collaborator.
func (w *Workspace) Notify(ctx context.Context, n notify.Notification) {
	w.deps.Notifier.Notify(ctx, n)
}

// LogActivity prepends an entry for the signed-in user and flushes. It does
// nothing when no session is active.
// POST: Activity is newest-first and within capacity
// POST: Every collection, including earlier in-memory changes, has been flushed
func (w *Workspace) LogActivity(ctx context.Context, action activity.Action, details string) {
	if w.session == nil {
		return
	}
	e := activity.NewEntry(w.state.NextActivityID(), w.Now(), w.session.Username, action).WithDetails(details)
	w.state.Activity = activity.Prepend(w.state.Activity, e, w.deps.ActivityCapacity)
	w.Flush(ctx)
}

// ClearActivity empties the activity log. Allocated ids are not reused.
func (w *Workspace) ClearActivity() {
	w.state.ClearActivity()
}

// Session returns the active session, if any.
func (w *Workspace) Session() (Session, bool) {
	if w.session == nil {
		return Session{}, false
	}
	return *w.session, true
}

// Start begins a session for u, replacing any previous one.
func (w *Workspace) Start(u user.User) Session {
	now := w.Now()
	w.session = &Session{
		ID:         w.deps.NewSessionID(),
		UserID:     u.ID,
		Username:   u.Username,
		StartedAt:  now,
		LastSeenAt: now,
	}
	w.editing = nil
	return *w.session
}

// End clears the session and any open editor.
func (w *Workspace) End() {
	w.session = nil
	w.editing = nil
}

// expired reports why the session lapsed, or "" when it is still valid.
func (w *Workspace) expired(now time.Time) string {
	s := w.session
	if w.deps.IdleTimeout > 0 && now.Sub(s.LastSeenAt) > w.deps.IdleTimeout {
		return "idle"
	}
	if w.deps.MaxLifetime > 0 && now.Sub(s.StartedAt) > w.deps.MaxLifetime {
		return "lifetime"
	}
	return ""
}

// Actor returns the signed-in user, checking expiry first. A lapsed session is
// ended with a LOGOUT entry.
// POST: On success the session's LastSeenAt is now
func (w *Workspace) Actor(ctx context.Context) (*user.User, error) {
	if w.session == nil {
		return nil, ErrNotAuthenticated
	}
	now := w.Now()
	if reason := w.expired(now); reason != "" {
		slog.Info("auth_event", "event", "session_expired", "reason", reason, "session_id", w.session.ID.String(), "username", w.session.Username)
		w.LogActivity(ctx, activity.ActionLogout, "Session expired")
		w.End()
		return nil, ErrSessionExpired
	}

	i := w.state.UserIndex(w.session.UserID)
	if i < 0 || !w.state.Users[i].Active {
		slog.Info("auth_event", "event", "session_revoked", "session_id", w.session.ID.String(), "user_id", w.session.UserID)
		w.End()
		return nil, ErrNotAuthenticated
	}
	u := &w.state.Users[i]
	w.session.LastSeenAt = now
	w.session.Username = u.Username
	return u, nil
}

// Authorize returns the signed-in user when they hold every capability in caps.
func (w *Workspace) Authorize(ctx context.Context, caps ...permission.Capability) (*user.User, error) {
	u, err := w.Actor(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range caps {
		if !u.Can(c) {
			slog.Warn("auth_event", "event", "forbidden", "username", u.Username, "capability", c.String())
			return nil, fmt.Errorf("%w: requires %s", ErrForbidden, c)
		}
	}
	return u, nil
}
