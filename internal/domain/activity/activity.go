package activity

import (
	"fmt"
	"strings"
	"time"
)

// DefaultCapacity is the number of entries kept when no capacity is configured.
const DefaultCapacity = 100

// Action identifies what the actor did.
type Action string

const (
	ActionLogin            Action = "LOGIN"
	ActionLogout           Action = "LOGOUT"
	ActionCreateAudit      Action = "CREATE_AUDIT"
	ActionEditAudit        Action = "EDIT_AUDIT"
	ActionCreateLifeguard  Action = "CREATE_LIFEGUARD"
	ActionEditLifeguard    Action = "EDIT_LIFEGUARD"
	ActionDeleteLifeguard  Action = "DELETE_LIFEGUARD"
	ActionCreateUser       Action = "CREATE_USER"
	ActionEditUser         Action = "EDIT_USER"
	ActionToggleUserStatus Action = "TOGGLE_USER_STATUS"
	ActionViewMonthlyStats Action = "VIEW_MONTHLY_STATS"
)

// ValidActions contains every action.
var ValidActions = []Action{
	ActionLogin, ActionLogout,
	ActionCreateAudit, ActionEditAudit,
	ActionCreateLifeguard, ActionEditLifeguard, ActionDeleteLifeguard,
	ActionCreateUser, ActionEditUser, ActionToggleUserStatus,
	ActionViewMonthlyStats,
}

// ParseAction converts user input to an Action.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range ValidActions {
		if v == a {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown activity action %q", s)
}

// Entry is one line of the activity trail.
type Entry struct {
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Action    Action    `json:"action"`
	Details   string    `json:"details"`
}

// NewEntry creates an entry for the given actor.
// PRE: user and action are non-empty
func NewEntry(id int, at time.Time, user string, action Action) Entry {
	return Entry{ID: id, Timestamp: at, User: user, Action: action}
}

// WithDetails sets the free-text description.
func (e Entry) WithDetails(details string) Entry {
	e.Details = details
	return e
}

// Prepend inserts e at the head of log and drops the oldest entries beyond capacity.
// PRE: log is newest-first
// POST: result is newest-first, len(result) <= capacity, result[0] == e
func Prepend(log []Entry, e Entry, capacity int) []Entry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	n := len(log) + 1
	if n > capacity {
		n = capacity
	}
	out := make([]Entry, n)
	out[0] = e
	copy(out[1:], log)
	return out
}
