package state

import (
	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/audit"
	"treasurecove/internal/domain/lifeguard"
	"treasurecove/internal/domain/user"
)

// Sequences are high-water marks for allocated ids. They only grow, so an id
// freed by a delete is never handed out again.
type Sequences struct {
	User      int `json:"user"`
	Lifeguard int `json:"lifeguard"`
	Audit     int `json:"audit"`
	Activity  int `json:"activity"`
}

// State holds every collection owned by one running instance.
type State struct {
	Users      []user.User           `json:"users"`
	Lifeguards []lifeguard.Lifeguard `json:"lifeguards"`
	Audits     []audit.Audit         `json:"audits"`
	Activity   []activity.Entry      `json:"activityLog"`
	Sequences  Sequences             `json:"sequences"`
}

// Loaded reports which collections were found in durable storage.
type Loaded struct {
	Users      bool
	Lifeguards bool
	Audits     bool
	Activity   bool
}

// All reports whether every collection was found.
func (l Loaded) All() bool {
	return l.Users && l.Lifeguards && l.Audits && l.Activity
}

func next(seq *int, maxExisting int) int {
	if maxExisting > *seq {
		*seq = maxExisting
	}
	*seq++
	return *seq
}

// NextUserID allocates a user id.
// POST: result > every existing user id and every id allocated before
func (s *State) NextUserID() int {
	m := 0
	for _, u := range s.Users {
		m = max(m, u.ID)
	}
	return next(&s.Sequences.User, m)
}

// NextAuditID allocates an audit id.
func (s *State) NextAuditID() int {
	m := 0
	for _, a := range s.Audits {
		m = max(m, a.ID)
	}
	return next(&s.Sequences.Audit, m)
}

// NextActivityID allocates an activity entry id.
func (s *State) NextActivityID() int {
	m := 0
	for _, e := range s.Activity {
		m = max(m, e.ID)
	}
	return next(&s.Sequences.Activity, m)
}

func (s *State) maxSheet() int {
	m := 0
	for _, l := range s.Lifeguards {
		m = max(m, lifeguard.SheetNumberValue(l.SheetNumber))
	}
	return m
}

// PeekSheetNumber returns the sheet number the next lifeguard will receive
// without reserving it.
func (s *State) PeekSheetNumber() string {
	return lifeguard.FormatSheetNumber(max(s.Sequences.Lifeguard, s.maxSheet()) + 1)
}

// NextSheetNumber allocates a zero-padded lifeguard sheet number.
func (s *State) NextSheetNumber() string {
	return lifeguard.FormatSheetNumber(next(&s.Sequences.Lifeguard, s.maxSheet()))
}

// RemoveLifeguard deletes the lifeguard at i and returns it.
// POST: Its sheet number is never handed out again
func (s *State) RemoveLifeguard(i int) lifeguard.Lifeguard {
	s.Sequences.Lifeguard = max(s.Sequences.Lifeguard, s.maxSheet())
	removed := s.Lifeguards[i]
	s.Lifeguards = append(s.Lifeguards[:i:i], s.Lifeguards[i+1:]...)
	return removed
}

// ClearActivity empties the activity log.
// POST: Entry ids already handed out are never handed out again
func (s *State) ClearActivity() {
	for _, e := range s.Activity {
		s.Sequences.Activity = max(s.Sequences.Activity, e.ID)
	}
	s.Activity = []activity.Entry{}
}

// UserIndex returns the position of the user with id, or -1.
func (s *State) UserIndex(id int) int {
	for i, u := range s.Users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// UserIndexByName returns the position of the user with an exact username, or -1.
func (s *State) UserIndexByName(username string) int {
	for i, u := range s.Users {
		if u.Username == username {
			return i
		}
	}
	return -1
}

// LifeguardIndex returns the position of the lifeguard with sheet, or -1.
func (s *State) LifeguardIndex(sheet string) int {
	for i, l := range s.Lifeguards {
		if l.SheetNumber == sheet {
			return i
		}
	}
	return -1
}

// LifeguardIndexByName returns the position of the lifeguard named name, or -1.
func (s *State) LifeguardIndexByName(name string) int {
	for i, l := range s.Lifeguards {
		if l.Name == name {
			return i
		}
	}
	return -1
}

// AuditIndex returns the position of the audit with id, or -1.
func (s *State) AuditIndex(id int) int {
	for i, a := range s.Audits {
		if a.ID == id {
			return i
		}
	}
	return -1
}
