package state

import (
	"testing"

	"treasurecove/internal/domain/lifeguard"
	"treasurecove/internal/domain/user"
)

func TestNextAuditID_EmptyCollection(t *testing.T) {
	var s State
	if id := s.NextAuditID(); id != 1 {
		t.Errorf("expected 1, got %d", id)
	}
}

func TestNextUserID_NeverReusedAfterDelete(t *testing.T) {
	s := State{Users: []user.User{{ID: 1}, {ID: 2}, {ID: 3}}}
	a := s.NextUserID()
	s.Users = append(s.Users, user.User{ID: a})
	s.Users = s.Users[:len(s.Users)-1]
	b := s.NextUserID()
	if a != 4 || b != 5 {
		t.Errorf("expected 4 then 5, got %d then %d", a, b)
	}
}

func TestNextSheetNumber(t *testing.T) {
	s := State{Lifeguards: SeedLifeguards()}
	if got := s.PeekSheetNumber(); got != "11" {
		t.Errorf("peek: expected 11, got %s", got)
	}
	if got := s.PeekSheetNumber(); got != "11" {
		t.Errorf("peek must not reserve, got %s", got)
	}
	first := s.NextSheetNumber()
	s.Lifeguards = append(s.Lifeguards, lifeguard.Lifeguard{SheetNumber: first})
	s.Lifeguards = s.Lifeguards[:len(s.Lifeguards)-1]
	second := s.NextSheetNumber()
	if first != "11" || second != "12" {
		t.Errorf("expected 11 then 12, got %s then %s", first, second)
	}
}

func TestRemoveLifeguard_KeepsHighWaterMark(t *testing.T) {
	s := State{Lifeguards: SeedLifeguards()}
	removed := s.RemoveLifeguard(len(s.Lifeguards) - 1)
	if removed.SheetNumber != "10" || len(s.Lifeguards) != 9 {
		t.Fatalf("expected sheet 10 removed, got %s with %d left", removed.SheetNumber, len(s.Lifeguards))
	}
	if got := s.NextSheetNumber(); got != "11" {
		t.Errorf("expected removed sheet not to be reused, got %s", got)
	}
}

func TestClearActivity_KeepsHighWaterMark(t *testing.T) {
	s := State{Activity: SeedActivity()}
	s.ClearActivity()
	if s.Activity == nil || len(s.Activity) != 0 {
		t.Fatalf("expected empty non-nil log, got %v", s.Activity)
	}
	if id := s.NextActivityID(); id != 9 {
		t.Errorf("expected 9 after clearing 8 entries, got %d", id)
	}
}

func TestNextSheetNumber_PadsSingleDigits(t *testing.T) {
	var s State
	if got := s.NextSheetNumber(); got != "01" {
		t.Errorf("expected 01, got %s", got)
	}
}

func TestSeed(t *testing.T) {
	s, err := Seed(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Users) != 8 || len(s.Lifeguards) != 10 || len(s.Audits) != 10 || len(s.Activity) != 8 {
		t.Fatalf("unexpected seed sizes: %d %d %d %d", len(s.Users), len(s.Lifeguards), len(s.Audits), len(s.Activity))
	}
	admin := s.Users[s.UserIndexByName("Demetrius Lopez")]
	if !admin.IsProtected() {
		t.Error("seed senior admin should be protected")
	}
	if err := admin.CheckPassword("demetrius2025"); err != nil {
		t.Errorf("seed password should verify: %v", err)
	}
	for _, l := range s.Lifeguards {
		if l.Active != (l.Status == lifeguard.StatusActive) {
			t.Errorf("%s: active out of sync", l.Name)
		}
	}
	if s.Activity[0].ID != 1 || !s.Activity[0].Timestamp.After(s.Activity[7].Timestamp) {
		t.Error("seed activity should be newest first")
	}
	if s.Audits[0].LastEditedBy != nil || s.Audits[0].LastEditedAt != nil {
		t.Error("seed audits should not carry edit metadata")
	}
}

func TestIndexLookups(t *testing.T) {
	s := State{Lifeguards: SeedLifeguards(), Audits: SeedAudits()}
	if i := s.LifeguardIndex("03"); i != 2 {
		t.Errorf("expected index 2, got %d", i)
	}
	if i := s.LifeguardIndexByName("SOFIA GARCIA"); i != 8 {
		t.Errorf("expected index 8, got %d", i)
	}
	if i := s.AuditIndex(42); i != -1 {
		t.Errorf("expected -1, got %d", i)
	}
}
