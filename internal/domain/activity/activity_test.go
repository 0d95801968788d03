package activity

import (
	"testing"
	"time"
)

func TestPrepend_NewestFirst(t *testing.T) {
	var log []Entry
	at := time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		log = Prepend(log, NewEntry(i, at, "Viewer", ActionLogin), DefaultCapacity)
	}
	if log[0].ID != 3 || log[2].ID != 1 {
		t.Errorf("expected newest first, got ids %d..%d", log[0].ID, log[2].ID)
	}
}

func TestPrepend_EvictsOldestAtCapacity(t *testing.T) {
	var log []Entry
	at := time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 101; i++ {
		log = Prepend(log, NewEntry(i, at, "Demetrius Lopez", ActionEditAudit), 100)
	}
	if len(log) != 100 {
		t.Fatalf("expected 100 entries, got %d", len(log))
	}
	if log[0].ID != 101 {
		t.Errorf("expected most recent entry first, got %d", log[0].ID)
	}
	if log[99].ID != 2 {
		t.Errorf("expected entry 1 to be evicted, tail is %d", log[99].ID)
	}
}

func TestPrepend_DoesNotAliasInput(t *testing.T) {
	at := time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
	orig := []Entry{NewEntry(1, at, "a", ActionLogin)}
	_ = Prepend(orig, NewEntry(2, at, "b", ActionLogout), 1)
	if orig[0].ID != 1 {
		t.Error("input slice was modified")
	}
}

func TestParseAction(t *testing.T) {
	if a, err := ParseAction("toggle_user_status"); err != nil || a != ActionToggleUserStatus {
		t.Errorf("ParseAction = %v, %v", a, err)
	}
	if _, err := ParseAction("DANCE"); err == nil {
		t.Error("expected error")
	}
}
