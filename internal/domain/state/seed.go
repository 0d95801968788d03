package state

import (
	"fmt"
	"time"

	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/audit"
	"treasurecove/internal/domain/lifeguard"
	"treasurecove/internal/domain/permission"
	"treasurecove/internal/domain/user"
)

const seedCreator = "Demetrius Lopez"

// seedUserDef defines a single default user.
type seedUserDef struct {
	ID          int
	Username    string
	Password    string
	Role        user.Role
	CreatedBy   string
	Created     string
	LastLogin   string
	Permissions permission.Set
}

func adminSet(extra ...permission.Capability) permission.Set {
	return permission.NewSet(
		permission.EditAllAudits,
		permission.ViewAllAudits,
		permission.CreateAudits,
		permission.ManageLifeguards,
	).With(extra...)
}

func seedUsers() []seedUserDef {
	return []seedUserDef{
		{1, "Demetrius Lopez", "demetrius2025", user.RoleSeniorAdmin, "System", "2025-01-01", "2025-10-04", permission.AllSet()},
		{2, "Asael Gomez", "asael2025", user.RoleAdmin, seedCreator, "2025-01-15", "2025-10-03", adminSet(permission.ViewActivityLog, permission.ExportData)},
		{3, "Matthew Hills", "matthew2025", user.RoleAdmin, seedCreator, "2025-01-15", "2025-10-02", adminSet(permission.ViewActivityLog)},
		{4, "Xavier Butler Lee", "xavier2025", user.RoleAdmin, seedCreator, "2025-02-01", "2025-10-01", adminSet(permission.ViewActivityLog, permission.ExportData)},
		{5, "Ariana Arroyo", "ariana2025", user.RoleAdmin, seedCreator, "2025-02-10", "2025-09-30", adminSet()},
		{6, "Vi'Andre Butts", "viandre2025", user.RoleAdmin, seedCreator, "2025-02-15", "2025-09-29", adminSet(permission.ViewActivityLog, permission.ExportData)},
		{7, "Kyarra Cruz", "kyarra2025", user.RoleAdmin, seedCreator, "2025-03-01", "2025-09-28", adminSet(permission.ViewActivityLog)},
		{8, "Viewer", "viewer2025", user.RoleViewer, seedCreator, "2025-03-10", "2025-09-27", permission.NewSet(permission.ViewAllAudits)},
	}
}

func mustDate(layout, s string) time.Time {
	t, err := time.Parse(layout, s)
	if err != nil {
		panic(fmt.Sprintf("bad seed date %q: %v", s, err))
	}
	return t
}

const stampLayout = "2006-01-02 15:04:05"

// SeedUsers builds the default user collection with passwords hashed at cost.
// POST: 8 users; id 1 is the protected senior admin
func SeedUsers(cost int) ([]user.User, error) {
	defs := seedUsers()
	out := make([]user.User, 0, len(defs))
	for _, def := range defs {
		last := mustDate(lifeguard.DateLayout, def.LastLogin)
		u := user.User{
			ID:          def.ID,
			Username:    def.Username,
			Role:        def.Role,
			Active:      true,
			CreatedBy:   def.CreatedBy,
			CreatedAt:   mustDate(lifeguard.DateLayout, def.Created),
			LastLogin:   &last,
			Permissions: def.Permissions,
		}
		if err := u.SetPassword(def.Password, cost); err != nil {
			return nil, fmt.Errorf("seed user %s: %w", def.Username, err)
		}
		out = append(out, u)
	}
	return out, nil
}

// SeedLifeguards builds the default lifeguard roster.
func SeedLifeguards() []lifeguard.Lifeguard {
	defs := []struct{ name, hired string }{
		{"MIA FIGUEROA", "2025-01-01"},
		{"NATHAN RAMLAKHAN", "2025-01-01"},
		{"JASON MOLL", "2025-01-01"},
		{"JAVIAN QUIÑONES", "2025-01-01"},
		{"LUCCA CONCEICAO", "2025-01-01"},
		{"SAMUEL TORRES", "2025-01-15"},
		{"ISABELLA MARTINEZ", "2025-02-01"},
		{"CARLOS RODRIGUEZ", "2025-02-15"},
		{"SOFIA GARCIA", "2025-03-01"},
		{"MIGUEL SANTOS", "2025-03-15"},
	}
	out := make([]lifeguard.Lifeguard, 0, len(defs))
	for i, def := range defs {
		l := lifeguard.Lifeguard{
			SheetNumber: lifeguard.FormatSheetNumber(i + 1),
			Name:        def.name,
			HireDate:    def.hired,
			Status:      lifeguard.StatusActive,
		}
		l.Normalize()
		out = append(out, l)
	}
	return out
}

// SeedAudits builds the default audit history.
func SeedAudits() []audit.Audit {
	defs := []struct {
		lifeguard, date, clock string
		typ                    audit.Type
		skill, auditor         string
		result                 audit.Result
		notes, followUp        string
		createdBy              string
	}{
		{"MIA FIGUEROA", "2025-07-15", "10:30:00", audit.TypeVisual, "", "Asael Gomez", audit.ResultExceeds, "Excellent awareness", "", "Asael Gomez"},
		{"NATHAN RAMLAKHAN", "2025-08-01", "14:15:00", audit.TypeVAT, "", "Matthew Hills", audit.ResultMeets, "Good technique", "", "Demetrius Lopez"},
		{"JASON MOLL", "2025-09-10", "11:45:00", audit.TypeSkill, "CPR", "Xavier Butler Lee", audit.ResultExceeds, "Perfect execution", "", "Xavier Butler Lee"},
		{"JAVIAN QUIÑONES", "2025-09-20", "09:30:00", audit.TypeVisual, "", "Kyarra Cruz", audit.ResultExceeds, "Outstanding performance", "", "Kyarra Cruz"},
		{"LUCCA CONCEICAO", "2025-10-01", "16:00:00", audit.TypeSkill, "First Aid", "Vi'Andre Butts", audit.ResultMeets, "Good knowledge", "Practice bandaging", "Vi'Andre Butts"},
		{"MIA FIGUEROA", "2025-08-15", "14:30:00", audit.TypeVAT, "", "Matthew Hills", audit.ResultExceeds, "Excellent positioning", "", "Matthew Hills"},
		{"SAMUEL TORRES", "2025-09-05", "10:15:00", audit.TypeVisual, "", "Asael Gomez", audit.ResultMeets, "Good scanning technique", "", "Asael Gomez"},
		{"ISABELLA MARTINEZ", "2025-09-25", "13:45:00", audit.TypeSkill, "Rescue Tube", "Xavier Butler Lee", audit.ResultExceeds, "Flawless rescue technique", "", "Xavier Butler Lee"},
		{"CARLOS RODRIGUEZ", "2025-10-03", "11:00:00", audit.TypeVisual, "", "Kyarra Cruz", audit.ResultMeets, "Adequate performance", "", "Kyarra Cruz"},
		{"SOFIA GARCIA", "2025-10-05", "15:30:00", audit.TypeVAT, "", "Vi'Andre Butts", audit.ResultExceeds, "Perfect vigilance", "", "Vi'Andre Butts"},
	}
	out := make([]audit.Audit, 0, len(defs))
	for i, def := range defs {
		out = append(out, audit.Audit{
			ID:            i + 1,
			LifeguardName: def.lifeguard,
			Date:          def.date,
			Time:          def.clock,
			Type:          def.typ,
			SkillDetail:   def.skill,
			AuditorName:   def.auditor,
			Result:        def.result,
			Notes:         def.notes,
			FollowUp:      def.followUp,
			CreatedBy:     def.createdBy,
			CreatedAt:     mustDate(stampLayout, def.date+" "+def.clock),
		})
	}
	return out
}

// SeedActivity builds the default activity trail, newest first.
func SeedActivity() []activity.Entry {
	defs := []struct {
		at, user string
		action   activity.Action
		details  string
	}{
		{"2025-10-06 12:00:00", "Demetrius Lopez", activity.ActionLogin, "User logged in"},
		{"2025-10-05 18:45:00", "Asael Gomez", activity.ActionCreateAudit, "Created audit for MIA FIGUEROA"},
		{"2025-10-05 18:30:00", "Matthew Hills", activity.ActionEditAudit, "Edited audit #2"},
		{"2025-10-05 18:15:00", "Xavier Butler Lee", activity.ActionCreateLifeguard, "Added new lifeguard SAMUEL TORRES"},
		{"2025-10-05 18:00:00", "Kyarra Cruz", activity.ActionLogin, "User logged in"},
		{"2025-10-05 17:45:00", "Vi'Andre Butts", activity.ActionCreateAudit, "Created audit for SOFIA GARCIA"},
		{"2025-10-05 17:30:00", "Demetrius Lopez", activity.ActionEditAudit, "Updated audit result for CARLOS RODRIGUEZ"},
		{"2025-10-05 17:15:00", "Asael Gomez", activity.ActionViewMonthlyStats, "Viewed monthly statistics for September"},
	}
	out := make([]activity.Entry, 0, len(defs))
	for i, def := range defs {
		out = append(out, activity.NewEntry(i+1, mustDate(stampLayout, def.at), def.user, def.action).WithDetails(def.details))
	}
	return out
}

// Seed builds a complete default state.
func Seed(cost int) (State, error) {
	users, err := SeedUsers(cost)
	if err != nil {
		return State{}, err
	}
	return State{
		Users:      users,
		Lifeguards: SeedLifeguards(),
		Audits:     SeedAudits(),
		Activity:   SeedActivity(),
	}, nil
}
