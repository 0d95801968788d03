package permission

// Section is a navigable area of the tool.
type Section string

const (
	SectionDashboard    Section = "dashboard"
	SectionLifeguards   Section = "lifeguards"
	SectionAudits       Section = "audits"
	SectionActivityLog  Section = "activity-log"
	SectionUsers        Section = "users"
	SectionAdminMetrics Section = "admin-metrics"
)

// Sections returns the sections visible to a holder of s, in menu order.
// POST: SectionDashboard is always first
func Sections(s Set) []Section {
	out := []Section{SectionDashboard}
	if s.Has(ViewAllAudits) || s.Has(ManageLifeguards) {
		out = append(out, SectionLifeguards)
	}
	if s.Has(ViewAllAudits) {
		out = append(out, SectionAudits)
	}
	if s.Has(ViewActivityLog) {
		out = append(out, SectionActivityLog)
	}
	if s.Has(ManageUsers) {
		out = append(out, SectionUsers)
	}
	if s.Has(ViewAdminMetrics) {
		out = append(out, SectionAdminMetrics)
	}
	return out
}

// CanView reports whether section is visible to a holder of s.
func CanView(s Set, section Section) bool {
	for _, v := range Sections(s) {
		if v == section {
			return true
		}
	}
	return false
}

// Control is an action button or form offered in a section.
type Control string

const (
	ControlAddLifeguard    Control = "add_lifeguard"
	ControlEditLifeguard   Control = "edit_lifeguard"
	ControlDeleteLifeguard Control = "delete_lifeguard"
	ControlAddAudit        Control = "add_audit"
	ControlEditAudit       Control = "edit_audit"
	ControlAddUser         Control = "add_user"
	ControlEditUser        Control = "edit_user"
	ControlToggleUser      Control = "toggle_user"
	ControlEditPermissions Control = "edit_permissions"
	ControlExport          Control = "export"
	ControlClearActivity   Control = "clear_activity"
)

var controlRequires = map[Control][]Capability{
	ControlAddLifeguard:    {ManageLifeguards},
	ControlEditLifeguard:   {ManageLifeguards},
	ControlDeleteLifeguard: {ManageLifeguards},
	ControlAddAudit:        {CreateAudits},
	ControlEditAudit:       {EditAllAudits},
	ControlAddUser:         {CreateUsers},
	ControlEditUser:        {ManageUsers},
	ControlToggleUser:      {ManageUsers, DeactivateUsers},
	ControlEditPermissions: {ModifyPermissions},
	ControlExport:          {ExportData},
	ControlClearActivity:   {ViewActivityLog},
}

// CanUse reports whether a holder of s is offered control. Unknown controls
// are never offered.
func CanUse(s Set, control Control) bool {
	required, ok := controlRequires[control]
	if !ok {
		return false
	}
	for _, c := range required {
		if !s.Has(c) {
			return false
		}
	}
	return true
}

// Controls lists every control a holder of s is offered.
func Controls(s Set) []Control {
	all := []Control{
		ControlAddLifeguard, ControlEditLifeguard, ControlDeleteLifeguard,
		ControlAddAudit, ControlEditAudit,
		ControlAddUser, ControlEditUser, ControlToggleUser, ControlEditPermissions,
		ControlExport, ControlClearActivity,
	}
	var out []Control
	for _, c := range all {
		if CanUse(s, c) {
			out = append(out, c)
		}
	}
	return out
}
