package workspace

// EditKind names the record type an editor is open for.
type EditKind string

const (
	EditAudit     EditKind = "audit"
	EditLifeguard EditKind = "lifeguard"
	EditUser      EditKind = "user"
)

// EditTarget identifies the record being edited: an audit or user id, or a
// lifeguard sheet number.
type EditTarget struct {
	Kind EditKind
	Key  string
}

// BeginEdit opens the editor on a record. Any previous target is replaced.
func (w *Workspace) BeginEdit(kind EditKind, key string) {
	w.editing = &EditTarget{Kind: kind, Key: key}
}

// Editing returns the open editor target for kind.
func (w *Workspace) Editing(kind EditKind) (EditTarget, bool) {
	if w.editing == nil || w.editing.Kind != kind {
		return EditTarget{}, false
	}
	return *w.editing, true
}

// CancelEdit closes the editor without touching any record.
func (w *Workspace) CancelEdit() {
	w.editing = nil
}
