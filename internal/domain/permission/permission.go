package permission

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"
)

// Capability is one named permission. The set is closed.
type Capability uint8

const (
	ManageUsers Capability = iota
	CreateUsers
	DeactivateUsers
	EditAllAudits
	ViewAllAudits
	CreateAudits
	ManageLifeguards
	ViewActivityLog
	ViewAdminMetrics
	ExportData
	ModifyPermissions

	capabilityCount
)

var names = [capabilityCount]string{
	"manage_users",
	"create_users",
	"deactivate_users",
	"edit_all_audits",
	"view_all_audits",
	"create_audits",
	"manage_lifeguards",
	"view_activity_log",
	"view_admin_metrics",
	"export_data",
	"modify_permissions",
}

const keyPrefix = "can_"

// All returns every capability in declaration order.
func All() []Capability {
	out := make([]Capability, 0, capabilityCount)
	for c := Capability(0); c < capabilityCount; c++ {
		out = append(out, c)
	}
	return out
}

// Valid reports whether c is one of the declared capabilities.
func (c Capability) Valid() bool {
	return c < capabilityCount
}

func (c Capability) String() string {
	if !c.Valid() {
		return fmt.Sprintf("capability(%d)", uint8(c))
	}
	return names[c]
}

// Key is the persisted field name, e.g. "can_manage_users".
func (c Capability) Key() string {
	return keyPrefix + c.String()
}

// Parse accepts either the bare name or the persisted key form.
func Parse(s string) (Capability, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), keyPrefix)
	for i, n := range names {
		if n == name {
			return Capability(i), nil
		}
	}
	return 0, fmt.Errorf("unknown capability %q", s)
}

// Set is a fixed-width bitset of capabilities. The zero value grants nothing.
type Set uint16

// NewSet builds a set holding the given capabilities.
func NewSet(caps ...Capability) Set {
	return Set(0).With(caps...)
}

// AllSet grants every capability.
func AllSet() Set {
	return NewSet(All()...)
}

// Has reports whether c is granted. Undeclared capabilities are never granted.
func (s Set) Has(c Capability) bool {
	if !c.Valid() {
		return false
	}
	return s&(1<<c) != 0
}

// With returns a copy of s with caps granted.
func (s Set) With(caps ...Capability) Set {
	for _, c := range caps {
		if c.Valid() {
			s |= 1 << c
		}
	}
	return s
}

// Without returns a copy of s with caps revoked.
func (s Set) Without(caps ...Capability) Set {
	for _, c := range caps {
		if c.Valid() {
			s &^= 1 << c
		}
	}
	return s
}

// Count returns the number of granted capabilities.
func (s Set) Count() int {
	return bits.OnesCount16(uint16(s & AllSet()))
}

// List returns the granted capabilities in declaration order.
func (s Set) List() []Capability {
	var out []Capability
	for _, c := range All() {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// MarshalJSON writes the persisted object form with every key present.
func (s Set) MarshalJSON() ([]byte, error) {
	m := make(map[string]bool, capabilityCount)
	for _, c := range All() {
		m[c.Key()] = s.Has(c)
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads the persisted object form. Unknown keys are ignored and
// missing keys are false.
func (s *Set) UnmarshalJSON(data []byte) error {
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decode permissions: %w", err)
	}
	var out Set
	for k, granted := range m {
		if !granted {
			continue
		}
		c, err := Parse(k)
		if err != nil {
			continue
		}
		out = out.With(c)
	}
	*s = out
	return nil
}
