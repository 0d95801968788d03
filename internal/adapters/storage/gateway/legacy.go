package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"treasurecove/internal/adapters/storage"
	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/audit"
	"treasurecove/internal/domain/lifeguard"
	"treasurecove/internal/domain/permission"
	"treasurecove/internal/domain/user"
)

// Unversioned documents are bare JSON arrays with plaintext passwords and
// date strings in several layouts.

type legacyUser struct {
	ID          int            `json:"id"`
	Username    string         `json:"username"`
	Password    string         `json:"password"`
	Role        user.Role      `json:"role"`
	Active      bool           `json:"active"`
	CreatedBy   string         `json:"created_by"`
	CreatedDate string         `json:"created_date"`
	LastLogin   *string        `json:"last_login"`
	Permissions permission.Set `json:"individual_permissions"`
}

type legacyAudit struct {
	ID             int          `json:"id"`
	LifeguardName  string       `json:"lifeguard_name"`
	Date           string       `json:"date"`
	Time           string       `json:"time"`
	Type           audit.Type   `json:"audit_type"`
	SkillDetail    string       `json:"skill_detail"`
	AuditorName    string       `json:"auditor_name"`
	Result         audit.Result `json:"result"`
	Notes          string       `json:"notes"`
	FollowUp       string       `json:"follow_up"`
	CreatedBy      string       `json:"created_by"`
	CreatedDate    string       `json:"created_date"`
	LastEditedBy   *string      `json:"last_edited_by"`
	LastEditedDate *string      `json:"last_edited_date"`
}

type legacyEntry struct {
	ID        int             `json:"id"`
	Timestamp string          `json:"timestamp"`
	User      string          `json:"user"`
	Action    activity.Action `json:"action"`
	Details   string          `json:"details"`
}

func importLegacy(collection string, raw []byte, dst any, cost int) error {
	switch d := dst.(type) {
	case *[]user.User:
		var in []legacyUser
		if err := json.Unmarshal(raw, &in); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		out := make([]user.User, 0, len(in))
		for _, lu := range in {
			u, err := lu.convert(cost)
			if err != nil {
				return err
			}
			out = append(out, u)
		}
		*d = out
	case *[]lifeguard.Lifeguard:
		var in []lifeguard.Lifeguard
		if err := json.Unmarshal(raw, &in); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		for i := range in {
			in[i].Normalize()
		}
		*d = in
	case *[]audit.Audit:
		var in []legacyAudit
		if err := json.Unmarshal(raw, &in); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		out := make([]audit.Audit, 0, len(in))
		for _, la := range in {
			a, err := la.convert()
			if err != nil {
				return err
			}
			out = append(out, a)
		}
		*d = out
	case *[]activity.Entry:
		var in []legacyEntry
		if err := json.Unmarshal(raw, &in); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		out := make([]activity.Entry, 0, len(in))
		for _, le := range in {
			at, err := storage.ParseTime(le.Timestamp)
			if err != nil {
				return fmt.Errorf("%w: activity %d: %v", ErrCorrupt, le.ID, err)
			}
			out = append(out, activity.NewEntry(le.ID, at, le.User, le.Action).WithDetails(le.Details))
		}
		*d = out
	default:
		return fmt.Errorf("%w: %s has no unversioned form", ErrUnknownFormat, collection)
	}
	return nil
}

func (lu legacyUser) convert(cost int) (user.User, error) {
	created, err := storage.ParseTime(lu.CreatedDate)
	if err != nil {
		return user.User{}, fmt.Errorf("%w: user %d: %v", ErrCorrupt, lu.ID, err)
	}
	u := user.User{
		ID:          lu.ID,
		Username:    lu.Username,
		Role:        lu.Role,
		Active:      lu.Active,
		CreatedBy:   lu.CreatedBy,
		CreatedAt:   created,
		Permissions: lu.Permissions,
	}
	if lu.LastLogin != nil && *lu.LastLogin != "" {
		t, err := storage.ParseTime(*lu.LastLogin)
		if err != nil {
			return user.User{}, fmt.Errorf("%w: user %d: %v", ErrCorrupt, lu.ID, err)
		}
		u.LastLogin = &t
	}
	if lu.Password != "" {
		hash, err := user.ImportPassword(lu.Password, cost)
		if err != nil {
			return user.User{}, fmt.Errorf("import user %d: %w", lu.ID, err)
		}
		u.PasswordHash = hash
	}
	return u, nil
}

func (la legacyAudit) convert() (audit.Audit, error) {
	created, err := storage.ParseTime(la.CreatedDate)
	if err != nil {
		return audit.Audit{}, fmt.Errorf("%w: audit %d: %v", ErrCorrupt, la.ID, err)
	}
	a := audit.Audit{
		ID:            la.ID,
		LifeguardName: la.LifeguardName,
		Date:          la.Date,
		Time:          la.Time,
		Type:          la.Type,
		SkillDetail:   la.SkillDetail,
		AuditorName:   la.AuditorName,
		Result:        la.Result,
		Notes:         la.Notes,
		FollowUp:      la.FollowUp,
		CreatedBy:     la.CreatedBy,
		CreatedAt:     created,
	}
	if la.LastEditedBy != nil && la.LastEditedDate != nil {
		var at time.Time
		at, err = storage.ParseTime(*la.LastEditedDate)
		if err != nil {
			return audit.Audit{}, fmt.Errorf("%w: audit %d: %v", ErrCorrupt, la.ID, err)
		}
		by := *la.LastEditedBy
		a.LastEditedBy, a.LastEditedAt = &by, &at
	}
	return a, nil
}
