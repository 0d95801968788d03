package audit

import (
	"errors"
	"strings"
	"time"

	"treasurecove/internal/domain/validation"
)

// Date and time layouts for the audit's own date fields.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Type is the kind of audit performed.
type Type string

const (
	TypeVisual Type = "Visual"
	TypeVAT    Type = "VAT"
	TypeSkill  Type = "Skill"
)

// ValidTypes contains all valid audit types.
var ValidTypes = []Type{TypeVisual, TypeVAT, TypeSkill}

// Result is the graded outcome of an audit.
type Result string

const (
	ResultExceeds Result = "EXCEEDS"
	ResultMeets   Result = "MEETS"
	ResultFails   Result = "FAILS"
)

// ValidResults contains all valid results, best first.
var ValidResults = []Result{ResultExceeds, ResultMeets, ResultFails}

// Domain errors
var (
	ErrInvalidType   = errors.New("audit type must be one of: Visual, VAT, Skill")
	ErrInvalidResult = errors.New("result must be one of: EXCEEDS, MEETS, FAILS")
)

// Audit is one recorded performance check of a lifeguard. Lifeguard and
// auditor are referenced by name only.
type Audit struct {
	ID            int        `json:"id"`
	LifeguardName string     `json:"lifeguard_name"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	Type          Type       `json:"audit_type"`
	SkillDetail   string     `json:"skill_detail"`
	AuditorName   string     `json:"auditor_name"`
	Result        Result     `json:"result"`
	Notes         string     `json:"notes"`
	FollowUp      string     `json:"follow_up"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_date"`
	LastEditedBy  *string    `json:"last_edited_by"`
	LastEditedAt  *time.Time `json:"last_edited_date"`
}

// ParseType converts user input to a Type, ignoring case.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	for _, t := range ValidTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", ErrInvalidType
}

// ParseResult converts user input to a Result, ignoring case.
func ParseResult(s string) (Result, error) {
	r := Result(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range ValidResults {
		if v == r {
			return r, nil
		}
	}
	return "", ErrInvalidResult
}

// Passed reports whether the result counts toward the pass rate.
func (r Result) Passed() bool {
	return r == ResultExceeds || r == ResultMeets
}

// Month returns the year-month prefix of the audit date.
func (a Audit) Month() string {
	if len(a.Date) < len(MonthLayout) {
		return a.Date
	}
	return a.Date[:len(MonthLayout)]
}

// Edited reports whether the audit was changed after creation.
func (a Audit) Edited() bool {
	return a.LastEditedBy != nil && a.LastEditedAt != nil
}

// Validate checks if the Audit has valid data.
// PRE: Audit struct is populated
// POST: Returns nil if valid, a *validation.Error otherwise
func (a *Audit) Validate() error {
	required := []struct{ field, value string }{
		{"lifeguard_name", a.LifeguardName},
		{"auditor_name", a.AuditorName},
		{"date", a.Date},
		{"time", a.Time},
		{"audit_type", string(a.Type)},
		{"result", string(a.Result)},
	}
	for _, r := range required {
		if err := validation.Required(r.field, r.value); err != nil {
			return err
		}
	}
	if _, err := time.Parse(DateLayout, a.Date); err != nil {
		return validation.New("date", "must be YYYY-MM-DD")
	}
	if !validClock(a.Time) {
		return validation.New("time", "must be HH:MM or HH:MM:SS")
	}
	if _, err := ParseType(string(a.Type)); err != nil {
		return validation.New("audit_type", err.Error())
	}
	if _, err := ParseResult(string(a.Result)); err != nil {
		return validation.New("result", err.Error())
	}
	return nil
}

func validClock(s string) bool {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
