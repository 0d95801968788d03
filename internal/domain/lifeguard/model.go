package lifeguard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"treasurecove/internal/domain/validation"
)

// DateLayout is the format of hire dates.
const DateLayout = "2006-01-02"

// Status mirrors the Active flag in the persisted form.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// ErrInvalidStatus is returned for anything other than ACTIVE or INACTIVE.
var ErrInvalidStatus = errors.New("status must be one of: ACTIVE, INACTIVE")

// Lifeguard is a staff member being audited. Sheet numbers are unique.
type Lifeguard struct {
	SheetNumber string `json:"sheet_number"`
	SheetName   string `json:"sheet_name"`
	Name        string `json:"lifeguard_name"`
	Active      bool   `json:"active"`
	HireDate    string `json:"hire_date"`
	Status      Status `json:"status"`
}

// ParseStatus converts user input to a Status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusActive, StatusInactive:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// FormatSheetNumber zero-pads n to two digits.
func FormatSheetNumber(n int) string {
	return fmt.Sprintf("%02d", n)
}

// SheetNumberValue parses a sheet number, returning 0 when it is not numeric.
func SheetNumberValue(sheet string) int {
	n, err := strconv.Atoi(strings.TrimSpace(sheet))
	if err != nil {
		return 0
	}
	return n
}

// SheetNameFor derives the sheet name from its number.
func SheetNameFor(sheet string) string {
	return "Lifeguard_Audit_Sheet_" + sheet
}

// Normalize applies the save-time rules.
// POST: Name is trimmed and upper-cased; SheetName derives from SheetNumber
// INVARIANT: Active == (Status == StatusActive)
func (l *Lifeguard) Normalize() {
	l.Name = strings.ToUpper(strings.TrimSpace(l.Name))
	l.HireDate = strings.TrimSpace(l.HireDate)
	l.SheetName = SheetNameFor(l.SheetNumber)
	l.Active = l.Status == StatusActive
}

// Validate checks if the Lifeguard has valid data.
// PRE: Lifeguard struct is populated
// POST: Returns nil if valid, a *validation.Error otherwise
func (l *Lifeguard) Validate() error {
	if err := validation.Required("lifeguard_name", l.Name); err != nil {
		return err
	}
	if err := validation.Required("hire_date", l.HireDate); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, l.HireDate); err != nil {
		return validation.New("hire_date", "must be YYYY-MM-DD")
	}
	if _, err := ParseStatus(string(l.Status)); err != nil {
		return validation.New("status", err.Error())
	}
	if SheetNumberValue(l.SheetNumber) <= 0 {
		return validation.New("sheet_number", "must be a positive number")
	}
	return nil
}
