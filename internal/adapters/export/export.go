// Package export writes records and reports in operator-facing formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/audit"
	"treasurecove/internal/domain/lifeguard"
)

// Format is an output encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Dataset names what is exported.
type Dataset string

const (
	DatasetAudits     Dataset = "audits"
	DatasetLifeguards Dataset = "lifeguards"
	DatasetActivity   Dataset = "activity"
	DatasetMonthly    Dataset = "monthly"
)

// ErrUnsupportedFormat is returned when a dataset cannot be written in a format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Formats lists the formats each dataset supports, default first.
var Formats = map[Dataset][]Format{
	DatasetAudits:     {FormatCSV, FormatJSON},
	DatasetLifeguards: {FormatCSV, FormatJSON},
	DatasetActivity:   {FormatCSV, FormatJSON},
	DatasetMonthly:    {FormatMarkdown, FormatHTML},
}

// ParseDataset converts user input to a Dataset.
func ParseDataset(s string) (Dataset, error) {
	d := Dataset(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := Formats[d]; !ok {
		return "", fmt.Errorf("unknown dataset %q (want audits, lifeguards, activity or monthly)", s)
	}
	return d, nil
}

// ResolveFormat checks s against the formats of d. An empty s selects the default.
func ResolveFormat(d Dataset, s string) (Format, error) {
	allowed := Formats[d]
	if len(allowed) == 0 {
		return "", fmt.Errorf("unknown dataset %q", d)
	}
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" || (f == "md" && allowed[0] == FormatMarkdown) {
		return allowed[0], nil
	}
	for _, a := range allowed {
		if a == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %s cannot be exported as %q", ErrUnsupportedFormat, d, s)
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Audits writes audits as CSV or JSON.
func Audits(w io.Writer, f Format, audits []audit.Audit) error {
	switch f {
	case FormatJSON:
		if audits == nil {
			audits = []audit.Audit{}
		}
		return writeJSON(w, audits)
	case FormatCSV:
		header := []string{"id", "lifeguard_name", "date", "time", "audit_type", "skill_detail", "auditor_name",
			"result", "notes", "follow_up", "created_by", "created_date", "last_edited_by", "last_edited_date"}
		rows := make([][]string, 0, len(audits))
		for _, a := range audits {
			editedBy, editedAt := "", ""
			if a.LastEditedBy != nil {
				editedBy = *a.LastEditedBy
			}
			if a.LastEditedAt != nil {
				editedAt = stamp(*a.LastEditedAt)
			}
			rows = append(rows, []string{
				strconv.Itoa(a.ID), a.LifeguardName, a.Date, a.Time, string(a.Type), a.SkillDetail, a.AuditorName,
				string(a.Result), a.Notes, a.FollowUp, a.CreatedBy, stamp(a.CreatedAt), editedBy, editedAt,
			})
		}
		return writeCSV(w, header, rows)
	}
	return fmt.Errorf("%w: audits as %q", ErrUnsupportedFormat, f)
}

// Lifeguards writes the roster as CSV or JSON.
func Lifeguards(w io.Writer, f Format, lifeguards []lifeguard.Lifeguard) error {
	switch f {
	case FormatJSON:
		if lifeguards == nil {
			lifeguards = []lifeguard.Lifeguard{}
		}
		return writeJSON(w, lifeguards)
	case FormatCSV:
		header := []string{"sheet_number", "sheet_name", "lifeguard_name", "active", "hire_date", "status"}
		rows := make([][]string, 0, len(lifeguards))
		for _, l := range lifeguards {
			rows = append(rows, []string{l.SheetNumber, l.SheetName, l.Name, strconv.FormatBool(l.Active), l.HireDate, string(l.Status)})
		}
		return writeCSV(w, header, rows)
	}
	return fmt.Errorf("%w: lifeguards as %q", ErrUnsupportedFormat, f)
}

// Activity writes activity entries as CSV or JSON.
func Activity(w io.Writer, f Format, entries []activity.Entry) error {
	switch f {
	case FormatJSON:
		if entries == nil {
			entries = []activity.Entry{}
		}
		return writeJSON(w, entries)
	case FormatCSV:
		header := []string{"id", "timestamp", "user", "action", "details"}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{strconv.Itoa(e.ID), stamp(e.Timestamp), e.User, string(e.Action), e.Details})
		}
		return writeCSV(w, header, rows)
	}
	return fmt.Errorf("%w: activity as %q", ErrUnsupportedFormat, f)
}
