package audit

import (
	"sort"
)

// Trend describes how the exceeds percentage moved from the first month to the last.
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendDeclining        Trend = "declining"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// MonthStats aggregates one lifeguard's audits in one calendar month.
// INVARIANT: Exceeds + Meets + Fails == Total
type MonthStats struct {
	Month          string `json:"month"`
	Total          int    `json:"total"`
	Exceeds        int    `json:"exceeds"`
	Meets          int    `json:"meets"`
	Fails          int    `json:"fails"`
	ExceedsPercent int    `json:"exceeds_percent"`
	MeetsPercent   int    `json:"meets_percent"`
	FailsPercent   int    `json:"fails_percent"`
}

// MonthlyReport is the per-lifeguard statistics view.
type MonthlyReport struct {
	LifeguardName    string       `json:"lifeguard_name"`
	Months           []MonthStats `json:"months"`
	BestMonth        *MonthStats  `json:"best_month"`
	MostActiveMonth  *MonthStats  `json:"most_active_month"`
	Trend            Trend        `json:"trend"`
	TrendFromPercent int          `json:"trend_from_percent"`
	TrendToPercent   int          `json:"trend_to_percent"`
}

// Percent rounds 100*n/total half up. total must be positive.
func Percent(n, total int) int {
	return (200*n + total) / (2 * total)
}

// Monthly builds the statistics for audits whose lifeguard name equals name.
// POST: Months sorted ascending; best and most-active ties go to the earlier month
func Monthly(audits []Audit, name string) MonthlyReport {
	byMonth := make(map[string]*MonthStats)
	for _, a := range audits {
		if a.LifeguardName != name {
			continue
		}
		key := a.Month()
		ms, ok := byMonth[key]
		if !ok {
			ms = &MonthStats{Month: key}
			byMonth[key] = ms
		}
		ms.Total++
		switch a.Result {
		case ResultExceeds:
			ms.Exceeds++
		case ResultMeets:
			ms.Meets++
		case ResultFails:
			ms.Fails++
		}
	}

	report := MonthlyReport{LifeguardName: name, Months: make([]MonthStats, 0, len(byMonth))}
	for _, ms := range byMonth {
		// Unknown results are not counted.
		ms.Total = ms.Exceeds + ms.Meets + ms.Fails
		if ms.Total == 0 {
			continue
		}
		ms.ExceedsPercent = Percent(ms.Exceeds, ms.Total)
		ms.MeetsPercent = Percent(ms.Meets, ms.Total)
		ms.FailsPercent = Percent(ms.Fails, ms.Total)
		report.Months = append(report.Months, *ms)
	}
	sort.Slice(report.Months, func(i, j int) bool { return report.Months[i].Month < report.Months[j].Month })

	for i := range report.Months {
		m := &report.Months[i]
		if report.BestMonth == nil || m.ExceedsPercent > report.BestMonth.ExceedsPercent {
			report.BestMonth = m
		}
		if report.MostActiveMonth == nil || m.Total > report.MostActiveMonth.Total {
			report.MostActiveMonth = m
		}
	}

	report.Trend = TrendInsufficientData
	if n := len(report.Months); n >= 2 {
		first, last := report.Months[0].ExceedsPercent, report.Months[n-1].ExceedsPercent
		report.TrendFromPercent, report.TrendToPercent = first, last
		switch {
		case last > first:
			report.Trend = TrendImproving
		case last < first:
			report.Trend = TrendDeclining
		default:
			report.Trend = TrendStable
		}
	}
	return report
}
