package audit

import "testing"

func mk(name, date string, r Result) Audit {
	return Audit{LifeguardName: name, Date: date, Time: "10:00", Type: TypeVisual, AuditorName: "x", Result: r}
}

func TestMonthly_TwoExceedsMonthsIsStable(t *testing.T) {
	audits := []Audit{
		mk("MIA FIGUEROA", "2025-08-15", ResultExceeds),
		mk("MIA FIGUEROA", "2025-07-15", ResultExceeds),
		mk("JASON MOLL", "2025-07-20", ResultFails),
	}
	r := Monthly(audits, "MIA FIGUEROA")
	if len(r.Months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(r.Months))
	}
	if r.Months[0].Month != "2025-07" || r.Months[1].Month != "2025-08" {
		t.Errorf("months not ascending: %+v", r.Months)
	}
	for _, m := range r.Months {
		if m.ExceedsPercent != 100 {
			t.Errorf("%s: expected 100%% exceeds, got %d", m.Month, m.ExceedsPercent)
		}
	}
	if r.Trend != TrendStable {
		t.Errorf("expected stable, got %s", r.Trend)
	}
	if r.BestMonth == nil || r.BestMonth.Month != "2025-07" {
		t.Errorf("tie should go to the earlier month, got %+v", r.BestMonth)
	}
}

func TestMonthly_CountsAddUp(t *testing.T) {
	audits := []Audit{
		mk("A", "2025-01-02", ResultExceeds),
		mk("A", "2025-01-03", ResultMeets),
		mk("A", "2025-01-04", ResultFails),
		mk("A", "2025-02-01", ResultMeets),
		mk("A", "2025-02-02", ResultExceeds),
		mk("A", "2025-02-03", ResultExceeds),
	}
	r := Monthly(audits, "A")
	for _, m := range r.Months {
		if m.Exceeds+m.Meets+m.Fails != m.Total {
			t.Errorf("%s: counts do not add up: %+v", m.Month, m)
		}
	}
	jan := r.Months[0]
	if jan.ExceedsPercent != 33 || jan.MeetsPercent != 33 || jan.FailsPercent != 33 {
		t.Errorf("unexpected rounding: %+v", jan)
	}
	if r.Trend != TrendImproving || r.TrendFromPercent != 33 || r.TrendToPercent != 67 {
		t.Errorf("unexpected trend: %s %d->%d", r.Trend, r.TrendFromPercent, r.TrendToPercent)
	}
	if r.MostActiveMonth.Month != "2025-01" {
		t.Errorf("most active tie should go to January, got %s", r.MostActiveMonth.Month)
	}
	if r.BestMonth.Month != "2025-02" {
		t.Errorf("best month should be February, got %s", r.BestMonth.Month)
	}
}

func TestMonthly_Declining(t *testing.T) {
	r := Monthly([]Audit{
		mk("B", "2025-03-01", ResultExceeds),
		mk("B", "2025-05-01", ResultFails),
	}, "B")
	if r.Trend != TrendDeclining {
		t.Errorf("expected declining, got %s", r.Trend)
	}
}

func TestMonthly_NoAudits(t *testing.T) {
	r := Monthly(nil, "NOBODY")
	if len(r.Months) != 0 || r.BestMonth != nil || r.MostActiveMonth != nil {
		t.Errorf("expected empty report, got %+v", r)
	}
	if r.Trend != TrendInsufficientData {
		t.Errorf("expected insufficient data, got %s", r.Trend)
	}
}

func TestMonthly_SingleMonth(t *testing.T) {
	r := Monthly([]Audit{mk("C", "2025-06-01", ResultMeets)}, "C")
	if r.Trend != TrendInsufficientData {
		t.Errorf("expected insufficient data with one month, got %s", r.Trend)
	}
}

func TestPercent_RoundsHalfUp(t *testing.T) {
	tests := []struct{ n, total, want int }{
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{0, 5, 0},
		{5, 5, 100},
	}
	for _, tt := range tests {
		if got := Percent(tt.n, tt.total); got != tt.want {
			t.Errorf("Percent(%d,%d) = %d, want %d", tt.n, tt.total, got, tt.want)
		}
	}
}
