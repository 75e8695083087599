package timesheet

import (
	"testing"
	"time"
)

// fixed "now": Wednesday, 2024-03-13 15:04:05 UTC
var now = time.Date(2024, time.March, 13, 15, 4, 5, 0, time.UTC)

func TestResolveReportPeriodExplicitRangeWins(t *testing.T) {
	r, err := ResolveReportPeriod(now, "7", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("ResolveReportPeriod failed: %v", err)
	}
	if r == nil {
		t.Fatal("expected a range, got nil")
	}
	if got := r.Start.Format("2006-01-02"); got != "2024-01-01" {
		t.Errorf("start = %s, want 2024-01-01", got)
	}
	if got := r.End.Format("2006-01-02"); got != "2024-01-31" {
		t.Errorf("end = %s, want 2024-01-31", got)
	}
}

func TestResolveReportPeriodLastNDays(t *testing.T) {
	r, err := ResolveReportPeriod(now, "7", "", "")
	if err != nil {
		t.Fatalf("ResolveReportPeriod failed: %v", err)
	}
	// end is the literal instant, not end-of-day
	if !r.End.Equal(now) {
		t.Errorf("end = %v, want %v", r.End, now)
	}
	want := now.AddDate(0, 0, -6)
	if !r.Start.Equal(want) {
		t.Errorf("start = %v, want %v (N-1 days back, today included)", r.Start, want)
	}
}

func TestResolveReportPeriodThisMonth(t *testing.T) {
	r, err := ResolveReportPeriod(now, "this-month", "", "")
	if err != nil {
		t.Fatalf("ResolveReportPeriod failed: %v", err)
	}
	wantStart := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !r.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", r.Start, wantStart)
	}
	wantEnd := time.Date(2024, time.March, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	if !r.End.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", r.End, wantEnd)
	}
}

func TestResolveReportPeriodNoInput(t *testing.T) {
	r, err := ResolveReportPeriod(now, "", "", "")
	if err != nil {
		t.Fatalf("ResolveReportPeriod failed: %v", err)
	}
	if r != nil {
		t.Errorf("expected nil range (no filtering), got %+v", r)
	}
}

func TestResolveReportPeriodInvalidDate(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
	}{
		{"garbage start", "not-a-date", "2024-01-31"},
		{"garbage end", "2024-01-01", "31/01/2024"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ResolveReportPeriod(now, "", tc.start, tc.end); err != ErrInvalidDate {
				t.Errorf("err = %v, want ErrInvalidDate", err)
			}
		})
	}
}

func TestResolveTimesheetRange(t *testing.T) {
	cases := []struct {
		name      string
		timeRange string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			// 2024-03-13 is a Wednesday; the week starts Sunday 2024-03-10.
			name:      "this-week",
			timeRange: RangeThisWeek,
			wantStart: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
			wantEnd:   now,
		},
		{
			name:      "this-month",
			timeRange: RangeThisMonth,
			wantStart: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.March, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
		{
			name:      "last-month",
			timeRange: RangeLastMonth,
			wantStart: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.February, 29, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
		{
			name:      "this-year",
			timeRange: RangeThisYear,
			wantStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   now,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := ResolveTimesheetRange(now, tc.timeRange, "", "")
			if err != nil {
				t.Fatalf("ResolveTimesheetRange failed: %v", err)
			}
			if !r.Start.Equal(tc.wantStart) {
				t.Errorf("start = %v, want %v", r.Start, tc.wantStart)
			}
			if !r.End.Equal(tc.wantEnd) {
				t.Errorf("end = %v, want %v", r.End, tc.wantEnd)
			}
		})
	}
}

func TestResolveTimesheetRangeCustomForcesEndOfDay(t *testing.T) {
	r, err := ResolveTimesheetRange(now, RangeCustom, "2024-02-01", "2024-02-15")
	if err != nil {
		t.Fatalf("ResolveTimesheetRange failed: %v", err)
	}
	wantEnd := time.Date(2024, time.February, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	if !r.End.Equal(wantEnd) {
		t.Errorf("end = %v, want %v (23:59:59.999 forced)", r.End, wantEnd)
	}
}

func TestResolveTimesheetRangeCustomInvalidDate(t *testing.T) {
	if _, err := ResolveTimesheetRange(now, RangeCustom, "soon", "2024-02-15"); err != ErrInvalidDate {
		t.Errorf("err = %v, want ErrInvalidDate", err)
	}
}

func TestResolveTimesheetRangeUnknownToken(t *testing.T) {
	r, err := ResolveTimesheetRange(now, "", "", "")
	if err != nil {
		t.Fatalf("ResolveTimesheetRange failed: %v", err)
	}
	if r != nil {
		t.Errorf("expected nil range for empty token, got %+v", r)
	}
}

// An inverted range is valid input, not an error: it simply matches nothing.
func TestRangeInvertedMatchesNothing(t *testing.T) {
	r := &Range{Start: now, End: now.AddDate(0, 0, -1)}
	if r.Contains(now) || r.Contains(now.AddDate(0, 0, -1)) {
		t.Error("inverted range must not contain anything")
	}
}

func TestRangeInclusiveBounds(t *testing.T) {
	r := &Range{Start: now, End: now.Add(time.Hour)}
	if !r.Contains(r.Start) {
		t.Error("start bound must be inclusive")
	}
	if !r.Contains(r.End) {
		t.Error("end bound must be inclusive")
	}
	if r.Contains(r.End.Add(time.Nanosecond)) {
		t.Error("instant past end must be excluded")
	}
}
