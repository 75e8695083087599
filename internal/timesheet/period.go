// Package timesheet holds the reporting core: period resolution, time-log
// filtering, the three aggregation modes and the scalar summary. Everything
// here is pure; "now" is always an explicit parameter so range resolution
// stays deterministic under test.
package timesheet

import (
	"errors"
	"strconv"
	"time"
)

// ErrInvalidDate is returned for an unparseable date string. Handlers map it
// to 400; an invalid date never silently degrades to "no filter".
var ErrInvalidDate = errors.New("invalid date format")

// Range is an inclusive [Start, End] window. A nil *Range means no date
// constraint at all: every entry qualifies on the date axis.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window, both ends inclusive.
// Nil receiver admits everything.
func (r *Range) Contains(t time.Time) bool {
	if r == nil {
		return true
	}
	return !t.Before(r.Start) && !t.After(r.End)
}

// timeRange tokens accepted by the timesheet endpoint.
const (
	RangeThisWeek  = "this-week"
	RangeThisMonth = "this-month"
	RangeLastMonth = "last-month"
	RangeThisYear  = "this-year"
	RangeCustom    = "custom"
)

// parseDate accepts a plain date or a full RFC3339 instant.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

// ResolveReportPeriod maps the admin time-report parameters onto a concrete
// range. Explicit start+end win over period; a numeric period means "the
// last N days ending at the literal instant now" (not midnight-aligned,
// kept as-is so reported totals stay stable); "this-month" uses calendar
// bounds. With no parameters at all the result is nil: no date filtering.
func ResolveReportPeriod(now time.Time, period, start, end string) (*Range, error) {
	if start != "" && end != "" {
		s, err := parseDate(start)
		if err != nil {
			return nil, err
		}
		e, err := parseDate(end)
		if err != nil {
			return nil, err
		}
		return &Range{Start: s, End: e}, nil
	}
	if period == RangeThisMonth {
		return monthRange(now, 0), nil
	}
	if period != "" {
		days, err := strconv.Atoi(period)
		if err != nil || days <= 0 {
			return nil, nil
		}
		return &Range{Start: now.AddDate(0, 0, -(days - 1)), End: now}, nil
	}
	return nil, nil
}

// ResolveTimesheetRange maps the timesheet timeRange vocabulary onto a
// concrete range. An empty or unrecognized token means no date filtering.
func ResolveTimesheetRange(now time.Time, timeRange, startDate, endDate string) (*Range, error) {
	switch timeRange {
	case RangeThisWeek:
		// Sunday 00:00:00 of the current week through now.
		day := startOfDay(now).AddDate(0, 0, -int(now.Weekday()))
		return &Range{Start: day, End: now}, nil
	case RangeThisMonth:
		return monthRange(now, 0), nil
	case RangeLastMonth:
		return monthRange(now, -1), nil
	case RangeThisYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return &Range{Start: start, End: now}, nil
	case RangeCustom:
		s, err := parseDate(startDate)
		if err != nil {
			return nil, err
		}
		e, err := parseDate(endDate)
		if err != nil {
			return nil, err
		}
		return &Range{Start: s, End: endOfDay(e)}, nil
	}
	return nil, nil
}

// monthRange returns the full calendar month `offset` months away from now
// (0 = current, -1 = previous), end pinned to 23:59:59.999.
func monthRange(now time.Time, offset int) *Range {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, offset, 0)
	return &Range{Start: first, End: first.AddDate(0, 1, 0).Add(-time.Millisecond)}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
