package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"projectpulse/internal/models"
	"projectpulse/internal/timesheet"
)

func newReportFixture() *ReportService {
	alice := &models.UserRef{ID: 1, Name: "Alice", Email: "alice@example.com"}
	repo := &fakeTaskRepo{tasks: map[int64]*models.Task{
		1: {
			ID: 1, ProjectID: 10, ProjectName: "Alpha", Title: "Build login page",
			Status: models.StatusInProgress,
			TimeLogs: []models.TimeLogEntry{
				{ID: 1, TaskID: 1, User: alice, Hours: 2, Minutes: 0,
					LoggedAt: time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)},
				{ID: 2, TaskID: 1, User: alice, Hours: 1, Minutes: 30,
					LoggedAt: time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)},
			},
		},
	}}
	return NewReportService(repo)
}

var reportNow = time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)

func TestTimesheetDefaultsToByUser(t *testing.T) {
	svc := newReportFixture()
	resp, err := svc.Timesheet(context.Background(), reportNow, TimesheetRequest{})
	if err != nil {
		t.Fatalf("Timesheet failed: %v", err)
	}
	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.ViewMode != timesheet.ViewByUser {
		t.Errorf("ViewMode = %q, want by-user default", resp.ViewMode)
	}
	groups, ok := resp.TimesheetData.([]timesheet.UserGroup)
	if !ok {
		t.Fatalf("TimesheetData has type %T, want []timesheet.UserGroup", resp.TimesheetData)
	}
	if len(groups) != 1 || groups[0].TotalHours != 3.5 {
		t.Errorf("groups = %+v, want one group with 3.5h", groups)
	}
	if resp.Summary.TotalHours != 3.5 || resp.Summary.TotalTasks != 1 {
		t.Errorf("summary = %+v", resp.Summary)
	}
}

// A range that matches nothing is a success response with zeros and empty
// lists, distinct from a malformed request.
func TestTimesheetZeroMatchIsEmptySuccess(t *testing.T) {
	svc := newReportFixture()
	resp, err := svc.Timesheet(context.Background(), reportNow, TimesheetRequest{
		TimeRange: timesheet.RangeCustom,
		StartDate: "2020-01-01",
		EndDate:   "2020-01-31",
	})
	if err != nil {
		t.Fatalf("Timesheet failed: %v", err)
	}
	if !resp.Success {
		t.Error("Success = false, want true for zero matches")
	}
	groups := resp.TimesheetData.([]timesheet.UserGroup)
	if len(groups) != 0 {
		t.Errorf("len(groups) = %d, want 0", len(groups))
	}
	if s := resp.Summary; s.TotalHours != 0 || s.TotalTasks != 0 || s.ActiveUsers != 0 || s.AvgHoursPerTask != 0 {
		t.Errorf("summary = %+v, want all zeros", s)
	}
}

func TestTimesheetInvalidCustomDate(t *testing.T) {
	svc := newReportFixture()
	_, err := svc.Timesheet(context.Background(), reportNow, TimesheetRequest{
		TimeRange: timesheet.RangeCustom,
		StartDate: "yesterday-ish",
		EndDate:   "2024-03-10",
	})
	if !errors.Is(err, timesheet.ErrInvalidDate) {
		t.Errorf("err = %v, want ErrInvalidDate (no silent fallback to unfiltered)", err)
	}
}

func TestTimeReportShape(t *testing.T) {
	svc := newReportFixture()
	resp, err := svc.TimeReport(context.Background(), reportNow, "30", "", "", nil)
	if err != nil {
		t.Fatalf("TimeReport failed: %v", err)
	}
	if resp.Period == nil {
		t.Fatal("Period = nil, want resolved range")
	}
	if len(resp.TotalsByUser) != 1 || resp.TotalsByUser[0].TotalHours != 3.5 {
		t.Errorf("TotalsByUser = %+v", resp.TotalsByUser)
	}
	if len(resp.ByUserAndProject) != 1 || resp.ByUserAndProject[0].ProjectName != "Alpha" {
		t.Errorf("ByUserAndProject = %+v", resp.ByUserAndProject)
	}
	if len(resp.ByUserAndTask) != 1 {
		t.Errorf("ByUserAndTask = %+v", resp.ByUserAndTask)
	}
}

func TestTimeReportInvalidExplicitDates(t *testing.T) {
	svc := newReportFixture()
	if _, err := svc.TimeReport(context.Background(), reportNow, "", "03-2024-01", "2024-03-31", nil); !errors.Is(err, timesheet.ErrInvalidDate) {
		t.Errorf("err = %v, want ErrInvalidDate", err)
	}
}
