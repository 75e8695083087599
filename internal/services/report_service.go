package services

import (
	"context"
	"time"

	"projectpulse/internal/repositories"
	"projectpulse/internal/timesheet"
)

// TimeReportResponse is the admin time-report payload. Period is nil when
// no date filtering applied.
type TimeReportResponse struct {
	Period           *timesheet.Range             `json:"period"`
	TotalsByUser     []timesheet.UserTotal        `json:"totals_by_user"`
	ByUserAndProject []timesheet.UserProjectTotal `json:"by_user_and_project"`
	ByUserAndTask    []timesheet.UserTaskTotal    `json:"by_user_and_task"`
}

// TimesheetRequest mirrors the timesheet query parameters.
type TimesheetRequest struct {
	UserID    *int64
	ProjectID *int64
	TimeRange string
	StartDate string
	EndDate   string
	Search    string
	ViewMode  string
}

type TimesheetResponse struct {
	Success       bool              `json:"success"`
	ViewMode      string            `json:"view_mode"`
	TimesheetData interface{}       `json:"timesheet_data"`
	Summary       timesheet.Summary `json:"summary"`
}

// ReportService orchestrates period resolution, filtering and aggregation
// over a fresh per-request fetch. There is no cached state: every call
// recomputes from the store.
type ReportService struct {
	tasks repositories.TaskRepository
}

func NewReportService(tasks repositories.TaskRepository) *ReportService {
	return &ReportService{tasks: tasks}
}

func (s *ReportService) TimeReport(ctx context.Context, now time.Time, period, start, end string, projectID *int64) (*TimeReportResponse, error) {
	rng, err := timesheet.ResolveReportPeriod(now, period, start, end)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.FindForReport(ctx, projectID)
	if err != nil {
		return nil, err
	}
	pairs := timesheet.Filter(tasks, timesheet.Query{ProjectID: projectID}, rng)

	resp := &TimeReportResponse{
		Period:           rng,
		TotalsByUser:     timesheet.TotalsByUser(pairs),
		ByUserAndProject: timesheet.TotalsByUserProject(pairs),
		ByUserAndTask:    timesheet.TotalsByUserTask(pairs),
	}
	// zero matches is success with empty lists, not null and not an error
	if resp.TotalsByUser == nil {
		resp.TotalsByUser = []timesheet.UserTotal{}
	}
	if resp.ByUserAndProject == nil {
		resp.ByUserAndProject = []timesheet.UserProjectTotal{}
	}
	if resp.ByUserAndTask == nil {
		resp.ByUserAndTask = []timesheet.UserTaskTotal{}
	}
	return resp, nil
}

func (s *ReportService) Timesheet(ctx context.Context, now time.Time, req TimesheetRequest) (*TimesheetResponse, error) {
	rng, err := timesheet.ResolveTimesheetRange(now, req.TimeRange, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.FindForReport(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	pairs := timesheet.Filter(tasks, timesheet.Query{
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
		Search:    req.Search,
	}, rng)

	viewMode := req.ViewMode
	var data interface{}
	switch viewMode {
	case timesheet.ViewByTask:
		groups := timesheet.GroupByTask(pairs)
		if groups == nil {
			groups = []timesheet.TaskGroup{}
		}
		data = groups
	case timesheet.ViewDetailed:
		data = timesheet.Detailed(pairs)
	default:
		viewMode = timesheet.ViewByUser
		groups := timesheet.GroupByUser(pairs)
		if groups == nil {
			groups = []timesheet.UserGroup{}
		}
		data = groups
	}

	return &TimesheetResponse{
		Success:       true,
		ViewMode:      viewMode,
		TimesheetData: data,
		Summary:       timesheet.Summarize(pairs),
	}, nil
}

// TimesheetPairs exposes the filtered pairs for export rendering (PDF),
// same selection rules as Timesheet.
func (s *ReportService) TimesheetPairs(ctx context.Context, now time.Time, req TimesheetRequest) ([]timesheet.Pair, *timesheet.Range, error) {
	rng, err := timesheet.ResolveTimesheetRange(now, req.TimeRange, req.StartDate, req.EndDate)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := s.tasks.FindForReport(ctx, req.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	pairs := timesheet.Filter(tasks, timesheet.Query{
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
		Search:    req.Search,
	}, rng)
	return pairs, rng, nil
}
