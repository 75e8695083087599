package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"projectpulse/internal/pdf"
	"projectpulse/internal/services"
	"projectpulse/internal/timesheet"
)

type ReportHandler struct {
	reports *services.ReportService
	pdf     pdf.Generator
}

func NewReportHandler(reports *services.ReportService, gen pdf.Generator) *ReportHandler {
	return &ReportHandler{reports: reports, pdf: gen}
}

// TimeReport godoc
// @Summary      Aggregated time report
// @Description  Totals by user, by user and project, and by user and task. Admin only.
// @Tags         reports
// @Produce      json
// @Param        period      query  string  false  "number of days back, or this-month"
// @Param        start_date  query  string  false  "YYYY-MM-DD, takes effect together with end_date"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Param        project_id  query  int     false  "restrict to one project"
// @Success      200  {object}  services.TimeReportResponse
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /reports/time [get]
func (h *ReportHandler) TimeReport(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[report][time] call by userID=%d role=%d q=%v", userID, roleID, c.Request.URL.RawQuery)

	resp, err := h.reports.TimeReport(c.Request.Context(), time.Now(),
		c.Query("period"), c.Query("start_date"), c.Query("end_date"), queryInt64(c, "project_id"))
	if err != nil {
		if errors.Is(err, timesheet.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		log.Printf("[report][time][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Timesheet godoc
// @Summary      Timesheet
// @Description  Filtered time logs grouped per view_mode (by-user, by-task, detailed).
// @Tags         reports
// @Produce      json
// @Param        user_id     query  int     false  "only entries of this user"
// @Param        project_id  query  int     false  "only this project"
// @Param        time_range  query  string  false  "this-week, this-month, last-month, this-year or custom"
// @Param        start_date  query  string  false  "YYYY-MM-DD, with time_range=custom"
// @Param        end_date    query  string  false  "YYYY-MM-DD, with time_range=custom"
// @Param        search      query  string  false  "substring over task title and description"
// @Param        view_mode   query  string  false  "by-user (default), by-task or detailed"
// @Success      200  {object}  services.TimesheetResponse
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /reports/timesheet [get]
func (h *ReportHandler) Timesheet(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[report][timesheet] call by userID=%d role=%d q=%v", userID, roleID, c.Request.URL.RawQuery)

	resp, err := h.reports.Timesheet(c.Request.Context(), time.Now(), timesheetRequest(c))
	if err != nil {
		if errors.Is(err, timesheet.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		log.Printf("[report][timesheet][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build timesheet"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportTimesheet godoc
// @Summary      Timesheet PDF export
// @Description  Renders the by-user timesheet for the same filters as /reports/timesheet.
// @Tags         reports
// @Produce      application/pdf
// @Param        time_range  query  string  false  "this-week, this-month, last-month, this-year or custom"
// @Param        start_date  query  string  false  "YYYY-MM-DD, with time_range=custom"
// @Param        end_date    query  string  false  "YYYY-MM-DD, with time_range=custom"
// @Param        user_id     query  int     false  "only entries of this user"
// @Param        project_id  query  int     false  "only this project"
// @Success      200  {file}  binary
// @Security     BearerAuth
// @Router       /reports/timesheet/export [get]
func (h *ReportHandler) ExportTimesheet(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[report][export] call by userID=%d role=%d q=%v", userID, roleID, c.Request.URL.RawQuery)

	now := time.Now()
	pairs, rng, err := h.reports.TimesheetPairs(c.Request.Context(), now, timesheetRequest(c))
	if err != nil {
		if errors.Is(err, timesheet.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		log.Printf("[report][export][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build timesheet"})
		return
	}

	groups := timesheet.GroupByUser(pairs)
	sum := timesheet.Summarize(pairs)

	rows := make([]pdf.TimesheetRow, 0, len(groups))
	for _, g := range groups {
		projects := append([]string(nil), g.Projects...)
		sort.Strings(projects)
		rows = append(rows, pdf.TimesheetRow{
			UserName:   g.User.Name,
			TotalHours: g.TotalHours,
			TasksCount: g.TasksCount,
			Projects:   strings.Join(projects, ", "),
		})
	}

	path, err := h.pdf.GenerateTimesheet(pdf.TimesheetData{
		PeriodLabel: periodLabel(rng),
		GeneratedAt: now,
		Rows:        rows,
		TotalHours:  sum.TotalHours,
		Filename:    fmt.Sprintf("timesheet_%s.pdf", uuid.NewString()),
	})
	if err != nil {
		log.Printf("[report][export][err] pdf: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render pdf"})
		return
	}
	log.Printf("[report][export][ok] file=%s rows=%d", path, len(rows))

	c.Header("Content-Disposition", `attachment; filename="timesheet.pdf"`)
	c.File(path)
}

func timesheetRequest(c *gin.Context) services.TimesheetRequest {
	return services.TimesheetRequest{
		UserID:    queryInt64(c, "user_id"),
		ProjectID: queryInt64(c, "project_id"),
		TimeRange: c.Query("time_range"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Search:    c.Query("search"),
		ViewMode:  c.Query("view_mode"),
	}
}

func periodLabel(rng *timesheet.Range) string {
	if rng == nil {
		return "All time"
	}
	const day = "2006-01-02"
	return rng.Start.Format(day) + " to " + rng.End.Format(day)
}
