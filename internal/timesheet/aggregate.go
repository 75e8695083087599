package timesheet

import (
	"math"
	"time"

	"projectpulse/internal/models"
)

// Aggregation view modes.
const (
	ViewByUser   = "by-user"
	ViewByTask   = "by-task"
	ViewDetailed = "detailed"
)

// UserTaskLine is one distinct task inside a by-user group; Hours is that
// user's cumulative total on the task.
type UserTaskLine struct {
	TaskID      int64             `json:"task_id"`
	TaskTitle   string            `json:"task_title"`
	ProjectName string            `json:"project_name"`
	Hours       float64           `json:"hours"`
	Status      models.TaskStatus `json:"status"`
}

// UserGroup is the by-user aggregation row. Users with zero qualifying
// entries never appear.
type UserGroup struct {
	User       models.UserRef `json:"user"`
	TotalHours float64        `json:"total_hours"`
	TasksCount int            `json:"tasks_count"`
	Tasks      []UserTaskLine `json:"tasks"`
	Projects   []string       `json:"projects"`
}

// GroupByUser folds the filtered pairs by logging user. Entries for the
// same task+user merge into a single task line by summing; TasksCount
// counts distinct tasks, not entries. Group order is first-seen.
//
// Totals accumulate in exact integer minutes (held in the float64 fields,
// which represent them exactly) and convert to decimal hours in one final
// division, so grouping order cannot perturb the grand total and every
// view reconciles to the same sum.
func GroupByUser(pairs []Pair) []UserGroup {
	var out []UserGroup
	index := make(map[int64]int)

	for _, p := range pairs {
		gi, ok := index[p.Log.User.ID]
		if !ok {
			gi = len(out)
			index[p.Log.User.ID] = gi
			out = append(out, UserGroup{User: *p.Log.User})
		}
		g := &out[gi]
		mins := float64(p.Log.EffectiveMinutes())
		g.TotalHours += mins

		merged := false
		for ti := range g.Tasks {
			if g.Tasks[ti].TaskID == p.Task.ID {
				g.Tasks[ti].Hours += mins
				merged = true
				break
			}
		}
		if !merged {
			g.Tasks = append(g.Tasks, UserTaskLine{
				TaskID:      p.Task.ID,
				TaskTitle:   p.Task.Title,
				ProjectName: p.Task.ProjectName,
				Hours:       mins,
				Status:      p.Task.Status,
			})
			g.TasksCount++
		}
		if !containsString(g.Projects, p.Task.ProjectName) {
			g.Projects = append(g.Projects, p.Task.ProjectName)
		}
	}
	for gi := range out {
		out[gi].TotalHours /= 60
		for ti := range out[gi].Tasks {
			out[gi].Tasks[ti].Hours /= 60
		}
	}
	return out
}

// Contributor identifies a user who logged against a task.
type Contributor struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
}

// UserShare is one user's slice of a by-task group. LastLog is the most
// recent logged-at instant among that user's qualifying entries (max, not
// last-in-list).
type UserShare struct {
	UserID   int64     `json:"user_id"`
	UserName string    `json:"user_name"`
	Hours    float64   `json:"hours"`
	LastLog  time.Time `json:"last_log"`
}

// TaskGroup is the by-task aggregation row. Tasks with zero qualifying
// entries are omitted.
type TaskGroup struct {
	TaskID        int64             `json:"task_id"`
	TaskTitle     string            `json:"task_title"`
	ProjectName   string            `json:"project_name"`
	Status        models.TaskStatus `json:"status"`
	TotalHours    float64           `json:"total_hours"`
	Contributors  []Contributor     `json:"contributors"`
	UserBreakdown []UserShare       `json:"user_breakdown"`
}

// GroupByTask folds the filtered pairs by task, all users combined.
// Contributors and the breakdown keep first-seen user order. Same
// minute-exact accumulation as GroupByUser.
func GroupByTask(pairs []Pair) []TaskGroup {
	var out []TaskGroup
	index := make(map[int64]int)

	for _, p := range pairs {
		gi, ok := index[p.Task.ID]
		if !ok {
			gi = len(out)
			index[p.Task.ID] = gi
			out = append(out, TaskGroup{
				TaskID:      p.Task.ID,
				TaskTitle:   p.Task.Title,
				ProjectName: p.Task.ProjectName,
				Status:      p.Task.Status,
			})
		}
		g := &out[gi]
		mins := float64(p.Log.EffectiveMinutes())
		g.TotalHours += mins

		found := false
		for si := range g.UserBreakdown {
			if g.UserBreakdown[si].UserID == p.Log.User.ID {
				g.UserBreakdown[si].Hours += mins
				if p.Log.LoggedAt.After(g.UserBreakdown[si].LastLog) {
					g.UserBreakdown[si].LastLog = p.Log.LoggedAt
				}
				found = true
				break
			}
		}
		if !found {
			g.Contributors = append(g.Contributors, Contributor{
				UserID:   p.Log.User.ID,
				UserName: p.Log.User.Name,
			})
			g.UserBreakdown = append(g.UserBreakdown, UserShare{
				UserID:   p.Log.User.ID,
				UserName: p.Log.User.Name,
				Hours:    mins,
				LastLog:  p.Log.LoggedAt,
			})
		}
	}
	for gi := range out {
		out[gi].TotalHours /= 60
		for si := range out[gi].UserBreakdown {
			out[gi].UserBreakdown[si].Hours /= 60
		}
	}
	return out
}

// DetailRow is one flat row of the detailed view, one per qualifying
// (task, entry) pair, filter order preserved.
type DetailRow struct {
	UserID      int64             `json:"user_id"`
	UserName    string            `json:"user_name"`
	UserEmail   string            `json:"user_email"`
	TaskID      int64             `json:"task_id"`
	TaskTitle   string            `json:"task_title"`
	ProjectName string            `json:"project_name"`
	Hours       float64           `json:"hours"`
	LoggedAt    time.Time         `json:"logged_at"`
	Status      models.TaskStatus `json:"status"`
}

// Detailed emits the ungrouped view.
func Detailed(pairs []Pair) []DetailRow {
	out := make([]DetailRow, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, DetailRow{
			UserID:      p.Log.User.ID,
			UserName:    p.Log.User.Name,
			UserEmail:   p.Log.User.Email,
			TaskID:      p.Task.ID,
			TaskTitle:   p.Task.Title,
			ProjectName: p.Task.ProjectName,
			Hours:       p.Log.EffectiveHours(),
			LoggedAt:    p.Log.LoggedAt,
			Status:      p.Task.Status,
		})
	}
	return out
}

// Round2 rounds to 2 decimal places. Applied only at output boundaries,
// never mid-accumulation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
