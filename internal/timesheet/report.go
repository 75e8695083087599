package timesheet

import "projectpulse/internal/models"

// Shapes of the admin time-report. Unlike the timesheet views these carry
// totals already rounded to 2 decimals. Accumulation runs in exact integer
// minutes; the division into hours and the rounding both happen here, at
// the output boundary, after all accumulation is done.

type UserTotal struct {
	User       models.UserRef `json:"user"`
	TotalHours float64        `json:"total_hours"`
}

type UserProjectTotal struct {
	User        models.UserRef `json:"user"`
	ProjectID   int64          `json:"project_id"`
	ProjectName string         `json:"project_name"`
	TotalHours  float64        `json:"total_hours"`
}

type UserTaskTotal struct {
	User       models.UserRef `json:"user"`
	TaskID     int64          `json:"task_id"`
	TaskTitle  string         `json:"task_title"`
	TotalHours float64        `json:"total_hours"`
}

// TotalsByUser sums effective hours per logging user, first-seen order.
func TotalsByUser(pairs []Pair) []UserTotal {
	var out []UserTotal
	index := make(map[int64]int)
	for _, p := range pairs {
		i, ok := index[p.Log.User.ID]
		if !ok {
			i = len(out)
			index[p.Log.User.ID] = i
			out = append(out, UserTotal{User: *p.Log.User})
		}
		out[i].TotalHours += float64(p.Log.EffectiveMinutes())
	}
	for i := range out {
		out[i].TotalHours = Round2(out[i].TotalHours / 60)
	}
	return out
}

// TotalsByUserProject sums effective hours per (user, project).
func TotalsByUserProject(pairs []Pair) []UserProjectTotal {
	var out []UserProjectTotal
	type key struct{ user, project int64 }
	index := make(map[key]int)
	for _, p := range pairs {
		k := key{p.Log.User.ID, p.Task.ProjectID}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, UserProjectTotal{
				User:        *p.Log.User,
				ProjectID:   p.Task.ProjectID,
				ProjectName: p.Task.ProjectName,
			})
		}
		out[i].TotalHours += float64(p.Log.EffectiveMinutes())
	}
	for i := range out {
		out[i].TotalHours = Round2(out[i].TotalHours / 60)
	}
	return out
}

// TotalsByUserTask sums effective hours per (user, task).
func TotalsByUserTask(pairs []Pair) []UserTaskTotal {
	var out []UserTaskTotal
	type key struct{ user, task int64 }
	index := make(map[key]int)
	for _, p := range pairs {
		k := key{p.Log.User.ID, p.Task.ID}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, UserTaskTotal{
				User:      *p.Log.User,
				TaskID:    p.Task.ID,
				TaskTitle: p.Task.Title,
			})
		}
		out[i].TotalHours += float64(p.Log.EffectiveMinutes())
	}
	for i := range out {
		out[i].TotalHours = Round2(out[i].TotalHours / 60)
	}
	return out
}
