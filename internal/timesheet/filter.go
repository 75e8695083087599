package timesheet

import (
	"strings"

	"projectpulse/internal/models"
)

// Query carries the optional report constraints. Nil/empty fields mean
// "no constraint on this axis".
type Query struct {
	UserID    *int64
	ProjectID *int64
	Search    string
}

// Pair is one qualifying (task, time-log entry) combination, the unit
// every aggregation mode consumes.
type Pair struct {
	Task *models.Task
	Log  *models.TimeLogEntry
}

// Filter selects the (task, entry) pairs that qualify for aggregation.
// Task level: archived tasks are out unconditionally, then project and
// free-text constraints apply. Entry level: the logger must match the
// userID constraint, the logged-at instant must fall inside rng (both ends
// inclusive), and entries whose user reference no longer resolves are
// skipped silently: they are never counted and never raise an error.
//
// Filtering is pure: same inputs, same pairs, in the same order
// (task order × per-task entry order).
func Filter(tasks []models.Task, q Query, rng *Range) []Pair {
	var pairs []Pair
	search := strings.ToLower(strings.TrimSpace(q.Search))

	for i := range tasks {
		task := &tasks[i]
		if task.IsArchived {
			continue
		}
		if q.ProjectID != nil && task.ProjectID != *q.ProjectID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(task.Title), search) &&
			!strings.Contains(strings.ToLower(task.Description), search) {
			continue
		}
		for j := range task.TimeLogs {
			log := &task.TimeLogs[j]
			if log.User == nil {
				continue
			}
			if q.UserID != nil && log.User.ID != *q.UserID {
				continue
			}
			if !rng.Contains(log.LoggedAt) {
				continue
			}
			pairs = append(pairs, Pair{Task: task, Log: log})
		}
	}
	return pairs
}
