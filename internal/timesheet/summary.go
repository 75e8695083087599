package timesheet

// Summary holds the scalar statistics derived from a filtered set. The
// values are mode-independent: any aggregation view computed from the same
// pairs reconciles with them.
type Summary struct {
	TotalHours      float64 `json:"total_hours"`
	TotalTasks      int     `json:"total_tasks"`
	ActiveUsers     int     `json:"active_users"`
	AvgHoursPerTask float64 `json:"avg_hours_per_task"`
}

// Summarize computes the overall totals over the filtered pairs.
// AvgHoursPerTask is defined as 0 when no task qualifies. TotalHours is
// summed in exact integer minutes and divided once, matching the grouped
// views' accumulation.
func Summarize(pairs []Pair) Summary {
	var s Summary
	var mins int
	tasks := make(map[int64]struct{})
	users := make(map[int64]struct{})
	for _, p := range pairs {
		mins += p.Log.EffectiveMinutes()
		tasks[p.Task.ID] = struct{}{}
		users[p.Log.User.ID] = struct{}{}
	}
	s.TotalHours = float64(mins) / 60
	s.TotalTasks = len(tasks)
	s.ActiveUsers = len(users)
	if s.TotalTasks > 0 {
		s.AvgHoursPerTask = s.TotalHours / float64(s.TotalTasks)
	}
	return s
}
