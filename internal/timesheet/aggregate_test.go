package timesheet

import (
	"testing"

	"projectpulse/internal/models"
)

// End-to-end over the canonical dataset: Task A (Alpha) with Alice logging
// 2:00 and 1:30, Task B (Beta) with Bob logging 0:45, no filters.
func TestGroupByUserEndToEnd(t *testing.T) {
	groups := GroupByUser(Filter(fixtureTasks(), Query{}, nil))
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}

	alice := groups[0]
	if alice.User.ID != 1 {
		t.Fatalf("groups[0] is user %d, want first-seen user 1", alice.User.ID)
	}
	if alice.TotalHours != 3.5 {
		t.Errorf("alice.TotalHours = %v, want 3.5", alice.TotalHours)
	}
	if alice.TasksCount != 1 {
		t.Errorf("alice.TasksCount = %d, want 1 (distinct tasks, not entries)", alice.TasksCount)
	}
	if len(alice.Tasks) != 1 || alice.Tasks[0].Hours != 3.5 {
		t.Errorf("alice.Tasks = %+v, want single merged line with 3.5h", alice.Tasks)
	}
	if len(alice.Projects) != 1 || alice.Projects[0] != "Alpha" {
		t.Errorf("alice.Projects = %v, want [Alpha]", alice.Projects)
	}

	bob := groups[1]
	if bob.TotalHours != 0.75 {
		t.Errorf("bob.TotalHours = %v, want 0.75 (45 minutes)", bob.TotalHours)
	}
	if bob.TasksCount != 1 {
		t.Errorf("bob.TasksCount = %d, want 1", bob.TasksCount)
	}
}

// A user logging several entries against one task yields one task line with
// the summed hours, and a tasksCount of 1.
func TestGroupByUserMergesSameTask(t *testing.T) {
	tasks := fixtureTasks()
	tasks[0].TimeLogs = append(tasks[0].TimeLogs, models.TimeLogEntry{
		ID: 5, TaskID: 10, User: &u1, Hours: 0, Minutes: 30, LoggedAt: logAt(8),
	})
	groups := GroupByUser(Filter(tasks, Query{}, nil))
	alice := groups[0]
	if alice.TasksCount != 1 {
		t.Errorf("TasksCount = %d, want 1 after three entries on one task", alice.TasksCount)
	}
	if alice.Tasks[0].Hours != 4.0 {
		t.Errorf("Tasks[0].Hours = %v, want 4.0 (2 + 1.5 + 0.5)", alice.Tasks[0].Hours)
	}
}

func TestGroupByTask(t *testing.T) {
	tasks := fixtureTasks()
	// Bob also helps on task A, later than Alice's entries.
	tasks[0].TimeLogs = append(tasks[0].TimeLogs, models.TimeLogEntry{
		ID: 6, TaskID: 10, User: &u2, Hours: 1, Minutes: 0, LoggedAt: logAt(9),
	})
	groups := GroupByTask(Filter(tasks, Query{}, nil))
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}

	a := groups[0]
	if a.TaskID != 10 {
		t.Fatalf("groups[0].TaskID = %d, want 10", a.TaskID)
	}
	if a.TotalHours != 4.5 {
		t.Errorf("TotalHours = %v, want 4.5 (all users combined)", a.TotalHours)
	}
	if len(a.Contributors) != 2 {
		t.Fatalf("len(Contributors) = %d, want 2", len(a.Contributors))
	}
	if a.Contributors[0].UserID != 1 || a.Contributors[1].UserID != 2 {
		t.Errorf("contributor order = %+v, want first-seen [1 2]", a.Contributors)
	}
	if len(a.UserBreakdown) != 2 {
		t.Fatalf("len(UserBreakdown) = %d, want 2", len(a.UserBreakdown))
	}
	if a.UserBreakdown[0].Hours != 3.5 {
		t.Errorf("alice share = %v, want 3.5", a.UserBreakdown[0].Hours)
	}
	if !a.UserBreakdown[0].LastLog.Equal(logAt(5)) {
		t.Errorf("alice LastLog = %v, want %v (max logged-at, not last-in-list)", a.UserBreakdown[0].LastLog, logAt(5))
	}
}

// LastLog must be the max logged-at even when entries arrive out of
// chronological order: the log list is insertion-ordered, never resorted.
func TestGroupByTaskLastLogIsMax(t *testing.T) {
	tasks := fixtureTasks()
	tasks[0].TimeLogs = append(tasks[0].TimeLogs, models.TimeLogEntry{
		ID: 7, TaskID: 10, User: &u1, Hours: 1, Minutes: 0, LoggedAt: logAt(2),
	})
	groups := GroupByTask(Filter(tasks, Query{}, nil))
	if !groups[0].UserBreakdown[0].LastLog.Equal(logAt(5)) {
		t.Errorf("LastLog = %v, want %v", groups[0].UserBreakdown[0].LastLog, logAt(5))
	}
}

func TestDetailedPreservesFilterOrder(t *testing.T) {
	rows := Detailed(Filter(fixtureTasks(), Query{}, nil))
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if rows[0].Hours != 2.0 || rows[1].Hours != 1.5 || rows[2].Hours != 0.75 {
		t.Errorf("row hours = [%v %v %v], want [2 1.5 0.75]", rows[0].Hours, rows[1].Hours, rows[2].Hours)
	}
	if rows[2].UserEmail != "bob@example.com" {
		t.Errorf("rows[2].UserEmail = %q", rows[2].UserEmail)
	}
}

// Minutes normalize via minutes/60: 1h30m contributes exactly 1.5 everywhere.
func TestMinutesNormalization(t *testing.T) {
	e := models.TimeLogEntry{Hours: 1, Minutes: 30}
	if got := e.EffectiveHours(); got != 1.5 {
		t.Errorf("EffectiveHours() = %v, want 1.5", got)
	}
}

// The sum invariant: detailed rows, by-user totals, by-task totals and the
// summary all reconcile to the same grand total. Third-hour entries (20 and
// 50 minutes) are the hard case: their decimal-hour forms are not float
// exact, so any mode that re-added them in a different grouping order would
// drift off the others.
func TestSumInvariantAcrossModes(t *testing.T) {
	tasks := fixtureTasks()
	tasks[0].TimeLogs = append(tasks[0].TimeLogs,
		models.TimeLogEntry{ID: 8, TaskID: 10, User: &u2, Hours: 0, Minutes: 20, LoggedAt: logAt(7)},
		models.TimeLogEntry{ID: 9, TaskID: 10, User: &u1, Hours: 3, Minutes: 10, LoggedAt: logAt(8)},
		models.TimeLogEntry{ID: 13, TaskID: 10, User: &u2, Hours: 0, Minutes: 50, LoggedAt: logAt(9)},
	)
	tasks[1].TimeLogs = append(tasks[1].TimeLogs,
		models.TimeLogEntry{ID: 14, TaskID: 11, User: &u1, Hours: 0, Minutes: 20, LoggedAt: logAt(9)},
	)
	pairs := Filter(tasks, Query{}, nil)

	var detailed, byUser, byTask float64
	for _, r := range Detailed(pairs) {
		detailed += r.Hours
	}
	for _, g := range GroupByUser(pairs) {
		byUser += g.TotalHours
	}
	for _, g := range GroupByTask(pairs) {
		byTask += g.TotalHours
	}
	s := Summarize(pairs)

	if detailed != byUser || byUser != byTask || byTask != s.TotalHours {
		t.Errorf("totals diverge: detailed=%v by-user=%v by-task=%v summary=%v",
			detailed, byUser, byTask, s.TotalHours)
	}
}

func TestSummarizeEndToEnd(t *testing.T) {
	s := Summarize(Filter(fixtureTasks(), Query{}, nil))
	if s.TotalHours != 4.25 {
		t.Errorf("TotalHours = %v, want 4.25", s.TotalHours)
	}
	if s.TotalTasks != 2 {
		t.Errorf("TotalTasks = %d, want 2", s.TotalTasks)
	}
	if s.ActiveUsers != 2 {
		t.Errorf("ActiveUsers = %d, want 2", s.ActiveUsers)
	}
	if s.AvgHoursPerTask != 2.125 {
		t.Errorf("AvgHoursPerTask = %v, want 2.125", s.AvgHoursPerTask)
	}
}

// Zero matches is success with zeros and empty lists, never NaN/Inf and
// never an error.
func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalHours != 0 || s.TotalTasks != 0 || s.ActiveUsers != 0 {
		t.Errorf("empty summary = %+v, want all zeros", s)
	}
	if s.AvgHoursPerTask != 0 {
		t.Errorf("AvgHoursPerTask = %v, want exactly 0 when no tasks qualify", s.AvgHoursPerTask)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{2.125, 2.13},
		{0.333333, 0.33},
		{4.25, 4.25},
		{0, 0},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTotalsByUserRoundedAtOutput(t *testing.T) {
	tasks := fixtureTasks()
	// 3 × 20 minutes accumulates as thirds; only the final value is rounded.
	tasks[1].TimeLogs = append(tasks[1].TimeLogs,
		models.TimeLogEntry{ID: 10, TaskID: 11, User: &u2, Minutes: 20, LoggedAt: logAt(7)},
		models.TimeLogEntry{ID: 11, TaskID: 11, User: &u2, Minutes: 20, LoggedAt: logAt(7)},
	)
	uid := int64(2)
	totals := TotalsByUser(Filter(tasks, Query{UserID: &uid}, nil))
	if len(totals) != 1 {
		t.Fatalf("len(totals) = %d, want 1", len(totals))
	}
	// 0.75 + 1/3 + 1/3 = 1.41666… → 1.42 once, at the edge
	if totals[0].TotalHours != 1.42 {
		t.Errorf("TotalHours = %v, want 1.42", totals[0].TotalHours)
	}
}

func TestTotalsByUserProjectAndTask(t *testing.T) {
	tasks := fixtureTasks()
	tasks[1].TimeLogs = append(tasks[1].TimeLogs, models.TimeLogEntry{
		ID: 12, TaskID: 11, User: &u1, Hours: 1, LoggedAt: logAt(7),
	})
	pairs := Filter(tasks, Query{}, nil)

	byProject := TotalsByUserProject(pairs)
	if len(byProject) != 3 {
		t.Fatalf("len(byProject) = %d, want 3 (alice×Alpha, bob×Beta, alice×Beta)", len(byProject))
	}
	byTask := TotalsByUserTask(pairs)
	if len(byTask) != 3 {
		t.Fatalf("len(byTask) = %d, want 3", len(byTask))
	}
	var sum float64
	for _, r := range byTask {
		sum += r.TotalHours
	}
	if sum != 5.25 {
		t.Errorf("by-task total = %v, want 5.25", sum)
	}
}
