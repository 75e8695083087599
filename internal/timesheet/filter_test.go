package timesheet

import (
	"reflect"
	"testing"
	"time"

	"projectpulse/internal/models"
)

var (
	u1 = models.UserRef{ID: 1, Name: "Alice", Email: "alice@example.com"}
	u2 = models.UserRef{ID: 2, Name: "Bob", Email: "bob@example.com"}
)

func logAt(day int) time.Time {
	return time.Date(2024, time.March, day, 12, 0, 0, 0, time.UTC)
}

// fixtureTasks builds the two-task dataset used across the filter and
// aggregation tests: Task A (project Alpha) with two entries by Alice,
// Task B (project Beta) with one entry by Bob.
func fixtureTasks() []models.Task {
	return []models.Task{
		{
			ID: 10, ProjectID: 100, ProjectName: "Alpha",
			Title: "Build login page", Status: models.StatusInProgress,
			TimeLogs: []models.TimeLogEntry{
				{ID: 1, TaskID: 10, User: &u1, Hours: 2, Minutes: 0, LoggedAt: logAt(4)},
				{ID: 2, TaskID: 10, User: &u1, Hours: 1, Minutes: 30, LoggedAt: logAt(5)},
			},
		},
		{
			ID: 11, ProjectID: 101, ProjectName: "Beta",
			Title: "Fix report export", Status: models.StatusReview,
			TimeLogs: []models.TimeLogEntry{
				{ID: 3, TaskID: 11, User: &u2, Hours: 0, Minutes: 45, LoggedAt: logAt(6)},
			},
		},
	}
}

func TestFilterNoConstraintsKeepsEverything(t *testing.T) {
	pairs := Filter(fixtureTasks(), Query{}, nil)
	if len(pairs) != 3 {
		t.Fatalf("len(pairs) = %d, want 3", len(pairs))
	}
	// filter order = task order × per-task entry order
	wantLogs := []int64{1, 2, 3}
	for i, p := range pairs {
		if p.Log.ID != wantLogs[i] {
			t.Errorf("pairs[%d].Log.ID = %d, want %d", i, p.Log.ID, wantLogs[i])
		}
	}
}

func TestFilterByUser(t *testing.T) {
	uid := int64(2)
	pairs := Filter(fixtureTasks(), Query{UserID: &uid}, nil)
	if len(pairs) != 1 || pairs[0].Log.User.ID != 2 {
		t.Fatalf("expected Bob's single entry, got %d pairs", len(pairs))
	}
}

func TestFilterByProject(t *testing.T) {
	pid := int64(100)
	pairs := Filter(fixtureTasks(), Query{ProjectID: &pid}, nil)
	if len(pairs) != 2 {
		t.Fatalf("len(pairs) = %d, want 2", len(pairs))
	}
	for _, p := range pairs {
		if p.Task.ProjectID != 100 {
			t.Errorf("task %d belongs to project %d, want 100", p.Task.ID, p.Task.ProjectID)
		}
	}
}

func TestFilterSearchCaseInsensitive(t *testing.T) {
	cases := []struct {
		name   string
		search string
		want   int
	}{
		{"title match", "LOGIN", 2},
		{"other title", "report export", 1},
		{"no match", "deploy", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pairs := Filter(fixtureTasks(), Query{Search: tc.search}, nil)
			if len(pairs) != tc.want {
				t.Errorf("len(pairs) = %d, want %d", len(pairs), tc.want)
			}
		})
	}
}

func TestFilterDateRangeInclusive(t *testing.T) {
	rng := &Range{Start: logAt(5), End: logAt(6)}
	pairs := Filter(fixtureTasks(), Query{}, rng)
	if len(pairs) != 2 {
		t.Fatalf("len(pairs) = %d, want 2 (boundary entries included)", len(pairs))
	}
}

func TestFilterExcludesArchivedTasks(t *testing.T) {
	tasks := fixtureTasks()
	tasks[0].IsArchived = true
	pairs := Filter(tasks, Query{}, nil)
	for _, p := range pairs {
		if p.Task.ID == 10 {
			t.Fatal("archived task leaked into the filtered set")
		}
	}
	if len(pairs) != 1 {
		t.Errorf("len(pairs) = %d, want 1", len(pairs))
	}
}

// Entries whose user reference no longer resolves are skipped silently:
// not counted, no error. This is deliberate, not an accident of nil checks.
func TestFilterSkipsEntriesWithoutUser(t *testing.T) {
	tasks := fixtureTasks()
	tasks[1].TimeLogs = append(tasks[1].TimeLogs, models.TimeLogEntry{
		ID: 4, TaskID: 11, User: nil, Hours: 5, LoggedAt: logAt(7),
	})
	pairs := Filter(tasks, Query{}, nil)
	if len(pairs) != 3 {
		t.Fatalf("len(pairs) = %d, want 3 (orphaned entry skipped)", len(pairs))
	}
	s := Summarize(pairs)
	if s.TotalHours != 4.25 {
		t.Errorf("TotalHours = %v, want 4.25 (orphaned hours never counted)", s.TotalHours)
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	tasks := fixtureTasks()
	rng := &Range{Start: logAt(1), End: logAt(31)}
	q := Query{Search: "e"}
	first := Filter(tasks, q, rng)
	second := Filter(tasks, q, rng)
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over identical inputs produced different pairs")
	}
}

func TestFilterEmptyRangeSelectsNothing(t *testing.T) {
	rng := &Range{Start: logAt(20), End: logAt(10)}
	if pairs := Filter(fixtureTasks(), Query{}, rng); len(pairs) != 0 {
		t.Errorf("len(pairs) = %d, want 0 for start >= end", len(pairs))
	}
}
