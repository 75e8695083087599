package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusTesting    TaskStatus = "testing"
	StatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityNormal TaskPriority = "normal"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// Task represents the structure of a task in the system. ProjectName is
// denormalized from the projects table on read so report rows do not need
// a second lookup.
type Task struct {
	ID             int64        `json:"id"`
	ProjectID      int64        `json:"project_id"`
	ProjectName    string       `json:"project_name,omitempty"`
	ReporterID     int64        `json:"reporter_id"`
	AssigneeID     *int64       `json:"assignee_id,omitempty"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	DueDate        *time.Time   `json:"due_date,omitempty"`
	EstimatedHours float64      `json:"estimated_hours"`

	// ActualHours is the cached sum of effective hours over TimeLogs,
	// incremented together with every append. Never recomputed on read.
	ActualHours float64 `json:"actual_hours"`

	TimeLogs   []TimeLogEntry `json:"time_logs,omitempty"`
	IsArchived bool           `json:"is_archived"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TimeLogEntry is one atomic record of hours+minutes a user reports against
// a task. Entries are append-only: no edit, no delete, insertion order kept.
// User is nil when the logging user no longer resolves; such entries are
// skipped by every report.
type TimeLogEntry struct {
	ID       int64     `json:"id"`
	TaskID   int64     `json:"task_id"`
	User     *UserRef  `json:"user"`
	Hours    int       `json:"hours"`
	Minutes  int       `json:"minutes"`
	LoggedAt time.Time `json:"logged_at"`
}

// EffectiveMinutes is the entry duration in whole minutes. Aggregation
// sums these exact integers and divides into decimal hours only at the
// output boundary.
func (e *TimeLogEntry) EffectiveMinutes() int {
	return e.Hours*60 + e.Minutes
}

// EffectiveHours converts the entry to decimal hours (minutes/60 added).
func (e *TimeLogEntry) EffectiveHours() float64 {
	return float64(e.EffectiveMinutes()) / 60
}

// TaskFilter defines the available parameters for filtering tasks.
type TaskFilter struct {
	ProjectID       *int64
	AssigneeID      *int64
	ReporterID      *int64
	Status          *TaskStatus
	IncludeArchived bool
}
