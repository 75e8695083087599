package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"projectpulse/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error
	UpdateAssignee(ctx context.Context, id int64, assigneeID *int64) error
	SetArchived(ctx context.Context, id int64, archived bool) error

	// AppendTimeLog inserts the entry and bumps actual_hours in one
	// transaction so concurrent appends to the same task never drift.
	AppendTimeLog(ctx context.Context, taskID int64, userID int64, hours, minutes int) error

	// FindForReport loads non-archived tasks (optionally one project's)
	// together with their time logs, log order = insertion order.
	FindForReport(ctx context.Context, projectID *int64) ([]models.Task, error)
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `t.id, t.project_id, p.name, t.reporter_id, t.assignee_id,
       t.title, t.description, t.status, t.priority, t.due_date,
       t.estimated_hours, t.actual_hours, t.is_archived, t.created_at, t.updated_at`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	t := &models.Task{}
	var assignee sql.NullInt64
	var due sql.NullTime
	err := row.Scan(
		&t.ID, &t.ProjectID, &t.ProjectName, &t.ReporterID, &assignee,
		&t.Title, &t.Description, &t.Status, &t.Priority, &due,
		&t.EstimatedHours, &t.ActualHours, &t.IsArchived, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if assignee.Valid {
		t.AssigneeID = &assignee.Int64
	}
	if due.Valid {
		t.DueDate = &due.Time
	}
	return t, nil
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (
			project_id, reporter_id, assignee_id, title, description,
			status, priority, due_date, estimated_hours, actual_hours,
			is_archived, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,0,false,NOW(),NOW())
		RETURNING id, created_at, updated_at`
	var assignee sql.NullInt64
	if task.AssigneeID != nil {
		assignee = sql.NullInt64{Int64: *task.AssigneeID, Valid: true}
	}
	return r.db.QueryRowContext(ctx, query,
		task.ProjectID, task.ReporterID, assignee, task.Title, task.Description,
		task.Status, task.Priority, task.DueDate, task.EstimatedHours,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks t JOIN projects p ON p.id = t.project_id
		WHERE t.id = $1`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	logs, err := r.loadTimeLogs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	task.TimeLogs = logs[id]
	return task, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	baseQuery := `SELECT ` + taskColumns + `
		FROM tasks t JOIN projects p ON p.id = t.project_id`

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if !filter.IncludeArchived {
		conditions = append(conditions, "NOT t.is_archived")
	}
	if filter.ProjectID != nil {
		conditions = append(conditions, fmt.Sprintf("t.project_id = $%d", argID))
		args = append(args, *filter.ProjectID)
		argID++
	}
	if filter.AssigneeID != nil {
		conditions = append(conditions, fmt.Sprintf("t.assignee_id = $%d", argID))
		args = append(args, *filter.AssigneeID)
		argID++
	}
	if filter.ReporterID != nil {
		conditions = append(conditions, fmt.Sprintf("t.reporter_id = $%d", argID))
		args = append(args, *filter.ReporterID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY t.created_at DESC"

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET
			assignee_id=$1, title=$2, description=$3, status=$4,
			priority=$5, due_date=$6, estimated_hours=$7, updated_at=NOW()
		WHERE id=$8`
	var assignee sql.NullInt64
	if task.AssigneeID != nil {
		assignee = sql.NullInt64{Int64: *task.AssigneeID, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, query,
		assignee, task.Title, task.Description, task.Status,
		task.Priority, task.DueDate, task.EstimatedHours, task.ID,
	)
	return err
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2`, to, id)
	return err
}

func (r *taskRepository) UpdateAssignee(ctx context.Context, id int64, assigneeID *int64) error {
	var assignee sql.NullInt64
	if assigneeID != nil {
		assignee = sql.NullInt64{Int64: *assigneeID, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET assignee_id=$1, updated_at=NOW() WHERE id=$2`, assignee, id)
	return err
}

func (r *taskRepository) SetArchived(ctx context.Context, id int64, archived bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET is_archived=$1, updated_at=NOW() WHERE id=$2`, archived, id)
	return err
}

func (r *taskRepository) AppendTimeLog(ctx context.Context, taskID int64, userID int64, hours, minutes int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO time_logs (task_id, user_id, hours, minutes, logged_at) VALUES ($1,$2,$3,$4,NOW())`,
		taskID, userID, hours, minutes,
	); err != nil {
		return err
	}
	// the cached aggregate moves with the append, never independently
	effective := float64(hours*60+minutes) / 60
	if _, err := tx.ExecContext(ctx,
		`UPDATE tasks SET actual_hours = actual_hours + $1, updated_at=NOW() WHERE id=$2`,
		effective, taskID,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *taskRepository) FindForReport(ctx context.Context, projectID *int64) ([]models.Task, error) {
	filter := models.TaskFilter{ProjectID: projectID}
	tasks, err := r.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	ids := make([]int64, 0, len(tasks))
	for i := range tasks {
		ids = append(ids, tasks[i].ID)
	}
	logs, err := r.loadTimeLogs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].TimeLogs = logs[tasks[i].ID]
	}
	return tasks, nil
}

// loadTimeLogs fetches the embedded logs for a set of tasks in one query.
// The user join is LEFT: a log whose user row is gone comes back with a
// nil User and is skipped by the report filter.
func (r *taskRepository) loadTimeLogs(ctx context.Context, taskIDs []int64) (map[int64][]models.TimeLogEntry, error) {
	query := `
		SELECT tl.id, tl.task_id, tl.hours, tl.minutes, tl.logged_at,
		       u.id, u.name, u.email, u.avatar
		FROM time_logs tl
		LEFT JOIN users u ON u.id = tl.user_id
		WHERE tl.task_id = ANY($1)
		ORDER BY tl.task_id, tl.id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(taskIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]models.TimeLogEntry)
	for rows.Next() {
		var e models.TimeLogEntry
		var uID sql.NullInt64
		var uName, uEmail, uAvatar sql.NullString
		if err := rows.Scan(
			&e.ID, &e.TaskID, &e.Hours, &e.Minutes, &e.LoggedAt,
			&uID, &uName, &uEmail, &uAvatar,
		); err != nil {
			return nil, err
		}
		if uID.Valid {
			e.User = &models.UserRef{
				ID:     uID.Int64,
				Name:   uName.String,
				Email:  uEmail.String,
				Avatar: uAvatar.String,
			}
		}
		out[e.TaskID] = append(out[e.TaskID], e)
	}
	return out, rows.Err()
}
