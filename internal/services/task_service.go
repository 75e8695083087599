package services

import (
	"context"

	"projectpulse/internal/authz"
	"projectpulse/internal/models"
	"projectpulse/internal/repositories"
)

// TaskService defines the interface for task-related business logic,
// including the time-log append boundary.
type TaskService interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, id int64, updateData *models.Task) (*models.Task, error)
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) (*models.Task, error)
	UpdateAssignee(ctx context.Context, id int64, assigneeID *int64) (*models.Task, error)
	SetArchived(ctx context.Context, id int64, archived bool) (*models.Task, error)

	// LogTime validates, checks the actor's relationship to the task and
	// appends one entry; actual_hours moves in the same transaction.
	LogTime(ctx context.Context, taskID, actorID int64, actorRole int, hours, minutes int) (*models.Task, error)
}

type taskService struct {
	repo     repositories.TaskRepository
	projects repositories.ProjectRepository
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo repositories.TaskRepository, projects repositories.ProjectRepository) TaskService {
	return &taskService{repo: repo, projects: projects}
}

func (s *taskService) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityNormal
	}
	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *taskService) Update(ctx context.Context, id int64, updateData *models.Task) (*models.Task, error) {
	existingTask, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existingTask == nil {
		return nil, nil
	}

	existingTask.AssigneeID = updateData.AssigneeID
	existingTask.Title = updateData.Title
	existingTask.Description = updateData.Description
	existingTask.Status = updateData.Status
	existingTask.Priority = updateData.Priority
	existingTask.DueDate = updateData.DueDate
	existingTask.EstimatedHours = updateData.EstimatedHours

	if err := s.repo.Update(ctx, existingTask); err != nil {
		return nil, err
	}
	return existingTask, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) (*models.Task, error) {
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) UpdateAssignee(ctx context.Context, id int64, assigneeID *int64) (*models.Task, error) {
	if err := s.repo.UpdateAssignee(ctx, id, assigneeID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) SetArchived(ctx context.Context, id int64, archived bool) (*models.Task, error) {
	if err := s.repo.SetArchived(ctx, id, archived); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) LogTime(ctx context.Context, taskID, actorID int64, actorRole int, hours, minutes int) (*models.Task, error) {
	if verr := validateTimeLog(hours, minutes); verr != nil {
		return nil, verr
	}

	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.IsArchived {
		return nil, ErrNotFound
	}

	ok, err := s.canLogTime(ctx, task, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccessDenied
	}

	if err := s.repo.AppendTimeLog(ctx, taskID, actorID, hours, minutes); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, taskID)
}

// validateTimeLog rejects before any mutation: negative hours, minutes
// outside [0,59], and the all-zero submission.
func validateTimeLog(hours, minutes int) *ValidationError {
	var fields []FieldError
	if hours < 0 {
		fields = append(fields, FieldError{Field: "hours", Message: "must be a non-negative integer"})
	}
	if minutes < 0 || minutes > 59 {
		fields = append(fields, FieldError{Field: "minutes", Message: "must be between 0 and 59"})
	}
	if len(fields) == 0 && hours == 0 && minutes == 0 {
		fields = append(fields, FieldError{Field: "hours", Message: "logged time must be greater than zero"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// canLogTime: assignee, reporter, the owning project's manager, a member
// of the project team, or an admin.
func (s *taskService) canLogTime(ctx context.Context, task *models.Task, actorID int64, actorRole int) (bool, error) {
	if authz.IsAdmin(actorRole) {
		return true, nil
	}
	if task.ReporterID == actorID {
		return true, nil
	}
	if task.AssigneeID != nil && *task.AssigneeID == actorID {
		return true, nil
	}
	project, err := s.projects.FindByID(ctx, task.ProjectID)
	if err != nil {
		return false, err
	}
	if project == nil {
		return false, nil
	}
	if project.ManagerID == actorID {
		return true, nil
	}
	return s.projects.IsMember(ctx, task.ProjectID, actorID)
}
