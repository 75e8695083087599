package handlers

import (
	"errors"
	"html"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"projectpulse/internal/models"
	"projectpulse/internal/realtime"
	"projectpulse/internal/repositories"
	"projectpulse/internal/services"
)

type TaskHandler struct {
	service services.TaskService

	// side channels: live updates + assignee notifications
	hub   *realtime.EventHub
	tg    *services.TelegramNotifier
	users repositories.UserRepository
}

func NewTaskHandler(service services.TaskService, hub *realtime.EventHub, tg *services.TelegramNotifier, users repositories.UserRepository) *TaskHandler {
	return &TaskHandler{service: service, hub: hub, tg: tg, users: users}
}

// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[task][create] call by userID=%d role=%d", userID, roleID)

	var req struct {
		ProjectID      int64               `json:"project_id" binding:"required"`
		AssigneeID     *int64              `json:"assignee_id"`
		Title          string              `json:"title" binding:"required"`
		Description    string              `json:"description"`
		DueDate        string              `json:"due_date"` // RFC3339
		Priority       models.TaskPriority `json:"priority"` // low|normal|high|urgent
		EstimatedHours float64             `json:"estimated_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var due *time.Time
	if req.DueDate != "" {
		t, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			log.Printf("[task][create][err] invalid due_date=%q: %v", req.DueDate, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (RFC3339)"})
			return
		}
		due = &t
	}

	task := &models.Task{
		ProjectID:      req.ProjectID,
		ReporterID:     userID,
		AssigneeID:     req.AssigneeID,
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		DueDate:        due,
		EstimatedHours: req.EstimatedHours,
	}
	createdTask, err := h.service.Create(c.Request.Context(), task)
	if err != nil {
		log.Printf("[task][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}
	log.Printf("[task][create][ok] id=%d project=%d title=%q", createdTask.ID, createdTask.ProjectID, createdTask.Title)
	c.JSON(http.StatusCreated, createdTask)

	h.hub.Publish(realtime.Event{Type: realtime.EventTaskCreated, ProjectID: createdTask.ProjectID, Payload: createdTask})
	h.notifyAssignee(c, createdTask, "📌 New task")
}

// GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[task][list] call by userID=%d role=%d q=%v", userID, roleID, c.Request.URL.RawQuery)

	var filter models.TaskFilter
	filter.ProjectID = queryInt64(c, "project_id")
	filter.AssigneeID = queryInt64(c, "assignee_id")
	filter.ReporterID = queryInt64(c, "reporter_id")
	if v, ok := c.GetQuery("status"); ok {
		st := models.TaskStatus(v)
		filter.Status = &st
	}

	tasks, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		log.Printf("[task][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tasks"})
		return
	}
	log.Printf("[task][list][ok] count=%d", len(tasks))
	c.JSON(http.StatusOK, tasks)
}

// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	task, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[task][get][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[task][update] call by userID=%d role=%d id_param=%s", userID, roleID, c.Param("id"))

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	var req struct {
		AssigneeID     *int64               `json:"assignee_id"`
		Title          *string              `json:"title"`
		Description    *string              `json:"description"`
		DueDate        *string              `json:"due_date"` // RFC3339
		Priority       *models.TaskPriority `json:"priority"`
		Status         *models.TaskStatus   `json:"status"`
		EstimatedHours *float64             `json:"estimated_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := *current
	assigneeChanged := false

	if req.AssigneeID != nil {
		update.AssigneeID = req.AssigneeID
		assigneeChanged = current.AssigneeID == nil || *current.AssigneeID != *req.AssigneeID
	}
	if req.Title != nil {
		update.Title = *req.Title
	}
	if req.Description != nil {
		update.Description = *req.Description
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			update.DueDate = nil
		} else {
			t, err := time.Parse(time.RFC3339, *req.DueDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date"})
				return
			}
			update.DueDate = &t
		}
	}
	if req.Priority != nil {
		update.Priority = *req.Priority
	}
	if req.Status != nil {
		if !isAllowedTaskStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		update.Status = *req.Status
	}
	if req.EstimatedHours != nil {
		update.EstimatedHours = *req.EstimatedHours
	}

	updatedTask, err := h.service.Update(c.Request.Context(), id, &update)
	if err != nil {
		log.Printf("[task][update][err] save id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[task][update][ok] id=%d", id)
	c.JSON(http.StatusOK, updatedTask)

	h.hub.Publish(realtime.Event{Type: realtime.EventTaskUpdated, ProjectID: updatedTask.ProjectID, Payload: updatedTask})
	if assigneeChanged {
		h.notifyAssignee(c, updatedTask, "👤 You were assigned a task")
	}
}

// POST /tasks/:id/status { "to": "in_progress" }
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[task][status] call by userID=%d role=%d id_param=%s", userID, roleID, c.Param("id"))

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	var body struct {
		To models.TaskStatus `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !isAllowedTaskStatus(body.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, body.To)
	if err != nil {
		log.Printf("[task][status][err] save id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[task][status][ok] id=%d new=%q", id, body.To)
	c.JSON(http.StatusOK, updated)

	h.hub.Publish(realtime.Event{Type: realtime.EventTaskStatus, ProjectID: updated.ProjectID, Payload: updated})
	h.notifyAssignee(c, updated, "🔁 Status changed to "+string(body.To))
}

// POST /tasks/:id/assign { "assignee_id": 2 }
func (h *TaskHandler) Assign(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[task][assign] call by userID=%d role=%d id_param=%s", userID, roleID, c.Param("id"))

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	var body struct {
		AssigneeID *int64 `json:"assignee_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateAssignee(c.Request.Context(), id, body.AssigneeID)
	if err != nil {
		log.Printf("[task][assign][err] save id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[task][assign][ok] id=%d", id)
	c.JSON(http.StatusOK, updated)

	h.hub.Publish(realtime.Event{Type: realtime.EventTaskUpdated, ProjectID: updated.ProjectID, Payload: updated})
	h.notifyAssignee(c, updated, "👤 You were assigned a task")
}

// POST /tasks/:id/archive (soft delete; archived tasks vanish from reports)
func (h *TaskHandler) Archive(c *gin.Context) {
	h.setArchived(c, true)
}

// POST /tasks/:id/unarchive
func (h *TaskHandler) Unarchive(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *TaskHandler) setArchived(c *gin.Context, archived bool) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[task][archive] call by userID=%d role=%d id_param=%s archived=%v", userID, roleID, c.Param("id"), archived)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	updated, err := h.service.SetArchived(c.Request.Context(), id, archived)
	if err != nil {
		log.Printf("[task][archive][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[task][archive][ok] id=%d archived=%v", id, archived)
	c.JSON(http.StatusOK, updated)

	h.hub.Publish(realtime.Event{Type: realtime.EventTaskArchived, ProjectID: updated.ProjectID, Payload: updated})
}

// POST /tasks/:id/timelogs { "hours": 1, "minutes": 30 }
func (h *TaskHandler) LogTime(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[task][timelog] call by userID=%d role=%d id_param=%s", userID, roleID, c.Param("id"))

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var body struct {
		Hours   int `json:"hours"`
		Minutes int `json:"minutes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.LogTime(c.Request.Context(), id, userID, roleID, body.Hours, body.Minutes)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			log.Printf("[task][timelog][reject] id=%d: %v", id, err)
			c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		case errors.Is(err, services.ErrAccessDenied):
			log.Printf("[task][timelog][deny] id=%d user=%d", id, userID)
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		default:
			log.Printf("[task][timelog][err] id=%d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log time"})
		}
		return
	}

	log.Printf("[task][timelog][ok] id=%d user=%d hours=%d minutes=%d actual=%.2f",
		id, userID, body.Hours, body.Minutes, task.ActualHours)
	c.JSON(http.StatusOK, task)

	h.hub.Publish(realtime.Event{Type: realtime.EventTimeLogAdded, ProjectID: task.ProjectID, Payload: gin.H{
		"task_id":      task.ID,
		"actual_hours": task.ActualHours,
		"user_id":      userID,
	}})
}

// ---- helpers ----
func isAllowedTaskStatus(s models.TaskStatus) bool {
	switch s {
	case models.StatusTodo, models.StatusInProgress, models.StatusReview, models.StatusTesting, models.StatusDone:
		return true
	}
	return false
}

func (h *TaskHandler) notifyAssignee(c *gin.Context, t *models.Task, prefix string) {
	if h.tg == nil || h.users == nil || t == nil || t.AssigneeID == nil {
		return
	}
	chatID, allow, err := h.users.GetTelegramSettings(c.Request.Context(), *t.AssigneeID)
	if err != nil {
		log.Printf("[task][notify] get telegram settings failed: assignee=%d err=%v", *t.AssigneeID, err)
		return
	}
	if !allow || chatID == 0 {
		return
	}
	_ = h.tg.Send(chatID, h.formatTask(prefix, t))
}

func (h *TaskHandler) formatTask(prefix string, t *models.Task) string {
	due := "-"
	if t.DueDate != nil {
		due = t.DueDate.Format("2006-01-02 15:04")
	}
	title := html.EscapeString(t.Title) // parse_mode=HTML
	return prefix + "\n" +
		"• <b>" + title + "</b>\n" +
		"• Status: <code>" + string(t.Status) + "</code>\n" +
		"• Priority: <code>" + string(t.Priority) + "</code>\n" +
		"• Due: <code>" + due + "</code>\n" +
		"• Project: <code>" + html.EscapeString(t.ProjectName) + "</code>"
}
