package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"projectpulse/internal/authz"
	"projectpulse/internal/models"
	"projectpulse/internal/services"
)

type ProjectHandler struct {
	service services.ProjectService
}

func NewProjectHandler(service services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	userID, roleID := getUserAndRole(c)

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		ManagerID   *int64  `json:"manager_id"`
		TeamIDs     []int64 `json:"team_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[project][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	managerID := userID
	if req.ManagerID != nil {
		if !authz.IsAdmin(roleID) && *req.ManagerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "only admins can assign another manager"})
			return
		}
		managerID = *req.ManagerID
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   managerID,
		TeamIDs:     req.TeamIDs,
	}
	created, err := h.service.Create(c.Request.Context(), project)
	if err != nil {
		log.Printf("[project][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}
	log.Printf("[project][create][ok] id=%d manager=%d", created.ID, created.ManagerID)
	c.JSON(http.StatusCreated, created)
}

// GET /projects (admins see all, others their own)
func (h *ProjectHandler) List(c *gin.Context) {
	userID, roleID := getUserAndRole(c)

	var filter models.ProjectFilter
	if !authz.IsAdmin(roleID) {
		filter.MemberID = &userID
	}
	projects, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		log.Printf("[project][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GET /projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	project, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[project][get][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

// PUT /projects/:id (manager or admin)
func (h *ProjectHandler) Update(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	if current.ManagerID != userID && !authz.IsAdmin(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		ManagerID   *int64  `json:"manager_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := *current
	if req.Name != nil {
		update.Name = *req.Name
	}
	if req.Description != nil {
		update.Description = *req.Description
	}
	if req.ManagerID != nil {
		update.ManagerID = *req.ManagerID
	}

	updated, err := h.service.Update(c.Request.Context(), id, &update)
	if err != nil {
		log.Printf("[project][update][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
		return
	}
	log.Printf("[project][update][ok] id=%d by=%d", id, userID)
	c.JSON(http.StatusOK, updated)
}

// DELETE /projects/:id (soft archive, manager or admin)
func (h *ProjectHandler) Archive(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	if current.ManagerID != userID && !authz.IsAdmin(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	if err := h.service.Archive(c.Request.Context(), id); err != nil {
		log.Printf("[project][archive][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to archive project"})
		return
	}
	log.Printf("[project][archive][ok] id=%d by=%d", id, userID)
	c.Status(http.StatusNoContent)
}

// POST /projects/:id/members { "user_id": 7 }
func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	if current.ManagerID != userID && !authz.IsAdmin(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var body struct {
		UserID int64 `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.AddMember(c.Request.Context(), id, body.UserID); err != nil {
		log.Printf("[project][member][err] add project=%d user=%d: %v", id, body.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add member"})
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /projects/:id/members/:user_id
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	memberID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	if current.ManagerID != userID && !authz.IsAdmin(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), id, memberID); err != nil {
		log.Printf("[project][member][err] remove project=%d user=%d: %v", id, memberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove member"})
		return
	}
	c.Status(http.StatusNoContent)
}
