package routes

import (
	"github.com/gin-gonic/gin"

	"projectpulse/internal/handlers"
	"projectpulse/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	projectHandler *handlers.ProjectHandler,
	taskHandler *handlers.TaskHandler,
	reportHandler *handlers.ReportHandler,
	eventsHandler *handlers.EventsHandler,
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)
	r.POST("/register", authHandler.Register)

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	// USERS
	users := r.Group("/users")
	{
		users.GET("/", userHandler.List)
		users.GET("/:id", userHandler.GetByID)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", middleware.AdminOnly(), userHandler.Delete)
	}

	// PROJECTS
	projects := r.Group("/projects")
	{
		projects.POST("/", projectHandler.Create)
		projects.GET("/", projectHandler.List)
		projects.GET("/:id", projectHandler.GetByID)
		projects.PUT("/:id", projectHandler.Update)
		projects.POST("/:id/archive", projectHandler.Archive)
		projects.POST("/:id/members", projectHandler.AddMember)
		projects.DELETE("/:id/members/:user_id", projectHandler.RemoveMember)
	}

	// TASKS
	tasks := r.Group("/tasks")
	{
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/", taskHandler.List)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.POST("/:id/status", taskHandler.ChangeStatus)
		tasks.POST("/:id/assign", taskHandler.Assign)
		tasks.POST("/:id/archive", taskHandler.Archive)
		tasks.POST("/:id/unarchive", taskHandler.Unarchive)
		tasks.POST("/:id/timelogs", taskHandler.LogTime)
	}

	// REPORTS (admin)
	reports := r.Group("/reports", middleware.AdminOnly())
	{
		reports.GET("/time", reportHandler.TimeReport)
		reports.GET("/timesheet", reportHandler.Timesheet)
		reports.GET("/timesheet/export", reportHandler.ExportTimesheet)
	}

	// live project feed
	r.GET("/ws/projects/:id", eventsHandler.Subscribe)

	return r
}
