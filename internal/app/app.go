package app

import (
	"database/sql"
	"fmt"
	"log"

	"projectpulse/internal/config"
	"projectpulse/internal/handlers"
	"projectpulse/internal/middleware"
	"projectpulse/internal/pdf"
	"projectpulse/internal/realtime"
	"projectpulse/internal/repositories"
	"projectpulse/internal/routes"
	"projectpulse/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "projectpulse/docs"
)

func Run() {
	cfg := config.LoadConfig()
	middleware.JWTKey = []byte(cfg.Auth.JWTSecret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	taskRepo := repositories.NewTaskRepository(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	userService := services.NewUserService(userRepo, emailService)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo)
	reportService := services.NewReportService(taskRepo)

	// Telegram is optional, a missing token just disables notifications
	var tgToken string
	if cfg.Telegram.Enabled {
		tgToken = cfg.Telegram.BotToken
	}
	tgNotifier, err := services.NewTelegramNotifier(tgToken)
	if err != nil {
		log.Printf("telegram disabled: %v", err)
		tgNotifier = nil
	}

	// PDF exports land under <files.root_dir>/exports
	pdfGen := pdf.NewTimesheetGenerator(cfg.Files.RootDir, "")

	hub := realtime.NewEventHub()

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService, hub, tgNotifier, userRepo)
	reportHandler := handlers.NewReportHandler(reportService, pdfGen)
	eventsHandler := handlers.NewEventsHandler(hub)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(middleware.RequestID())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		projectHandler,
		taskHandler,
		reportHandler,
		eventsHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server stopped: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
