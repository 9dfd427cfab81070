package main

import (
	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/rvdmeer/timesheet-api/internal/config"
	"github.com/rvdmeer/timesheet-api/internal/constants"
	"github.com/rvdmeer/timesheet-api/internal/database"
	"github.com/rvdmeer/timesheet-api/internal/handlers"
	"github.com/rvdmeer/timesheet-api/internal/middleware"
	"github.com/rvdmeer/timesheet-api/internal/repository"
	"github.com/rvdmeer/timesheet-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// CORS for the SPA frontend
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatal("Failed to create Redis store", "error", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	entryRepo := repository.NewEntryRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo)
	entryService := services.NewEntryService(entryRepo, taskRepo, projectRepo)
	reportService := services.NewReportService(projectRepo, taskRepo, entryRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService, reportService)
	taskHandler := handlers.NewTaskHandler(taskService, reportService)
	entryHandler := handlers.NewEntryHandler(entryService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Timesheet API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)

			scoped := projects.Group("/:id")
			scoped.Use(middleware.RequireProjectAccess())
			{
				scoped.GET("", projectHandler.GetProject)
				scoped.PUT("", projectHandler.UpdateProject)
				scoped.DELETE("", projectHandler.DeleteProject)
				scoped.POST("/activate", projectHandler.ActivateProject)
				scoped.POST("/deactivate", projectHandler.DeactivateProject)
				scoped.GET("/report", projectHandler.GetProjectReport)

				scoped.GET("/tasks", taskHandler.ListTasks)
				scoped.POST("/tasks", taskHandler.CreateTask)
				scoped.PUT("/tasks/:taskId", taskHandler.UpdateTask)
				scoped.POST("/tasks/:taskId/activate", taskHandler.ActivateTask)
				scoped.POST("/tasks/:taskId/deactivate", taskHandler.DeactivateTask)
				scoped.DELETE("/tasks/:taskId", taskHandler.DeleteTask)

				scoped.GET("/entries", entryHandler.ListEntries)
				scoped.POST("/entries", entryHandler.CreateEntry)
				scoped.PUT("/entries/:entryId", entryHandler.UpdateEntry)
				scoped.DELETE("/entries/:entryId", entryHandler.DeleteEntry)
				scoped.PUT("/entries/:entryId/status", entryHandler.SetEntryStatus)
			}
		}

		// Cross-project entries for the logged-in user (protected)
		entries := api.Group("/entries")
		entries.Use(middleware.RequireAuth())
		{
			entries.GET("", entryHandler.ListOwnEntries)
		}
	}

	// Start server
	log.Info("Server starting", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal("Failed to start server", "error", err)
	}
}
