package routes

import (
	"github.com/gin-gonic/gin"

	"task-planner-api/internal/auth"
	"task-planner-api/internal/handlers"
	"task-planner-api/internal/middleware"
)

// Deps carries the constructed handlers the router wires up.
type Deps struct {
	Tokens    *auth.TokenIssuer
	Auth      *handlers.AuthHandler
	Tasks     *handlers.TaskHandler
	Analytics *handlers.AnalyticsHandler
	WS        *handlers.WSHandler
}

func SetupRoutes(deps Deps) *gin.Engine {
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Planner API is running",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/register", deps.Auth.Register)
		api.POST("/login", deps.Auth.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware(deps.Tokens))
	{
		// Task endpoints
		protectedRoutes.GET("/tasks", deps.Tasks.GetTasks)
		protectedRoutes.GET("/tasks/:id", deps.Tasks.GetTaskByID)
		protectedRoutes.POST("/tasks", deps.Tasks.CreateTask)
		protectedRoutes.POST("/tasks/:id/subtasks", deps.Tasks.CreateSubtask)
		protectedRoutes.PUT("/tasks/:id", deps.Tasks.UpdateTask)
		protectedRoutes.PATCH("/tasks/:id/status", deps.Tasks.UpdateTaskStatus)
		protectedRoutes.DELETE("/tasks/:id", deps.Tasks.DeleteTask)
		// Analytics endpoints
		protectedRoutes.GET("/analytics/summary", deps.Analytics.Summary)
		protectedRoutes.GET("/analytics/insights", deps.Analytics.Insights)
		protectedRoutes.GET("/analytics/export", deps.Analytics.Export)
		// Realtime events
		protectedRoutes.GET("/ws", deps.WS.Handle)
	}

	return ginRouter
}
