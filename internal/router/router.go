package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/yearpeer/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Goal    *apiHandler.GoalHandler
	Task    *apiHandler.TaskHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Protected routes
	r.GET("/api/v1/profile", authMiddleware(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile", authMiddleware(handlers.Profile.UpdateProfile))

	r.GET("/api/v1/goals", authMiddleware(handlers.Goal.ListGoals))
	r.POST("/api/v1/goals", authMiddleware(handlers.Goal.CreateGoal))
	r.GET("/api/v1/goals/{id}", authMiddleware(handlers.Goal.GetGoal))
	r.PUT("/api/v1/goals/{id}", authMiddleware(handlers.Goal.UpdateGoal))
	r.DELETE("/api/v1/goals/{id}", authMiddleware(handlers.Goal.DeleteGoal))

	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.ListTasks))
	r.GET("/api/v1/tasks/grouped", authMiddleware(handlers.Task.GroupedTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	r.PATCH("/api/v1/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	return r
}
