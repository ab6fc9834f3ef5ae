package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hireloop-dev/hireloop/internal/handlers"
	"github.com/hireloop-dev/hireloop/internal/middleware"
	"github.com/hireloop-dev/hireloop/internal/types"
	"gorm.io/gorm"
)

// Deps carries the once-per-process handler instances. Everything stateful
// is constructed in main and injected here.
type Deps struct {
	DB            *gorm.DB
	Auth          *handlers.AuthHandler
	Applications  *handlers.ApplicationHandler
	Notifications *handlers.NotificationHandler
	Health        *handlers.HealthHandler
	Hub           *handlers.Hub
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authed := middleware.AuthMiddleware(deps.DB)

	api := r.Group("/api")
	{
		api.GET("/health", deps.Health.Check)
		api.GET("/ws/notifications", authed, deps.Hub.ServeWS)

		auth := api.Group("/auth")
		{
			auth.POST("/register", deps.Auth.Register)
			auth.POST("/login", deps.Auth.Login)
			auth.POST("/logout", deps.Auth.Logout)
			auth.GET("/me", authed, deps.Auth.Me)
			auth.PATCH("/profile", authed, deps.Auth.UpdateProfile)
		}

		jobs := api.Group("/jobs", authed)
		{
			jobs.POST("/:job_id/apply", deps.Applications.Apply)
			jobs.GET("/:job_id/applicants", deps.Applications.GetApplicants)
		}

		applications := api.Group("/applications", authed)
		{
			applications.GET("", deps.Applications.GetAppliedJobs)
			applications.PATCH("/:application_id/status", deps.Applications.UpdateStatus)
		}

		api.POST("/notify", authed, deps.Notifications.Send)
		api.GET("/notifications", authed, deps.Notifications.List)
	}

	return r
}
