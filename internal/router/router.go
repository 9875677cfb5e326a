package router

import (
	"time"

	"github.com/contexthub-dev/contexthub/internal/handlers"
	"github.com/contexthub-dev/contexthub/internal/middleware"
	"github.com/contexthub-dev/contexthub/internal/session"
	"github.com/contexthub-dev/contexthub/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func NewRouter(h *handlers.Handler, sessions *session.Store) *gin.Engine {
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

	authRequired := middleware.AuthMiddleware(sessions)
	loginLimiter := middleware.RateLimit(rate.Every(time.Second), 5)
	queryLimiter := middleware.RateLimit(rate.Every(time.Second/2), 10)

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.POST("/query", authRequired, queryLimiter, h.Query)
		api.GET("/ws/query", authRequired, h.QueryStream)

		auth := api.Group("/auth")
		{
			auth.POST("/register", loginLimiter, h.Register)
			auth.POST("/login", loginLimiter, h.Login)
			auth.POST("/logout", authRequired, h.Logout)

			oauth := auth.Group("/oauth", authRequired)
			{
				oauth.GET("/:provider", h.OAuthRedirect)
				oauth.GET("/:provider/callback", h.OAuthCallback)
			}
		}

		account := api.Group("/account", authRequired)
		{
			account.GET("", h.GetAccount)
			account.PATCH("", h.UpdateAccount)
			account.DELETE("", h.DeleteAccount)
			account.PUT("/avatar", h.UploadAvatar)
		}

		projects := api.Group("/projects", authRequired)
		{
			projects.POST("", h.CreateProject)
			projects.GET("", h.ListProjects)
			projects.PATCH("/:project_id", h.UpdateProject)
			projects.DELETE("/:project_id", h.DeleteProject)

			// Document library
			projects.GET("/:project_id/library/documents", h.ListDocuments)
			projects.GET("/:project_id/library/quota", h.GetQuota)

			// API keys
			projects.POST("/:project_id/keys", h.CreateAPIKey)
			projects.GET("/:project_id/keys", h.ListAPIKeys)
			projects.DELETE("/:project_id/keys/:key_id", h.DeleteAPIKey)

			// Profiles and their server configs
			projects.POST("/:project_id/profiles", h.CreateProfile)
			projects.GET("/:project_id/profiles", h.ListProfiles)
			projects.PATCH("/:project_id/profiles/:profile_id", h.UpdateProfile)
			projects.DELETE("/:project_id/profiles/:profile_id", h.DeleteProfile)

			projects.POST("/:project_id/profiles/:profile_id/servers", h.CreateServerConfig)
			projects.GET("/:project_id/profiles/:profile_id/servers", h.ListServerConfigs)
			projects.PUT("/:project_id/profiles/:profile_id/servers/:config_id", h.UpdateServerConfig)
			projects.DELETE("/:project_id/profiles/:profile_id/servers/:config_id", h.DeleteServerConfig)

			projects.POST("/:project_id/profiles/:profile_id/custom-servers", h.CreateCustomServerConfig)
			projects.GET("/:project_id/profiles/:profile_id/custom-servers", h.ListCustomServerConfigs)
			projects.DELETE("/:project_id/profiles/:profile_id/custom-servers/:config_id", h.DeleteCustomServerConfig)
		}
	}

	return r
}
