package main

import (
	"github.com/Abhishek40905/ancome-backend/internal/config"
	"github.com/Abhishek40905/ancome-backend/internal/middleware"
	"github.com/Abhishek40905/ancome-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS(cfg.Server.CORSOrigin))

	r.GET("/health", svc.healthHandler.CheckHealth)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth", svc.authLimiter.Middleware())
		{
			auth.GET("/login", svc.authHandler.Login)
			auth.GET("/callback", svc.authHandler.Callback)
			auth.POST("/verify", svc.authHandler.Verify)
			auth.POST("/logout", svc.authHandler.Logout)
		}

		// Events (public read)
		api.GET("/events", svc.eventHandler.List)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(svc.authService))
		{
			protected.GET("/auth/profile", svc.authHandler.Profile)
			protected.POST("/events", svc.eventHandler.Create)

			// Projects
			projects := protected.Group("/projects/:id")
			projects.GET("", svc.projectHandler.GetByID)
			projects.POST("/requests", svc.projectHandler.RequestJoin)
			projects.PUT("/settings", svc.projectHandler.UpdateSettings)
			projects.POST("/requests/:userId/approve", svc.projectHandler.Approve)
			projects.POST("/requests/:userId/reject", svc.projectHandler.Reject)
			projects.DELETE("/members/:userId", svc.projectHandler.RemoveMember)
			projects.GET("/comments", svc.projectHandler.Comments)
			projects.POST("/comments", svc.projectHandler.AddComment)
			projects.POST("/comments/:commentId/replies", svc.projectHandler.AddReply)

			// Super admin
			admin := protected.Group("/admin")
			admin.Use(middleware.SuperAdminRequired(), middleware.AuditLog(svc.auditService))
			{
				admin.GET("/projects", svc.adminHandler.ListProjects)
				admin.POST("/projects", svc.adminHandler.CreateProject)
				admin.PUT("/projects/:id", svc.adminHandler.UpdateProject)
				admin.DELETE("/projects/:id", svc.adminHandler.DeleteProject)
				admin.GET("/users", svc.adminHandler.ListUsers)
				admin.GET("/audit-logs", svc.adminHandler.AuditLogs)
			}
		}
	}
}
