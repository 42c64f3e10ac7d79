package routes

import (
	"subsidy-crm-api/controllers"
	"subsidy-crm-api/middleware"
	"subsidy-crm-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Subsidy CRM API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Cases
			cases := protected.Group("/cases")
			{
				cases.GET("", controllers.GetCases)
				cases.POST("", controllers.CreateCase)
				cases.GET("/:id", controllers.GetCase)
				cases.PUT("/:id", controllers.UpdateCase)
				cases.PUT("/:id/status", controllers.UpdateCaseStatus)
				cases.PUT("/:id/priority", controllers.UpdateCasePriority)
				cases.POST("/:id/close", controllers.CloseCase)
				cases.POST("/:id/reopen", controllers.ReopenCase)
				cases.POST("/:id/notes", controllers.AddCaseNote)

				// Only case-management roles can assign or delete
				cases.DELETE("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), controllers.DeleteCase)
				cases.POST("/:id/assign", middleware.RequireRole(models.RoleAdmin, models.RoleManager), controllers.AssignCase)
				cases.POST("/bulk-assign", middleware.RequireRole(models.RoleAdmin, models.RoleManager), controllers.BulkAssignCases)
				cases.GET("/:id/assignment-history", controllers.GetAssignmentHistory)

				// Documents (metadata only; bytes go through the storage service)
				cases.POST("/:id/documents", controllers.AddCaseDocument)
				cases.GET("/:id/documents", controllers.GetCaseDocuments)
				cases.GET("/:id/documents/completeness", controllers.GetDocumentCompleteness)

				// Timeline
				cases.GET("/:id/timeline", controllers.GetCaseTimeline)

				// Tasks
				cases.POST("/:id/tasks", controllers.CreateCaseTask)
				cases.GET("/:id/tasks", controllers.GetCaseTasks)
			}

			// Document verification
			documents := protected.Group("/documents")
			{
				documents.POST("/:document_id/verify", controllers.VerifyDocument)
				documents.POST("/:document_id/reject", controllers.RejectDocument)
			}

			// Tasks
			tasks := protected.Group("/tasks")
			{
				tasks.POST("/:task_id/complete", controllers.CompleteTask)
			}

			// Reports
			reports := protected.Group("/reports")
			{
				reports.GET("/stats", controllers.GetCaseStats)
				reports.GET("/workload/:user_id", controllers.GetUserWorkload)
				reports.GET("/resolution", controllers.GetResolutionStats)
				reports.GET("/trend", controllers.GetCreationTrend)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
			}
		}
	}
}
