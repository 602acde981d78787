package api

import (
	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, summaryHandler *delivery.SummaryHandler, historyHandler *delivery.HistoryHandler, emailHandler *delivery.EmailHandler, systemHandler *SystemHandler) {
	r.GET("/health", systemHandler.Health)
	r.GET("/metrics", systemHandler.Metrics)

	api := r.Group("/api")
	{
		// Summary generation and editing
		summarize := api.Group("/summarize")
		{
			summarize.POST("", summaryHandler.Create)
			summarize.GET("/providers/list", summaryHandler.Providers)
			summarize.GET("/styles/list", summaryHandler.Styles)
			summarize.GET("/:id", summaryHandler.Get)
			summarize.PUT("/:id", summaryHandler.Edit)
			summarize.DELETE("/:id", summaryHandler.Delete)
		}

		// History browsing, search and analytics
		history := api.Group("/history")
		{
			history.GET("/user/:userId", historyHandler.ListByUser)
			history.GET("/user/:userId/search", historyHandler.Search)
			history.GET("/user/:userId/stats", historyHandler.Stats)
			history.GET("/user/:userId/analytics", historyHandler.Analytics)
			history.GET("/summary/:id", historyHandler.GetByID)
			history.PUT("/summary/:id", historyHandler.Update)
			history.DELETE("/summary/:id", historyHandler.Delete)
		}

		// Email delivery
		email := api.Group("/email")
		{
			email.POST("/send", emailHandler.Send)
			email.POST("/send-bulk", emailHandler.SendBulk)
			email.POST("/validate", emailHandler.Validate)
			email.GET("/test", emailHandler.Test)
			email.GET("/status", emailHandler.Status)
			email.GET("/logs/:summaryId", emailHandler.Logs)
		}
	}
}
