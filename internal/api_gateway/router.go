package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fraud-screening-ledger/internal/api_gateway/handler"
	"github.com/fraud-screening-ledger/internal/api_gateway/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	apiKey string,
	transactionHandler *handler.TransactionHandler,
	reportHandler *handler.ReportHandler,
	suspensionHandler *handler.SuspensionHandler,
) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Screening workflow
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", transactionHandler.Submit)
			transactions.POST("/scan", transactionHandler.Scan)
			transactions.GET("/verify", transactionHandler.Verify)
			transactions.GET("/status", transactionHandler.Status)
		}

		v1.GET("/reports", reportHandler.Get)
		v1.GET("/suspensions/:user_id", suspensionHandler.GetByUserID)

		// Machine clients authenticate with a bearer key
		v1.POST("/predict", middleware.APIKey(logger, apiKey), transactionHandler.Predict)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
