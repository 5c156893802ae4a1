package router

import (
	"agrilink/internal/adapter/api/handler"
	"agrilink/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupTransactionRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	transactionHandler := handler.GetTransactionHandler()

	transactions := e.Group("/v1/transactions")
	transactions.Use(authMiddleware.Authenticate)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PATCH("/:id/status", transactionHandler.UpdateStatus)
	transactions.POST("/:id/communications", transactionHandler.AddCommunication)
	transactions.POST("/:id/dispute", transactionHandler.RaiseDispute)
	transactions.POST("/:id/feedback", transactionHandler.AddFeedback)

	admin := e.Group("/v1/admin/analytics")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)
	admin.GET("/transactions", transactionHandler.Analytics)
}
