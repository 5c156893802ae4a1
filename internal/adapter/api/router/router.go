package router

import (
	"agrilink/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupUserRouter(e, authMiddleware)
	SetupProductRouter(e, authMiddleware)
	SetupAuctionRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupTransactionRouter(e, authMiddleware, adminMiddleware)
	SetupHealthRouter(e)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
