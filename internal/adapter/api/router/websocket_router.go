package router

import (
	"agrilink/internal/adapter/api/handler"

	"github.com/labstack/echo/v4"
)

func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
