package router

import (
	"agrilink/internal/adapter/api/handler"
	"agrilink/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)
	chats.POST("", chatHandler.CreateChat)
	chats.GET("", chatHandler.ListChats)
	chats.GET("/unread-count", chatHandler.UnreadCount)
	chats.GET("/:id", chatHandler.GetChat)
	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.POST("/:id/offers", chatHandler.ProposeOffer)
	chats.POST("/:id/offers/respond", chatHandler.RespondToOffer)
}
