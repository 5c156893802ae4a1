package router

import (
	"agrilink/internal/adapter/api/handler"
	"agrilink/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupAuctionRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	auctionHandler := handler.GetAuctionHandler()

	e.GET("/v1/auctions", auctionHandler.ListAuctions)

	auctions := e.Group("/v1/auctions")
	auctions.Use(authMiddleware.Authenticate)
	auctions.POST("", auctionHandler.CreateAuction)
	auctions.POST("/:id/bids", auctionHandler.PlaceBid)
	auctions.DELETE("/:id", auctionHandler.DeleteAuction)

	myAuctions := e.Group("/v1/my-auctions")
	myAuctions.Use(authMiddleware.Authenticate)
	myAuctions.GET("", auctionHandler.ListMyAuctions)
}
