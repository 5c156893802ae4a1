package router

import (
	"agrilink/internal/adapter/api/handler"
	"agrilink/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupProductRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	productHandler := handler.GetProductHandler()

	e.GET("/v1/products", productHandler.ListProducts)
	e.GET("/v1/products/:id", productHandler.GetProduct)

	products := e.Group("/v1/products")
	products.Use(authMiddleware.Authenticate)
	products.POST("/:id/ratings", productHandler.RateProduct)

	myProducts := e.Group("/v1/my-products")
	myProducts.Use(authMiddleware.Authenticate)
	myProducts.GET("", productHandler.ListMyProducts)
	myProducts.POST("", productHandler.CreateProduct)
	myProducts.PUT("/:id", productHandler.UpdateProduct)
	myProducts.DELETE("/:id", productHandler.DeleteProduct)
}
