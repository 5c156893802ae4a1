package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"agrilink/internal/adapter/api"
	"agrilink/internal/adapter/api/handler"
	apimiddleware "agrilink/internal/adapter/api/middleware"
	"agrilink/internal/adapter/api/router"
	"agrilink/internal/adapter/repository"
	"agrilink/internal/infrastructure/mongodb"
	"agrilink/internal/infrastructure/websocket"
	"agrilink/internal/usecase"
	"agrilink/pkg/config"
	"agrilink/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	mongoClient, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(ctx)

	db := mongoClient.Database(cfg.MongoDatabase)

	userRepo := repository.NewMongoUserRepository(db)
	productRepo := repository.NewMongoProductRepository(db)
	auctionRepo := repository.NewMongoAuctionRepository(db)
	chatRepo := repository.NewMongoChatRepository(db)
	transactionRepo := repository.NewMongoTransactionRepository(db)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	userUseCase := usecase.NewUserUseCase(userRepo)
	productUseCase := usecase.NewProductUseCase(productRepo, userRepo)
	auctionUseCase := usecase.NewAuctionUseCase(auctionRepo, userRepo)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, wsManager)
	transactionUseCase := usecase.NewTransactionUseCase(transactionRepo, productRepo, userRepo)

	handler.Setup(userUseCase, productUseCase, auctionUseCase, chatUseCase, transactionUseCase)
	handler.SetupHealthHandler(mongoClient)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(cfg.JWTSecret)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	router.Setup(e, authMiddleware, adminMiddleware)

	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	logger.Info("Starting server on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
