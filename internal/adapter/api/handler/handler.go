package handler

import (
	"agrilink/internal/usecase"
)

var (
	userHandler        *UserHandler
	productHandler     *ProductHandler
	auctionHandler     *AuctionHandler
	chatHandler        *ChatHandler
	transactionHandler *TransactionHandler
)

func Setup(
	userUseCase *usecase.UserUseCase,
	productUseCase *usecase.ProductUseCase,
	auctionUseCase *usecase.AuctionUseCase,
	chatUseCase *usecase.ChatUseCase,
	transactionUseCase *usecase.TransactionUseCase,
) {
	userHandler = NewUserHandler(userUseCase)
	productHandler = NewProductHandler(productUseCase)
	auctionHandler = NewAuctionHandler(auctionUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	transactionHandler = NewTransactionHandler(transactionUseCase)
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetAuctionHandler() *AuctionHandler {
	return auctionHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetTransactionHandler() *TransactionHandler {
	return transactionHandler
}
