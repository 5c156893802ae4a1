package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type HealthHandler struct {
	mongoClient *mongo.Client
}

var healthHandler *HealthHandler

func NewHealthHandler(mongoClient *mongo.Client) *HealthHandler {
	return &HealthHandler{
		mongoClient: mongoClient,
	}
}

func SetupHealthHandler(mongoClient *mongo.Client) {
	healthHandler = NewHealthHandler(mongoClient)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *HealthHandler) CheckDatabaseHealth(c echo.Context) error {
	if err := h.mongoClient.Ping(c.Request().Context(), readpref.Primary()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"status": "MongoDB connection failed",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "MongoDB connected successfully",
	})
}
