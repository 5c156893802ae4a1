package handler

import (
	"time"

	"agrilink/internal/domain/entity"
	"agrilink/internal/usecase"
	"agrilink/pkg/response"
	"agrilink/pkg/utils"

	"github.com/labstack/echo/v4"
)

type TransactionHandler struct {
	transactionUseCase *usecase.TransactionUseCase
}

func NewTransactionHandler(transactionUseCase *usecase.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{
		transactionUseCase: transactionUseCase,
	}
}

type deliveryAddressRequest struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Pincode string `json:"pincode" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

type createTransactionRequest struct {
	Type            string                 `json:"type" validate:"required,oneof=direct-purchase auction-win bulk-order"`
	SellerID        string                 `json:"seller_id" validate:"required"`
	ProductID       string                 `json:"product_id"`
	AuctionID       string                 `json:"auction_id"`
	ItemName        string                 `json:"item_name" validate:"required"`
	Quantity        float64                `json:"quantity" validate:"required,gt=0"`
	Unit            string                 `json:"unit" validate:"required"`
	PricePerUnit    float64                `json:"price_per_unit" validate:"required,gt=0"`
	DeliveryAddress deliveryAddressRequest `json:"delivery_address" validate:"required"`
	PaymentMethod   string                 `json:"payment_method" validate:"required,oneof=upi bank-transfer cod escrow"`
	GSTAmount       float64                `json:"gst_amount"`
}

type updateStatusRequest struct {
	DeliveryStatus  string     `json:"delivery_status" validate:"omitempty,oneof=pending confirmed shipped delivered cancelled"`
	PaymentStatus   string     `json:"payment_status" validate:"omitempty,oneof=pending completed failed refunded"`
	TrackingID      string     `json:"tracking_id"`
	DeliveryPartner string     `json:"delivery_partner"`
	EstimatedDate   *time.Time `json:"estimated_date"`
	Note            string     `json:"note"`
}

type communicationRequest struct {
	Message string `json:"message" validate:"required"`
}

type disputeRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type feedbackRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review"`
}

func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req createTransactionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	buyerID := c.Get("uid").(string)

	transaction, err := h.transactionUseCase.CreateTransaction(c.Request().Context(), buyerID, usecase.CreateTransactionInput{
		Type:      req.Type,
		SellerID:  req.SellerID,
		ProductID: req.ProductID,
		AuctionID: req.AuctionID,
		OrderDetails: entity.OrderDetails{
			ItemName:     req.ItemName,
			Quantity:     req.Quantity,
			Unit:         req.Unit,
			PricePerUnit: req.PricePerUnit,
			TotalAmount:  req.Quantity * req.PricePerUnit,
			DeliveryAddress: entity.DeliveryAddress{
				Street:  req.DeliveryAddress.Street,
				City:    req.DeliveryAddress.City,
				State:   req.DeliveryAddress.State,
				Pincode: req.DeliveryAddress.Pincode,
				Phone:   req.DeliveryAddress.Phone,
			},
		},
		PaymentMethod: req.PaymentMethod,
		GSTAmount:     req.GSTAmount,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, transaction)
}

func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	transactions, total, err := h.transactionUseCase.ListTransactions(
		c.Request().Context(),
		userID,
		c.QueryParam("type"),
		c.QueryParam("delivery_status"),
		pagination.PageSize,
		pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, transactions, total, pagination.Page, pagination.PageSize)
}

func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := c.Get("uid").(string)

	transaction, err := h.transactionUseCase.GetTransaction(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, transaction)
}

func (h *TransactionHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	transaction, err := h.transactionUseCase.UpdateStatus(c.Request().Context(), userID, c.Param("id"), usecase.UpdateStatusInput{
		DeliveryStatus:  req.DeliveryStatus,
		PaymentStatus:   req.PaymentStatus,
		TrackingID:      req.TrackingID,
		DeliveryPartner: req.DeliveryPartner,
		EstimatedDate:   req.EstimatedDate,
		Note:            req.Note,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, transaction)
}

func (h *TransactionHandler) AddCommunication(c echo.Context) error {
	var req communicationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	transaction, err := h.transactionUseCase.AddCommunication(c.Request().Context(), userID, c.Param("id"), req.Message)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, transaction)
}

func (h *TransactionHandler) RaiseDispute(c echo.Context) error {
	var req disputeRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	transaction, err := h.transactionUseCase.RaiseDispute(c.Request().Context(), userID, c.Param("id"), req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, transaction)
}

func (h *TransactionHandler) AddFeedback(c echo.Context) error {
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	transaction, err := h.transactionUseCase.AddFeedback(c.Request().Context(), userID, c.Param("id"), usecase.FeedbackInput{
		Rating: req.Rating,
		Review: req.Review,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, transaction)
}

func (h *TransactionHandler) Analytics(c echo.Context) error {
	role, _ := c.Get("role").(string)

	stats, err := h.transactionUseCase.Analytics(c.Request().Context(), role)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}
