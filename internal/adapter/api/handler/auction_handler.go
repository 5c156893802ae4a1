package handler

import (
	"agrilink/internal/usecase"
	"agrilink/pkg/response"

	"github.com/labstack/echo/v4"
)

type AuctionHandler struct {
	auctionUseCase *usecase.AuctionUseCase
}

func NewAuctionHandler(auctionUseCase *usecase.AuctionUseCase) *AuctionHandler {
	return &AuctionHandler{
		auctionUseCase: auctionUseCase,
	}
}

type createAuctionRequest struct {
	ItemName         string  `json:"item_name" validate:"required"`
	Quantity         float64 `json:"quantity" validate:"required,gt=0"`
	Unit             string  `json:"unit" validate:"required"`
	PricePerUnit     float64 `json:"price_per_unit" validate:"required,gt=0"`
	AuctionStartDate string  `json:"auction_start_date" validate:"required"`
	AuctionEndDate   string  `json:"auction_end_date" validate:"required"`
	Location         string  `json:"location"`
	ImageURL         string  `json:"image_url"`
}

type placeBidRequest struct {
	BidAmount float64 `json:"bid_amount" validate:"required,gt=0"`
}

func (h *AuctionHandler) CreateAuction(c echo.Context) error {
	var req createAuctionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := c.Get("uid").(string)

	auction, err := h.auctionUseCase.CreateAuction(c.Request().Context(), sellerID, usecase.CreateAuctionInput{
		ItemName:         req.ItemName,
		Quantity:         req.Quantity,
		Unit:             req.Unit,
		PricePerUnit:     req.PricePerUnit,
		AuctionStartDate: req.AuctionStartDate,
		AuctionEndDate:   req.AuctionEndDate,
		Location:         req.Location,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, auction)
}

func (h *AuctionHandler) ListAuctions(c echo.Context) error {
	auctions, err := h.auctionUseCase.ListActiveAuctions(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, auctions)
}

func (h *AuctionHandler) ListMyAuctions(c echo.Context) error {
	sellerID := c.Get("uid").(string)

	auctions, err := h.auctionUseCase.ListSellerAuctions(c.Request().Context(), sellerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, auctions)
}

func (h *AuctionHandler) PlaceBid(c echo.Context) error {
	var req placeBidRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	bidderID := c.Get("uid").(string)

	auction, err := h.auctionUseCase.PlaceBid(c.Request().Context(), bidderID, usecase.PlaceBidInput{
		AuctionID: c.Param("id"),
		BidAmount: req.BidAmount,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, auction)
}

func (h *AuctionHandler) DeleteAuction(c echo.Context) error {
	sellerID := c.Get("uid").(string)

	if err := h.auctionUseCase.DeleteAuction(c.Request().Context(), sellerID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Auction deleted"})
}
