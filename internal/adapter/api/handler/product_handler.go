package handler

import (
	"strconv"
	"time"

	"agrilink/internal/domain/repository"
	"agrilink/internal/usecase"
	"agrilink/pkg/response"
	"agrilink/pkg/utils"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

type createProductRequest struct {
	Name         string     `json:"name" validate:"required"`
	Category     string     `json:"category" validate:"required,oneof=vegetables fruits grains pulses spices dairy organic other"`
	Description  string     `json:"description"`
	Quantity     float64    `json:"quantity" validate:"required,gt=0"`
	Unit         string     `json:"unit" validate:"required,oneof=kg quintal ton piece dozen liter"`
	PricePerUnit float64    `json:"price_per_unit" validate:"required,gt=0"`
	MinimumOrder float64    `json:"minimum_order"`
	Quality      string     `json:"quality" validate:"omitempty,oneof=premium standard organic export-quality"`
	HarvestDate  *time.Time `json:"harvest_date"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	Images       []string   `json:"images"`
}

type updateProductRequest struct {
	Description  *string  `json:"description"`
	Quantity     *float64 `json:"quantity" validate:"omitempty,gt=0"`
	PricePerUnit *float64 `json:"price_per_unit" validate:"omitempty,gt=0"`
	MinimumOrder *float64 `json:"minimum_order"`
	Availability *string  `json:"availability" validate:"omitempty,oneof=available sold-out reserved"`
	Images       []string `json:"images"`
}

type rateProductRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	farmerID := c.Get("uid").(string)

	product, err := h.productUseCase.CreateProduct(c.Request().Context(), farmerID, usecase.CreateProductInput{
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		PricePerUnit: req.PricePerUnit,
		MinimumOrder: req.MinimumOrder,
		Quality:      req.Quality,
		HarvestDate:  req.HarvestDate,
		ExpiryDate:   req.ExpiryDate,
		Images:       req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	minPrice, _ := strconv.ParseFloat(c.QueryParam("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.QueryParam("max_price"), 64)

	filter := repository.ProductFilter{
		Category: c.QueryParam("category"),
		Quality:  c.QueryParam("quality"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Location: c.QueryParam("location"),
		Search:   c.QueryParam("search"),
	}

	products, total, err := h.productUseCase.ListProducts(
		c.Request().Context(),
		filter,
		c.QueryParam("sort_by"),
		pagination.PageSize,
		pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, pagination.Page, pagination.PageSize)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.productUseCase.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) ListMyProducts(c echo.Context) error {
	farmerID := c.Get("uid").(string)

	products, err := h.productUseCase.ListFarmerProducts(c.Request().Context(), farmerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, products)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	farmerID := c.Get("uid").(string)

	product, err := h.productUseCase.UpdateProduct(c.Request().Context(), farmerID, c.Param("id"), usecase.UpdateProductInput{
		Description:  req.Description,
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
		MinimumOrder: req.MinimumOrder,
		Availability: req.Availability,
		Images:       req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	farmerID := c.Get("uid").(string)

	if err := h.productUseCase.DeleteProduct(c.Request().Context(), farmerID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Product deleted"})
}

func (h *ProductHandler) RateProduct(c echo.Context) error {
	var req rateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	buyerID := c.Get("uid").(string)

	product, err := h.productUseCase.RateProduct(c.Request().Context(), buyerID, c.Param("id"), usecase.RateProductInput{
		Rating: req.Rating,
		Review: req.Review,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}
