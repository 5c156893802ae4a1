package usecase

import (
	"context"
	"log"
	"time"

	"agrilink/internal/domain/entity"
	"agrilink/internal/domain/repository"
	"agrilink/pkg/errors"
)

type ProductUseCase struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewProductUseCase(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

type CreateProductInput struct {
	Name         string
	Category     string
	Description  string
	Quantity     float64
	Unit         string
	PricePerUnit float64
	MinimumOrder float64
	Quality      string
	HarvestDate  *time.Time
	ExpiryDate   *time.Time
	Images       []string
}

type UpdateProductInput struct {
	Description  *string
	Quantity     *float64
	PricePerUnit *float64
	MinimumOrder *float64
	Availability *string
	Images       []string
}

type RateProductInput struct {
	Rating int
	Review string
}

func (uc *ProductUseCase) CreateProduct(ctx context.Context, farmerID string, input CreateProductInput) (*entity.Product, error) {
	farmer, err := uc.userRepo.GetByID(ctx, farmerID)
	if err != nil {
		log.Printf("CreateProduct Error: Farmer %s not found: %v", farmerID, err)
		return nil, err
	}

	product := &entity.Product{
		Name:         input.Name,
		Category:     input.Category,
		Description:  input.Description,
		Quantity:     input.Quantity,
		Unit:         input.Unit,
		PricePerUnit: input.PricePerUnit,
		MinimumOrder: input.MinimumOrder,
		Quality:      input.Quality,
		HarvestDate:  input.HarvestDate,
		ExpiryDate:   input.ExpiryDate,
		FarmerID:     farmer.ID,
		FarmerName:   farmer.Name,
		FarmerEmail:  farmer.Email,
		FarmerPhone:  farmer.Phone,
		Location:     farmer.Location,
		Images:       input.Images,
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		log.Printf("CreateProduct Error: Failed to create product: %v", err)
		return nil, err
	}

	return product, nil
}

func (uc *ProductUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return uc.productRepo.GetByID(ctx, id)
}

func (uc *ProductUseCase) ListProducts(ctx context.Context, filter repository.ProductFilter, sortBy string, limit, offset int) ([]*entity.Product, int64, error) {
	return uc.productRepo.List(ctx, filter, sortBy, limit, offset)
}

func (uc *ProductUseCase) ListFarmerProducts(ctx context.Context, farmerID string) ([]*entity.Product, error) {
	return uc.productRepo.ListByFarmerID(ctx, farmerID)
}

func (uc *ProductUseCase) UpdateProduct(ctx context.Context, farmerID, id string, input UpdateProductInput) (*entity.Product, error) {
	return uc.mutateOwned(ctx, farmerID, id, func(p *entity.Product) error {
		if input.Description != nil {
			p.Description = *input.Description
		}
		if input.Quantity != nil {
			p.Quantity = *input.Quantity
		}
		if input.PricePerUnit != nil {
			p.PricePerUnit = *input.PricePerUnit
		}
		if input.MinimumOrder != nil {
			p.MinimumOrder = *input.MinimumOrder
		}
		if input.Availability != nil {
			p.Availability = *input.Availability
		}
		if input.Images != nil {
			p.Images = input.Images
		}
		return nil
	})
}

// DeleteProduct soft-deletes: the listing disappears from searches but stays
// referenced by historical transactions.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, farmerID, id string) error {
	_, err := uc.mutateOwned(ctx, farmerID, id, func(p *entity.Product) error {
		p.IsActive = false
		return nil
	})
	return err
}

// RateProduct records a buyer rating. One rating per buyer per product.
func (uc *ProductUseCase) RateProduct(ctx context.Context, buyerID, id string, input RateProductInput) (*entity.Product, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.Validation("Rating must be between 1 and 5", nil)
	}

	var product *entity.Product
	var err error

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		product, err = uc.productRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if product.FarmerID == buyerID {
			return nil, errors.Validation("You cannot rate your own product", nil)
		}
		if product.RatedBy(buyerID) {
			return nil, errors.Validation("You have already rated this product", nil)
		}

		product.AddRating(entity.ProductRating{
			BuyerID:   buyerID,
			Rating:    input.Rating,
			Review:    input.Review,
			CreatedAt: time.Now(),
		})

		err = uc.productRepo.Update(ctx, product)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, "CONFLICT") {
			return nil, err
		}
	}

	return nil, err
}

func (uc *ProductUseCase) mutateOwned(ctx context.Context, farmerID, id string, fn func(*entity.Product) error) (*entity.Product, error) {
	var product *entity.Product
	var err error

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		product, err = uc.productRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if product.FarmerID != farmerID {
			return nil, errors.Forbidden("Only the product owner can modify it", nil)
		}

		if err = fn(product); err != nil {
			return nil, err
		}

		err = uc.productRepo.Update(ctx, product)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, "CONFLICT") {
			return nil, err
		}

		log.Printf("ProductUseCase: Conflict on product %s, retrying (%d/%d)", id, attempt+1, maxSaveAttempts)
	}

	return nil, err
}
