package repository

import (
	"context"

	"agrilink/internal/domain/entity"
)

// ProductFilter narrows the catalog listing. Zero values mean "no filter".
type ProductFilter struct {
	Category string
	Quality  string
	MinPrice float64
	MaxPrice float64
	Location string
	Search   string
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter, sortBy string, limit, offset int) ([]*entity.Product, int64, error)
	ListByFarmerID(ctx context.Context, farmerID string) ([]*entity.Product, error)
	// Update is a compare-and-swap on the product's revision.
	Update(ctx context.Context, product *entity.Product) error
	// DecrementQuantity atomically reduces available stock.
	DecrementQuantity(ctx context.Context, id string, quantity float64) error
}
