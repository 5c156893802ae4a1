package repository

import (
	"context"

	"agrilink/internal/domain/entity"
)

// TransactionStats is the admin analytics overview.
type TransactionStats struct {
	TotalTransactions     int64
	CompletedTransactions int64
	PendingTransactions   int64
	DisputedTransactions  int64
	TotalRevenue          float64
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	// ListByUserID returns transactions where the user is buyer or seller.
	ListByUserID(ctx context.Context, userID, txType, deliveryStatus string, limit, offset int) ([]*entity.Transaction, int64, error)
	// Update is a compare-and-swap on the transaction's revision.
	Update(ctx context.Context, transaction *entity.Transaction) error
	Stats(ctx context.Context) (*TransactionStats, error)
}
