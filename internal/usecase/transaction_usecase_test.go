package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrilink/internal/domain/entity"
	"agrilink/pkg/errors"
)

func setupTransactionTest(t *testing.T) (*TransactionUseCase, *fakeUserRepo, *fakeProductRepo, string) {
	t.Helper()

	users := newFakeUserRepo(
		entity.User{ID: "farmer-1", Name: "Ravi", Role: "farmer"},
		entity.User{ID: "buyer-1", Name: "Meena", Role: "buyer"},
		entity.User{ID: "admin-1", Name: "Ops", Role: "admin"},
	)
	products := newFakeProductRepo()
	transactions := newFakeTransactionRepo()
	uc := NewTransactionUseCase(transactions, products, users)

	require.NoError(t, products.Create(context.Background(), &entity.Product{
		ID:       "PROD-wheat",
		Name:     "Wheat",
		Quantity: 100,
		FarmerID: "farmer-1",
	}))

	transaction, err := uc.CreateTransaction(context.Background(), "buyer-1", CreateTransactionInput{
		Type:      entity.TransactionTypeDirectPurchase,
		SellerID:  "farmer-1",
		ProductID: "PROD-wheat",
		OrderDetails: entity.OrderDetails{
			ItemName:     "Wheat",
			Quantity:     40,
			Unit:         "kg",
			PricePerUnit: 25,
			TotalAmount:  1000,
		},
		PaymentMethod: "upi",
	})
	require.NoError(t, err)

	return uc, users, products, transaction.ID
}

func TestCreateTransactionDecrementsStock(t *testing.T) {
	_, _, products, _ := setupTransactionTest(t)

	product, err := products.GetByID(context.Background(), "PROD-wheat")
	require.NoError(t, err)
	assert.Equal(t, 60.0, product.Quantity)
}

func TestCreateTransactionInsufficientStock(t *testing.T) {
	uc, _, _, _ := setupTransactionTest(t)

	_, err := uc.CreateTransaction(context.Background(), "buyer-1", CreateTransactionInput{
		Type:      entity.TransactionTypeDirectPurchase,
		SellerID:  "farmer-1",
		ProductID: "PROD-wheat",
		OrderDetails: entity.OrderDetails{
			Quantity:    500,
			TotalAmount: 12500,
		},
		PaymentMethod: "upi",
	})

	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestGetTransactionPartyOnly(t *testing.T) {
	uc, _, _, txID := setupTransactionTest(t)
	ctx := context.Background()

	_, err := uc.GetTransaction(ctx, "stranger", txID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	transaction, err := uc.GetTransaction(ctx, "buyer-1", txID)
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusPending, transaction.Delivery.Status)
	assert.Equal(t, entity.PaymentStatusPending, transaction.Payment.Status)
}

func TestUpdateDeliveryStatusSellerOnly(t *testing.T) {
	uc, _, _, txID := setupTransactionTest(t)
	ctx := context.Background()

	_, err := uc.UpdateStatus(ctx, "buyer-1", txID, UpdateStatusInput{
		DeliveryStatus: entity.DeliveryStatusShipped,
	})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	transaction, err := uc.UpdateStatus(ctx, "farmer-1", txID, UpdateStatusInput{
		DeliveryStatus: entity.DeliveryStatusDelivered,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusDelivered, transaction.Delivery.Status)
	assert.NotNil(t, transaction.Delivery.ActualDate)
	require.NotEmpty(t, transaction.Communication)
	assert.Equal(t, "status-update", transaction.Communication[len(transaction.Communication)-1].Type)
}

func TestPaymentCompletedStampsPaidAt(t *testing.T) {
	uc, _, _, txID := setupTransactionTest(t)

	transaction, err := uc.UpdateStatus(context.Background(), "buyer-1", txID, UpdateStatusInput{
		PaymentStatus: entity.PaymentStatusCompleted,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCompleted, transaction.Payment.Status)
	assert.NotNil(t, transaction.Payment.PaidAt)
}

func TestRaiseDisputeOnlyOnce(t *testing.T) {
	uc, _, _, txID := setupTransactionTest(t)
	ctx := context.Background()

	transaction, err := uc.RaiseDispute(ctx, "buyer-1", txID, "Produce arrived spoiled")
	require.NoError(t, err)
	assert.True(t, transaction.Dispute.IsDisputed)
	assert.Equal(t, "open", transaction.Dispute.Status)
	assert.Equal(t, "buyer-1", transaction.Dispute.RaisedBy)

	_, err = uc.RaiseDispute(ctx, "farmer-1", txID, "Counter complaint")
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	// First dispute survives the failed second attempt.
	after, err := uc.GetTransaction(ctx, "buyer-1", txID)
	require.NoError(t, err)
	assert.Equal(t, "Produce arrived spoiled", after.Dispute.Reason)
	assert.Equal(t, "buyer-1", after.Dispute.RaisedBy)
}

func TestFeedbackRequiresDelivery(t *testing.T) {
	uc, _, _, txID := setupTransactionTest(t)

	_, err := uc.AddFeedback(context.Background(), "buyer-1", txID, FeedbackInput{Rating: 5})

	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestFeedbackUpdatesCounterpartyAggregate(t *testing.T) {
	uc, users, _, txID := setupTransactionTest(t)
	ctx := context.Background()

	_, err := uc.UpdateStatus(ctx, "farmer-1", txID, UpdateStatusInput{
		DeliveryStatus: entity.DeliveryStatusDelivered,
	})
	require.NoError(t, err)

	transaction, err := uc.AddFeedback(ctx, "buyer-1", txID, FeedbackInput{Rating: 4, Review: "Good quality"})
	require.NoError(t, err)
	assert.Equal(t, 4, transaction.Feedback.BuyerRating)

	farmer, err := users.GetByID(ctx, "farmer-1")
	require.NoError(t, err)
	assert.Equal(t, 1, farmer.Ratings.TotalRatings)
	assert.Equal(t, 1, farmer.Ratings.Breakdown["4"])
	assert.Equal(t, 4.0, farmer.Ratings.AverageRating)

	// Buyer cannot rate twice; seller still can rate once.
	_, err = uc.AddFeedback(ctx, "buyer-1", txID, FeedbackInput{Rating: 5})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	_, err = uc.AddFeedback(ctx, "farmer-1", txID, FeedbackInput{Rating: 5})
	require.NoError(t, err)

	buyer, err := users.GetByID(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Equal(t, 1, buyer.Ratings.TotalRatings)
	assert.Equal(t, 5.0, buyer.Ratings.AverageRating)
}

func TestAnalyticsAdminOnly(t *testing.T) {
	uc, _, _, _ := setupTransactionTest(t)
	ctx := context.Background()

	_, err := uc.Analytics(ctx, "farmer")
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	stats, err := uc.Analytics(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalTransactions)
	assert.Equal(t, int64(1), stats.PendingTransactions)
	assert.Equal(t, 0.0, stats.TotalRevenue)
}

func TestAnalyticsCountsRevenue(t *testing.T) {
	uc, _, _, txID := setupTransactionTest(t)
	ctx := context.Background()

	_, err := uc.UpdateStatus(ctx, "buyer-1", txID, UpdateStatusInput{
		PaymentStatus: entity.PaymentStatusCompleted,
	})
	require.NoError(t, err)

	stats, err := uc.Analytics(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, stats.TotalRevenue)
}
