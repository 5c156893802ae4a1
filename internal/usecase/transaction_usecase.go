package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"agrilink/internal/domain/entity"
	"agrilink/internal/domain/repository"
	"agrilink/pkg/errors"
	"agrilink/pkg/metrics"
)

type TransactionUseCase struct {
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductRepository
	userRepo        repository.UserRepository
}

func NewTransactionUseCase(
	transactionRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) *TransactionUseCase {
	return &TransactionUseCase{
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
		userRepo:        userRepo,
	}
}

type CreateTransactionInput struct {
	Type          string
	SellerID      string
	ProductID     string
	AuctionID     string
	OrderDetails  entity.OrderDetails
	PaymentMethod string
	GSTAmount     float64
}

type UpdateStatusInput struct {
	DeliveryStatus  string
	PaymentStatus   string
	TrackingID      string
	DeliveryPartner string
	EstimatedDate   *time.Time
	Note            string
}

type FeedbackInput struct {
	Rating int
	Review string
}

// CreateTransaction opens an order between buyer and seller. Direct purchases
// decrement the product's stock atomically at creation time.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, buyerID string, input CreateTransactionInput) (*entity.Transaction, error) {
	if input.SellerID == buyerID {
		return nil, errors.Validation("Buyer and seller must be different users", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, input.SellerID); err != nil {
		log.Printf("CreateTransaction Error: Seller %s not found: %v", input.SellerID, err)
		return nil, err
	}

	if input.Type == entity.TransactionTypeDirectPurchase && input.ProductID != "" {
		product, err := uc.productRepo.GetByID(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Quantity < input.OrderDetails.Quantity {
			return nil, errors.Validation("Insufficient product quantity", nil)
		}
		if err := uc.productRepo.DecrementQuantity(ctx, input.ProductID, input.OrderDetails.Quantity); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	transaction := &entity.Transaction{
		Type:         input.Type,
		BuyerID:      buyerID,
		SellerID:     input.SellerID,
		ProductID:    input.ProductID,
		AuctionID:    input.AuctionID,
		OrderDetails: input.OrderDetails,
		Payment: entity.Payment{
			Method: input.PaymentMethod,
			Status: entity.PaymentStatusPending,
		},
		Delivery: entity.Delivery{
			Status: entity.DeliveryStatusPending,
		},
		Invoice: entity.Invoice{
			InvoiceNumber: fmt.Sprintf("INV-%d", now.UnixMilli()),
			GSTAmount:     input.GSTAmount,
			FinalAmount:   input.OrderDetails.TotalAmount + input.GSTAmount,
		},
	}

	if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
		log.Printf("CreateTransaction Error: Failed to create transaction: %v", err)
		return nil, err
	}

	metrics.TransactionsCreatedTotal.WithLabelValues(transaction.Type).Inc()
	return transaction, nil
}

func (uc *TransactionUseCase) GetTransaction(ctx context.Context, viewerID, id string) (*entity.Transaction, error) {
	transaction, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transaction.IsParty(viewerID) {
		return nil, errors.Forbidden("You are not a party to this transaction", nil)
	}

	return transaction, nil
}

func (uc *TransactionUseCase) ListTransactions(ctx context.Context, userID, txType, deliveryStatus string, limit, offset int) ([]*entity.Transaction, int64, error) {
	return uc.transactionRepo.ListByUserID(ctx, userID, txType, deliveryStatus, limit, offset)
}

// UpdateStatus advances the delivery and payment state of a transaction.
// Delivery changes are restricted to the seller; payment changes are open to
// either party.
func (uc *TransactionUseCase) UpdateStatus(ctx context.Context, actorID, id string, input UpdateStatusInput) (*entity.Transaction, error) {
	return uc.mutate(ctx, actorID, id, func(t *entity.Transaction) error {
		if input.DeliveryStatus != "" {
			if t.SellerID != actorID {
				return errors.Forbidden("Only the seller can update delivery status", nil)
			}
			t.Delivery.Status = input.DeliveryStatus
			if input.DeliveryStatus == entity.DeliveryStatusDelivered {
				now := time.Now()
				t.Delivery.ActualDate = &now
			}
		}
		if input.TrackingID != "" {
			t.Delivery.TrackingID = input.TrackingID
		}
		if input.DeliveryPartner != "" {
			t.Delivery.DeliveryPartner = input.DeliveryPartner
		}
		if input.EstimatedDate != nil {
			t.Delivery.EstimatedDate = input.EstimatedDate
		}

		if input.PaymentStatus != "" {
			t.Payment.Status = input.PaymentStatus
			if input.PaymentStatus == entity.PaymentStatusCompleted && t.Payment.PaidAt == nil {
				now := time.Now()
				t.Payment.PaidAt = &now
			}
		}

		note := input.Note
		if note == "" {
			note = "Status updated"
		}
		t.Communication = append(t.Communication, entity.CommunicationEntry{
			SenderID:  actorID,
			Message:   note,
			Timestamp: time.Now(),
			Type:      "status-update",
		})
		return nil
	})
}

func (uc *TransactionUseCase) AddCommunication(ctx context.Context, actorID, id, message string) (*entity.Transaction, error) {
	if message == "" {
		return nil, errors.Validation("Message is required", nil)
	}

	return uc.mutate(ctx, actorID, id, func(t *entity.Transaction) error {
		t.Communication = append(t.Communication, entity.CommunicationEntry{
			SenderID:  actorID,
			Message:   message,
			Timestamp: time.Now(),
			Type:      "message",
		})
		return nil
	})
}

// RaiseDispute flags the transaction. Only one dispute per transaction; a
// second attempt fails and leaves the first untouched.
func (uc *TransactionUseCase) RaiseDispute(ctx context.Context, actorID, id, reason string) (*entity.Transaction, error) {
	if reason == "" {
		return nil, errors.Validation("Dispute reason is required", nil)
	}

	transaction, err := uc.mutate(ctx, actorID, id, func(t *entity.Transaction) error {
		if t.Dispute.IsDisputed {
			return errors.Validation("A dispute has already been raised for this transaction", nil)
		}

		now := time.Now()
		t.Dispute = entity.Dispute{
			IsDisputed: true,
			Reason:     reason,
			RaisedBy:   actorID,
			RaisedAt:   &now,
			Status:     "open",
		}
		t.Communication = append(t.Communication, entity.CommunicationEntry{
			SenderID:  actorID,
			Message:   "Dispute raised: " + reason,
			Timestamp: now,
			Type:      "system",
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DisputesRaisedTotal.Inc()
	return transaction, nil
}

// AddFeedback records a post-delivery rating. The buyer's rating lands on the
// seller's profile aggregate and vice versa. Each side can rate once.
func (uc *TransactionUseCase) AddFeedback(ctx context.Context, actorID, id string, input FeedbackInput) (*entity.Transaction, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.Validation("Rating must be between 1 and 5", nil)
	}

	transaction, err := uc.mutate(ctx, actorID, id, func(t *entity.Transaction) error {
		if t.Delivery.Status != entity.DeliveryStatusDelivered {
			return errors.Validation("Feedback can only be given after delivery", nil)
		}

		if t.BuyerID == actorID {
			if t.Feedback.BuyerRating != 0 {
				return errors.Validation("You have already submitted feedback", nil)
			}
			t.Feedback.BuyerRating = input.Rating
			t.Feedback.BuyerReview = input.Review
		} else {
			if t.Feedback.SellerRating != 0 {
				return errors.Validation("You have already submitted feedback", nil)
			}
			t.Feedback.SellerRating = input.Rating
			t.Feedback.SellerReview = input.Review
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	counterpartyID := transaction.Counterparty(actorID)
	counterparty, err := uc.userRepo.GetByID(ctx, counterpartyID)
	if err != nil {
		log.Printf("AddFeedback Error: Counterparty %s not found: %v", counterpartyID, err)
		return transaction, nil
	}

	counterparty.ApplyRating(input.Rating)
	if err := uc.userRepo.Update(ctx, counterparty); err != nil {
		log.Printf("AddFeedback Error: Failed to update counterparty rating: %v", err)
	}

	return transaction, nil
}

// Analytics returns the platform-wide transaction overview. Admin only.
func (uc *TransactionUseCase) Analytics(ctx context.Context, role string) (*repository.TransactionStats, error) {
	if role != "admin" {
		return nil, errors.Forbidden("Analytics are restricted to administrators", nil)
	}
	return uc.transactionRepo.Stats(ctx)
}

func (uc *TransactionUseCase) mutate(ctx context.Context, actorID, id string, fn func(*entity.Transaction) error) (*entity.Transaction, error) {
	var transaction *entity.Transaction
	var err error

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		transaction, err = uc.transactionRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if !transaction.IsParty(actorID) {
			return nil, errors.Forbidden("You are not a party to this transaction", nil)
		}

		if err = fn(transaction); err != nil {
			return nil, err
		}

		err = uc.transactionRepo.Update(ctx, transaction)
		if err == nil {
			return transaction, nil
		}
		if !errors.Is(err, "CONFLICT") {
			return nil, err
		}

		log.Printf("TransactionUseCase: Conflict on transaction %s, retrying (%d/%d)", id, attempt+1, maxSaveAttempts)
	}

	return nil, err
}
