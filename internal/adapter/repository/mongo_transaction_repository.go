package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agrilink/internal/domain/entity"
	"agrilink/internal/domain/repository"
	"agrilink/pkg/errors"
	"agrilink/pkg/metrics"
)

type mongoTransactionRepository struct {
	coll *mongo.Collection
}

func NewMongoTransactionRepository(db *mongo.Database) repository.TransactionRepository {
	return &mongoTransactionRepository{
		coll: db.Collection("transactions"),
	}
}

func (r *mongoTransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = "TXN-" + uuid.New().String()
	}

	now := time.Now()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now
	transaction.Revision = 1
	if transaction.Communication == nil {
		transaction.Communication = []entity.CommunicationEntry{}
	}

	if _, err := r.coll.InsertOne(ctx, transaction); err != nil {
		return errors.Internal("Failed to create transaction", err)
	}

	return nil
}

func (r *mongoTransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var transaction entity.Transaction
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&transaction); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("Transaction", err)
		}
		return nil, errors.Internal("Failed to get transaction", err)
	}
	return &transaction, nil
}

func (r *mongoTransactionRepository) ListByUserID(ctx context.Context, userID, txType, deliveryStatus string, limit, offset int) ([]*entity.Transaction, int64, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"buyerId": userID},
			bson.M{"sellerId": userID},
		},
	}
	if txType != "" {
		filter["type"] = txType
	}
	if deliveryStatus != "" {
		filter["delivery.status"] = deliveryStatus
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count transactions", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list transactions", err)
	}
	defer cur.Close(ctx)

	transactions := []*entity.Transaction{}
	for cur.Next(ctx) {
		var transaction entity.Transaction
		if err := cur.Decode(&transaction); err != nil {
			return nil, 0, errors.Internal("Failed to decode transaction", err)
		}
		transactions = append(transactions, &transaction)
	}

	return transactions, total, nil
}

func (r *mongoTransactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	loadedRevision := transaction.Revision
	transaction.Revision++
	transaction.UpdatedAt = time.Now()

	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": transaction.ID, "revision": loadedRevision}, transaction)
	if err != nil {
		transaction.Revision = loadedRevision
		return errors.Internal("Failed to update transaction", err)
	}
	if result.MatchedCount == 0 {
		transaction.Revision = loadedRevision
		count, err := r.coll.CountDocuments(ctx, bson.M{"_id": transaction.ID})
		if err != nil {
			return errors.Internal("Failed to check transaction", err)
		}
		if count == 0 {
			return errors.NotFound("Transaction", nil)
		}
		metrics.SaveConflictsTotal.WithLabelValues("transactions").Inc()
		return errors.Conflict("Transaction was modified concurrently")
	}

	return nil
}

func (r *mongoTransactionRepository) Stats(ctx context.Context) (*repository.TransactionStats, error) {
	stats := &repository.TransactionStats{}

	var err error
	if stats.TotalTransactions, err = r.coll.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, errors.Internal("Failed to count transactions", err)
	}
	if stats.CompletedTransactions, err = r.coll.CountDocuments(ctx, bson.M{"delivery.status": entity.DeliveryStatusDelivered}); err != nil {
		return nil, errors.Internal("Failed to count completed transactions", err)
	}
	if stats.PendingTransactions, err = r.coll.CountDocuments(ctx, bson.M{"delivery.status": entity.DeliveryStatusPending}); err != nil {
		return nil, errors.Internal("Failed to count pending transactions", err)
	}
	if stats.DisputedTransactions, err = r.coll.CountDocuments(ctx, bson.M{"dispute.isDisputed": true}); err != nil {
		return nil, errors.Internal("Failed to count disputed transactions", err)
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"payment.status": entity.PaymentStatusCompleted}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalRevenue": bson.M{"$sum": "$orderDetails.totalAmount"},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Internal("Failed to aggregate revenue", err)
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var row struct {
			TotalRevenue float64 `bson:"totalRevenue"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, errors.Internal("Failed to decode revenue", err)
		}
		stats.TotalRevenue = row.TotalRevenue
	}

	return stats, nil
}
