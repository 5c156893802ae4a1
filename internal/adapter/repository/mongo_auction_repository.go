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

type mongoAuctionRepository struct {
	coll *mongo.Collection
}

func NewMongoAuctionRepository(db *mongo.Database) repository.AuctionRepository {
	return &mongoAuctionRepository{
		coll: db.Collection("auctions"),
	}
}

func (r *mongoAuctionRepository) Create(ctx context.Context, auction *entity.Auction) error {
	if auction.ID == "" {
		auction.ID = "AUC-" + uuid.New().String()
	}

	now := time.Now()
	auction.CreatedAt = now
	auction.UpdatedAt = now
	auction.Revision = 1
	if auction.TopBids == nil {
		auction.TopBids = []entity.TopBid{}
	}

	if _, err := r.coll.InsertOne(ctx, auction); err != nil {
		return errors.Internal("Failed to create auction", err)
	}

	return nil
}

func (r *mongoAuctionRepository) GetByID(ctx context.Context, id string) (*entity.Auction, error) {
	var auction entity.Auction
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&auction); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("Auction", err)
		}
		return nil, errors.Internal("Failed to get auction", err)
	}
	return &auction, nil
}

func (r *mongoAuctionRepository) ListActive(ctx context.Context, now string) ([]*entity.Auction, error) {
	// End dates are string-encoded RFC 3339, so lexicographic $gt matches
	// chronological order.
	filter := bson.M{"auctionEndDate": bson.M{"$gt": now}}
	opts := options.Find().SetSort(bson.D{{Key: "auctionEndDate", Value: 1}})

	return r.find(ctx, filter, opts)
}

func (r *mongoAuctionRepository) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Auction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"sellerId": sellerID}, opts)
}

func (r *mongoAuctionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*entity.Auction, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Internal("Failed to list auctions", err)
	}
	defer cur.Close(ctx)

	auctions := []*entity.Auction{}
	for cur.Next(ctx) {
		var auction entity.Auction
		if err := cur.Decode(&auction); err != nil {
			return nil, errors.Internal("Failed to decode auction", err)
		}
		auctions = append(auctions, &auction)
	}

	return auctions, nil
}

// Update replaces the document only when the stored revision still matches
// the one the caller loaded. Concurrent writers lose with CONFLICT instead of
// silently overwriting each other.
func (r *mongoAuctionRepository) Update(ctx context.Context, auction *entity.Auction) error {
	loadedRevision := auction.Revision
	auction.Revision++
	auction.UpdatedAt = time.Now()

	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": auction.ID, "revision": loadedRevision}, auction)
	if err != nil {
		auction.Revision = loadedRevision
		return errors.Internal("Failed to update auction", err)
	}
	if result.MatchedCount == 0 {
		auction.Revision = loadedRevision
		if exists, err := r.exists(ctx, auction.ID); err != nil {
			return err
		} else if !exists {
			return errors.NotFound("Auction", nil)
		}
		metrics.SaveConflictsTotal.WithLabelValues("auctions").Inc()
		return errors.Conflict("Auction was modified concurrently")
	}

	return nil
}

func (r *mongoAuctionRepository) exists(ctx context.Context, id string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, errors.Internal("Failed to check auction", err)
	}
	return count > 0, nil
}

func (r *mongoAuctionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Internal("Failed to delete auction", err)
	}
	if result.DeletedCount == 0 {
		return errors.NotFound("Auction", nil)
	}
	return nil
}
