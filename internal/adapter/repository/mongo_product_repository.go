package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agrilink/internal/domain/entity"
	"agrilink/internal/domain/repository"
	"agrilink/pkg/errors"
	"agrilink/pkg/metrics"
)

type mongoProductRepository struct {
	coll *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) repository.ProductRepository {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}, {Key: "category", Value: "text"}},
		Options: options.Index().SetName("product_search_idx"),
	}
	_, _ = db.Collection("products").Indexes().CreateOne(context.Background(), ix)

	return &mongoProductRepository{
		coll: db.Collection("products"),
	}
}

func (r *mongoProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		product.ID = "PROD-" + uuid.New().String()
	}

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.Revision = 1
	if product.Availability == "" {
		product.Availability = "available"
	}
	if product.Ratings == nil {
		product.Ratings = []entity.ProductRating{}
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	product.IsActive = true

	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return errors.Internal("Failed to create product", err)
	}

	return nil
}

func (r *mongoProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.Internal("Failed to get product", err)
	}
	return &product, nil
}

func (r *mongoProductRepository) List(ctx context.Context, filter repository.ProductFilter, sortBy string, limit, offset int) ([]*entity.Product, int64, error) {
	query := bson.M{"isActive": true, "availability": "available"}

	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Quality != "" {
		query["quality"] = filter.Quality
	}
	if filter.MinPrice > 0 || filter.MaxPrice > 0 {
		price := bson.M{}
		if filter.MinPrice > 0 {
			price["$gte"] = filter.MinPrice
		}
		if filter.MaxPrice > 0 {
			price["$lte"] = filter.MaxPrice
		}
		query["pricePerUnit"] = price
	}
	if filter.Location != "" {
		pattern := primitive.Regex{Pattern: filter.Location, Options: "i"}
		query["$or"] = bson.A{
			bson.M{"location.state": pattern},
			bson.M{"location.district": pattern},
		}
	}
	if filter.Search != "" {
		query["$text"] = bson.M{"$search": filter.Search}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count products", err)
	}

	if sortBy == "" {
		sortBy = "createdAt"
	}
	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list products", err)
	}
	defer cur.Close(ctx)

	products := []*entity.Product{}
	for cur.Next(ctx) {
		var product entity.Product
		if err := cur.Decode(&product); err != nil {
			return nil, 0, errors.Internal("Failed to decode product", err)
		}
		products = append(products, &product)
	}

	return products, total, nil
}

func (r *mongoProductRepository) ListByFarmerID(ctx context.Context, farmerID string) ([]*entity.Product, error) {
	filter := bson.M{"farmerId": farmerID, "isActive": true}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Internal("Failed to list farmer products", err)
	}
	defer cur.Close(ctx)

	products := []*entity.Product{}
	for cur.Next(ctx) {
		var product entity.Product
		if err := cur.Decode(&product); err != nil {
			return nil, errors.Internal("Failed to decode product", err)
		}
		products = append(products, &product)
	}

	return products, nil
}

func (r *mongoProductRepository) Update(ctx context.Context, product *entity.Product) error {
	loadedRevision := product.Revision
	product.Revision++
	product.UpdatedAt = time.Now()

	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": product.ID, "revision": loadedRevision}, product)
	if err != nil {
		product.Revision = loadedRevision
		return errors.Internal("Failed to update product", err)
	}
	if result.MatchedCount == 0 {
		product.Revision = loadedRevision
		count, err := r.coll.CountDocuments(ctx, bson.M{"_id": product.ID})
		if err != nil {
			return errors.Internal("Failed to check product", err)
		}
		if count == 0 {
			return errors.NotFound("Product", nil)
		}
		metrics.SaveConflictsTotal.WithLabelValues("products").Inc()
		return errors.Conflict("Product was modified concurrently")
	}

	return nil
}

// DecrementQuantity uses $inc so concurrent purchases never read-modify-write
// the stock counter.
func (r *mongoProductRepository) DecrementQuantity(ctx context.Context, id string, quantity float64) error {
	update := bson.M{
		"$inc": bson.M{"quantity": -quantity},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return errors.Internal("Failed to decrement product quantity", err)
	}
	if result.MatchedCount == 0 {
		return errors.NotFound("Product", nil)
	}

	return nil
}
