package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/warehouse-ops/operations-api/internal/domain"
)

// PutawayOrderRepository persists putaway orders. A partial unique index
// on (toteId, status=pending) makes duplicate submissions lose the race
// at the database rather than in process.
type PutawayOrderRepository struct {
	collection *mongo.Collection
}

func NewPutawayOrderRepository(db *mongo.Database) *PutawayOrderRepository {
	repo := &PutawayOrderRepository{collection: db.Collection("putaway_orders")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *PutawayOrderRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "toteId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.OrderStatusPending}),
		},
		{Keys: bson.D{{Key: "lines.sku", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

// Save inserts a putaway order with all its lines as one document, so
// the whole submission commits or fails as a unit.
func (r *PutawayOrderRepository) Save(ctx context.Context, order *domain.PutawayOrder) error {
	_, err := r.collection.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateIdentifier
	}
	if err != nil {
		return fmt.Errorf("failed to insert putaway order: %w", err)
	}
	return nil
}

func (r *PutawayOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.PutawayOrder, error) {
	var order domain.PutawayOrder
	err := r.collection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &order, err
}

func (r *PutawayOrderRepository) ExistsPendingByTote(ctx context.Context, toteID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"toteId": toteID,
		"status": domain.OrderStatusPending,
	}, options.Count().SetLimit(1))
	return count > 0, err
}

// BulkStorageOrderRepository persists bulk storage orders with the same
// pending-uniqueness scheme keyed on the rack location.
type BulkStorageOrderRepository struct {
	collection *mongo.Collection
}

func NewBulkStorageOrderRepository(db *mongo.Database) *BulkStorageOrderRepository {
	repo := &BulkStorageOrderRepository{collection: db.Collection("bulk_storage_orders")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *BulkStorageOrderRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "location", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.OrderStatusPending}),
		},
		{Keys: bson.D{{Key: "lines.sku", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *BulkStorageOrderRepository) Save(ctx context.Context, order *domain.BulkStorageOrder) error {
	_, err := r.collection.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateIdentifier
	}
	if err != nil {
		return fmt.Errorf("failed to insert bulk storage order: %w", err)
	}
	return nil
}

func (r *BulkStorageOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.BulkStorageOrder, error) {
	var order domain.BulkStorageOrder
	err := r.collection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &order, err
}

func (r *BulkStorageOrderRepository) ExistsPendingByLocation(ctx context.Context, location string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"location": location,
		"status":   domain.OrderStatusPending,
	}, options.Count().SetLimit(1))
	return count > 0, err
}
