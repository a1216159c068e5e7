package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/warehouse-ops/operations-api/internal/domain"
)

// ReplenishmentOrderRepository persists replenishment orders with their
// items embedded, so a pick and its status transition write atomically.
type ReplenishmentOrderRepository struct {
	collection *mongo.Collection
}

func NewReplenishmentOrderRepository(db *mongo.Database) *ReplenishmentOrderRepository {
	repo := &ReplenishmentOrderRepository{collection: db.Collection("replenishment_orders")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ReplenishmentOrderRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "roId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "items.sku", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

// Save upserts an order and its items as one document.
func (r *ReplenishmentOrderRepository) Save(ctx context.Context, order *domain.ReplenishmentOrder) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"roId": order.ROID}
	update := bson.M{"$set": order}

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save replenishment order: %w", err)
	}
	return nil
}

func (r *ReplenishmentOrderRepository) FindByROID(ctx context.Context, roID string) (*domain.ReplenishmentOrder, error) {
	var order domain.ReplenishmentOrder
	err := r.collection.FindOne(ctx, bson.M{"roId": roID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &order, err
}

func (r *ReplenishmentOrderRepository) FindByStatus(ctx context.Context, status domain.ReplenishmentStatus, pagination domain.Pagination) ([]*domain.ReplenishmentOrder, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())
	cursor, err := r.collection.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var orders []*domain.ReplenishmentOrder
	err = cursor.All(ctx, &orders)
	return orders, err
}
