package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/warehouse-ops/operations-api/internal/domain"
)

// PurchaseOrderRepository persists purchase orders and serves
// receiving-side searches.
type PurchaseOrderRepository struct {
	collection *mongo.Collection
}

func NewPurchaseOrderRepository(db *mongo.Database) *PurchaseOrderRepository {
	repo := &PurchaseOrderRepository{collection: db.Collection("purchase_orders")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *PurchaseOrderRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "poNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "supplierName", Value: 1}}},
		{Keys: bson.D{{Key: "items.barcode", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *PurchaseOrderRepository) Save(ctx context.Context, po *domain.PurchaseOrder) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"poNumber": po.PONumber}
	update := bson.M{"$set": po}

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save purchase order: %w", err)
	}
	return nil
}

func (r *PurchaseOrderRepository) FindByNumber(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	err := r.collection.FindOne(ctx, bson.M{"poNumber": poNumber}).Decode(&po)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &po, err
}

// SearchOpen finds orders still open for receiving. Completed and
// Cancelled orders never match.
func (r *PurchaseOrderRepository) SearchOpen(ctx context.Context, query domain.POSearchQuery, pagination domain.Pagination) ([]*domain.PurchaseOrder, error) {
	filter := bson.M{
		"status": bson.M{"$in": []domain.PurchaseOrderStatus{
			domain.POStatusNoneReceived,
			domain.POStatusPartiallyReceived,
		}},
	}
	if query.PONumber != "" {
		filter["poNumber"] = query.PONumber
	}
	if query.SupplierName != "" {
		filter["supplierName"] = bson.M{"$regex": query.SupplierName, "$options": "i"}
	}
	if query.Barcode != "" {
		filter["items.barcode"] = query.Barcode
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "poNumber", Value: 1}}).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var orders []*domain.PurchaseOrder
	err = cursor.All(ctx, &orders)
	return orders, err
}
