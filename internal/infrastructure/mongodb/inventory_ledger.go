package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/warehouse-ops/operations-api/internal/domain"
	pkgmongo "github.com/warehouse-ops/operations-api/pkg/mongodb"
)

// InventoryLedgerRepository persists (sku, location) on-hand quantities.
// Decrements are guarded by the filter so a quantity can never go
// negative, even under concurrent adjustments.
type InventoryLedgerRepository struct {
	collection *mongo.Collection
}

func NewInventoryLedgerRepository(db *mongo.Database) *InventoryLedgerRepository {
	repo := &InventoryLedgerRepository{collection: db.Collection("inventory_ledger")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *InventoryLedgerRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sku", Value: 1}, {Key: "location", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "location", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *InventoryLedgerRepository) GetItem(ctx context.Context, sku, location string) (*domain.LedgerItem, error) {
	var item domain.LedgerItem
	err := r.collection.FindOne(ctx, bson.M{"sku": sku, "location": location}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &item, err
}

// UpsertQuantity applies a delta atomically. An increment creates the
// record if absent; a decrement matches only records holding enough
// quantity and fails with ErrInsufficientStock otherwise.
func (r *InventoryLedgerRepository) UpsertQuantity(ctx context.Context, sku, location string, delta int) error {
	now := time.Now().UTC()

	if delta >= 0 {
		opts := options.Update().SetUpsert(true)
		filter := bson.M{"sku": sku, "location": location}
		update := bson.M{
			"$inc": bson.M{"quantity": delta},
			"$set": bson.M{"updatedAt": now},
		}
		if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("failed to increment ledger quantity: %w", err)
		}
		return nil
	}

	filter := bson.M{
		"sku":      sku,
		"location": location,
		"quantity": bson.M{"$gte": -delta},
	}
	update := bson.M{
		"$inc": bson.M{"quantity": delta},
		"$set": bson.M{"updatedAt": now},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to decrement ledger quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// AdjustmentAuditRepository persists the immutable audit trail of
// applied adjustments.
type AdjustmentAuditRepository struct {
	collection *mongo.Collection
}

func NewAdjustmentAuditRepository(db *mongo.Database) *AdjustmentAuditRepository {
	repo := &AdjustmentAuditRepository{collection: db.Collection("adjustment_audits")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *AdjustmentAuditRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "operationId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "sku", Value: 1}, {Key: "appliedAt", Value: -1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *AdjustmentAuditRepository) Insert(ctx context.Context, audit *domain.AdjustmentAudit) error {
	if _, err := r.collection.InsertOne(ctx, audit); err != nil {
		return fmt.Errorf("failed to insert adjustment audit: %w", err)
	}
	return nil
}

func (r *AdjustmentAuditRepository) FindByOperationID(ctx context.Context, operationID string) (*domain.AdjustmentAudit, error) {
	var audit domain.AdjustmentAudit
	err := r.collection.FindOne(ctx, bson.M{"operationId": operationID}).Decode(&audit)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &audit, err
}

// Transactor runs functions inside a MongoDB multi-document transaction.
// Requires a replica set deployment.
type Transactor struct {
	client *pkgmongo.Client
}

func NewTransactor(client *pkgmongo.Client) *Transactor {
	return &Transactor{client: client}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.client.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return fn(sessCtx)
	})
}
