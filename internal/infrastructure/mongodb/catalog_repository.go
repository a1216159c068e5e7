package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/warehouse-ops/operations-api/internal/domain"
)

// productDocument is the persisted shape of a catalog product.
type productDocument struct {
	SKU      string   `bson:"sku"`
	Name     string   `bson:"name,omitempty"`
	Barcodes []string `bson:"barcodes,omitempty"`
}

// CatalogRepository serves product master data lookups.
type CatalogRepository struct {
	collection *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	repo := &CatalogRepository{collection: db.Collection("products")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *CatalogRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "barcodes", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"barcodes": bson.M{"$exists": true}}),
		},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *CatalogRepository) SKUExists(ctx context.Context, sku string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"sku": sku}, options.Count().SetLimit(1))
	return count > 0, err
}

func (r *CatalogRepository) LookupSKUByBarcode(ctx context.Context, barcode string) (string, error) {
	var product productDocument
	err := r.collection.FindOne(ctx, bson.M{"barcodes": barcode}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return "", domain.ErrBarcodeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up barcode: %w", err)
	}
	return product.SKU, nil
}

func (r *CatalogRepository) RegisterBarcode(ctx context.Context, sku, barcode string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"sku": sku},
		bson.M{"$addToSet": bson.M{"barcodes": barcode}},
	)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateIdentifier
	}
	if err != nil {
		return fmt.Errorf("failed to register barcode: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrSKUNotFound
	}
	return nil
}
