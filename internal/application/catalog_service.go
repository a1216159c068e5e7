package application

import (
	"context"

	"github.com/warehouse-ops/operations-api/internal/domain"
	"github.com/warehouse-ops/operations-api/pkg/errors"
	"github.com/warehouse-ops/operations-api/pkg/logging"
)

// CatalogService implements barcode lookup and registration against the
// product catalog.
type CatalogService struct {
	catalog domain.ProductCatalog
	logger  *logging.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(catalog domain.ProductCatalog, logger *logging.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, logger: logger}
}

// BarcodeLookupResult reports a resolved barcode
type BarcodeLookupResult struct {
	Barcode string `json:"barcode"`
	SKU     string `json:"sku"`
}

// LookupBarcode resolves a barcode to its SKU. The NA placeholder marks
// unlabelled stock on order lines and never resolves to a product.
func (s *CatalogService) LookupBarcode(ctx context.Context, barcode string) (*BarcodeLookupResult, error) {
	if barcode == domain.BarcodeNA {
		return nil, errors.ErrNotFoundWithID("barcode", barcode)
	}
	if err := domain.ValidateBarcode("barcode", barcode); err != nil {
		return nil, mapOrderError(err)
	}

	sku, err := s.catalog.LookupSKUByBarcode(ctx, barcode)
	if err == domain.ErrBarcodeNotFound {
		return nil, errors.ErrNotFoundWithID("barcode", barcode)
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to look up barcode", "barcode", barcode)
		return nil, errors.ErrPersistence("failed to look up barcode").Wrap(err)
	}

	return &BarcodeLookupResult{Barcode: barcode, SKU: sku}, nil
}

// RegisterBarcode associates a barcode with an existing SKU. A barcode
// already owned by another product is a conflict.
func (s *CatalogService) RegisterBarcode(ctx context.Context, sku, barcode string) error {
	if err := domain.ValidateSKU("sku", sku); err != nil {
		return mapOrderError(err)
	}
	if barcode == domain.BarcodeNA {
		return errors.ErrValidationField("barcode", "the NA placeholder cannot be registered")
	}
	if err := domain.ValidateBarcode("barcode", barcode); err != nil {
		return mapOrderError(err)
	}

	known, err := s.catalog.SKUExists(ctx, sku)
	if err != nil {
		return errors.ErrPersistence("failed to check sku in catalog").Wrap(err)
	}
	if !known {
		return errors.ErrNotFoundWithID("sku", sku)
	}

	if err := s.catalog.RegisterBarcode(ctx, sku, barcode); err != nil {
		if err == domain.ErrDuplicateIdentifier {
			return errors.ErrConflict("barcode is already registered to another product").Wrap(err)
		}
		s.logger.WithError(err).Error("Failed to register barcode", "sku", sku, "barcode", barcode)
		return errors.ErrPersistence("failed to register barcode").Wrap(err)
	}

	s.logger.Info("Barcode registered", "sku", sku, "barcode", barcode)
	return nil
}
