package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouse-ops/operations-api/pkg/errors"
)

func createCatalogService() (*CatalogService, *MockCatalog) {
	catalog := NewMockCatalog("WIDGET-001", "GADGET-002")
	_ = catalog.RegisterBarcode(context.Background(), "WIDGET-001", "12345678")
	return NewCatalogService(catalog, testLogger()), catalog
}

func TestCatalogServiceLookupBarcode(t *testing.T) {
	t.Run("known barcode resolves to its sku", func(t *testing.T) {
		service, _ := createCatalogService()

		result, err := service.LookupBarcode(context.Background(), "12345678")
		require.NoError(t, err)
		assert.Equal(t, "WIDGET-001", result.SKU)
		assert.Equal(t, "12345678", result.Barcode)
	})

	t.Run("unknown barcode is not found", func(t *testing.T) {
		service, _ := createCatalogService()

		_, err := service.LookupBarcode(context.Background(), "99999999")
		require.Error(t, err)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeNotFound, appErr.Code)
	})

	t.Run("NA placeholder never resolves", func(t *testing.T) {
		service, _ := createCatalogService()

		_, err := service.LookupBarcode(context.Background(), "NA")
		require.Error(t, err)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeNotFound, appErr.Code)
	})

	t.Run("malformed barcode fails validation", func(t *testing.T) {
		service, _ := createCatalogService()

		_, err := service.LookupBarcode(context.Background(), "12ab")
		require.Error(t, err)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeValidationError, appErr.Code)
	})
}

func TestCatalogServiceRegisterBarcode(t *testing.T) {
	t.Run("registers a barcode against an existing sku", func(t *testing.T) {
		service, catalog := createCatalogService()

		err := service.RegisterBarcode(context.Background(), "GADGET-002", "87654321")
		require.NoError(t, err)

		sku, lookupErr := catalog.LookupSKUByBarcode(context.Background(), "87654321")
		require.NoError(t, lookupErr)
		assert.Equal(t, "GADGET-002", sku)
	})

	t.Run("unknown sku is not found", func(t *testing.T) {
		service, _ := createCatalogService()

		err := service.RegisterBarcode(context.Background(), "GHOST-999", "87654321")
		require.Error(t, err)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeNotFound, appErr.Code)
	})

	t.Run("barcode owned by another product conflicts", func(t *testing.T) {
		service, _ := createCatalogService()

		err := service.RegisterBarcode(context.Background(), "GADGET-002", "12345678")
		require.Error(t, err)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeConflict, appErr.Code)
	})

	t.Run("NA placeholder cannot be registered", func(t *testing.T) {
		service, _ := createCatalogService()

		err := service.RegisterBarcode(context.Background(), "WIDGET-001", "NA")
		require.Error(t, err)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeValidationError, appErr.Code)
	})
}
