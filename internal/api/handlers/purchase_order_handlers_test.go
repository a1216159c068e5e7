package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/warehouse-ops/operations-api/internal/application"
	"github.com/warehouse-ops/operations-api/internal/domain"
	"github.com/warehouse-ops/operations-api/pkg/errors"
)

type mockPurchaseOrderService struct {
	setStatusFn    func(ctx context.Context, cmd application.SetStatusCommand) (*application.SetStatusResult, error)
	findFn         func(ctx context.Context, query application.FindOrdersQuery, pagination domain.Pagination) ([]*domain.PurchaseOrder, error)
	getFn          func(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error)
	checkSKUFn     func(ctx context.Context, poNumber, sku string) (*application.SKUCheckResult, error)
	checkBarcodeFn func(ctx context.Context, poNumber, barcode string) (*application.SKUCheckResult, error)
}

func (m *mockPurchaseOrderService) SetStatus(ctx context.Context, cmd application.SetStatusCommand) (*application.SetStatusResult, error) {
	return m.setStatusFn(ctx, cmd)
}

func (m *mockPurchaseOrderService) Find(ctx context.Context, query application.FindOrdersQuery, pagination domain.Pagination) ([]*domain.PurchaseOrder, error) {
	return m.findFn(ctx, query, pagination)
}

func (m *mockPurchaseOrderService) Get(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	return m.getFn(ctx, poNumber)
}

func (m *mockPurchaseOrderService) CheckSKU(ctx context.Context, poNumber, sku string) (*application.SKUCheckResult, error) {
	return m.checkSKUFn(ctx, poNumber, sku)
}

func (m *mockPurchaseOrderService) CheckBarcode(ctx context.Context, poNumber, barcode string) (*application.SKUCheckResult, error) {
	return m.checkBarcodeFn(ctx, poNumber, barcode)
}

func newPurchaseOrderRouter(service PurchaseOrderService) *gin.Engine {
	return newTestRouter(func(group *gin.RouterGroup) {
		NewPurchaseOrderHandlers(service, handlerLogger()).RegisterRoutes(group)
	})
}

func TestUpdateStatusHandler(t *testing.T) {
	t.Run("status update returns notification outcome", func(t *testing.T) {
		service := &mockPurchaseOrderService{
			setStatusFn: func(ctx context.Context, cmd application.SetStatusCommand) (*application.SetStatusResult, error) {
				assert.Equal(t, "PO-1001", cmd.PONumber)
				assert.Equal(t, "Completed", cmd.Status)
				return &application.SetStatusResult{
					PONumber:     "PO-1001",
					Status:       "Completed",
					Notification: &domain.NotificationResult{Success: true},
				}, nil
			},
		}
		router := newPurchaseOrderRouter(service)

		rec := performRequest(router, http.MethodPost, "/api/v1/update_po_status",
			`{"po_number":"PO-1001","status":"Completed"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":true`)
	})

	t.Run("missing status fails binding", func(t *testing.T) {
		router := newPurchaseOrderRouter(&mockPurchaseOrderService{})

		rec := performRequest(router, http.MethodPost, "/api/v1/update_po_status", `{"po_number":"PO-1001"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown purchase order maps to 404", func(t *testing.T) {
		service := &mockPurchaseOrderService{
			setStatusFn: func(ctx context.Context, cmd application.SetStatusCommand) (*application.SetStatusResult, error) {
				return nil, errors.ErrNotFoundWithID("purchase order", cmd.PONumber)
			},
		}
		router := newPurchaseOrderRouter(service)

		rec := performRequest(router, http.MethodPost, "/api/v1/update_po_status",
			`{"po_number":"PO-404","status":"Completed"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFindOrdersHandler(t *testing.T) {
	t.Run("barcodes are forwarded to the query", func(t *testing.T) {
		service := &mockPurchaseOrderService{
			findFn: func(ctx context.Context, query application.FindOrdersQuery, pagination domain.Pagination) ([]*domain.PurchaseOrder, error) {
				assert.Equal(t, []string{"12345678", "87654321"}, query.Barcodes)
				return []*domain.PurchaseOrder{{PONumber: "PO-1001"}}, nil
			},
		}
		router := newPurchaseOrderRouter(service)

		rec := performRequest(router, http.MethodPost, "/api/v1/find_purchase_order",
			`{"barcodes":["12345678","87654321"]}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total":1`)
	})

	t.Run("malformed barcode fails binding", func(t *testing.T) {
		router := newPurchaseOrderRouter(&mockPurchaseOrderService{})

		rec := performRequest(router, http.MethodPost, "/api/v1/find_purchase_order",
			`{"barcodes":["not-a-barcode"]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetOrderHandler(t *testing.T) {
	t.Run("missing po_number is rejected", func(t *testing.T) {
		router := newPurchaseOrderRouter(&mockPurchaseOrderService{})

		rec := performRequest(router, http.MethodGet, "/api/v1/get_purchase_order", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("order is returned with items", func(t *testing.T) {
		service := &mockPurchaseOrderService{
			getFn: func(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
				return &domain.PurchaseOrder{
					PONumber:     poNumber,
					Status:       domain.POStatusNoneReceived,
					SupplierName: "Acme Supply",
					Items: []domain.PurchaseOrderItem{
						{SKU: "WIDGET-001", Barcode: "12345678", QtyOrdered: 100},
					},
				}, nil
			},
		}
		router := newPurchaseOrderRouter(service)

		rec := performRequest(router, http.MethodGet, "/api/v1/get_purchase_order?po_number=PO-1001", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Acme Supply")
		assert.Contains(t, rec.Body.String(), "WIDGET-001")
	})
}

func TestCheckSKUHandler(t *testing.T) {
	t.Run("sku path", func(t *testing.T) {
		service := &mockPurchaseOrderService{
			checkSKUFn: func(ctx context.Context, poNumber, sku string) (*application.SKUCheckResult, error) {
				return &application.SKUCheckResult{PONumber: poNumber, SKU: sku, OnOrder: true, QtyOrdered: 100}, nil
			},
		}
		router := newPurchaseOrderRouter(service)

		rec := performRequest(router, http.MethodPost, "/api/v1/check_sku_against_po",
			`{"po_number":"PO-1001","sku":"WIDGET-001"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"on_order":true`)
		assert.Contains(t, rec.Body.String(), `"qty_ordered":100`)
	})

	t.Run("barcode path", func(t *testing.T) {
		service := &mockPurchaseOrderService{
			checkBarcodeFn: func(ctx context.Context, poNumber, barcode string) (*application.SKUCheckResult, error) {
				assert.Equal(t, "12345678", barcode)
				return &application.SKUCheckResult{PONumber: poNumber, SKU: "WIDGET-001", OnOrder: true}, nil
			},
		}
		router := newPurchaseOrderRouter(service)

		rec := performRequest(router, http.MethodPost, "/api/v1/check_sku_against_po",
			`{"po_number":"PO-1001","barcode":"12345678"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("neither sku nor barcode is rejected", func(t *testing.T) {
		router := newPurchaseOrderRouter(&mockPurchaseOrderService{})

		rec := performRequest(router, http.MethodPost, "/api/v1/check_sku_against_po",
			`{"po_number":"PO-1001"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
