package application

import (
	"context"
	"strings"
	"time"

	"github.com/warehouse-ops/operations-api/internal/domain"
	"github.com/warehouse-ops/operations-api/pkg/logging"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fixedClock returns the same instant on every call
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// MockPutawayOrderRepository is an in-memory PutawayOrderRepository
type MockPutawayOrderRepository struct {
	orders  map[string]*domain.PutawayOrder
	saveErr error
}

func NewMockPutawayOrderRepository() *MockPutawayOrderRepository {
	return &MockPutawayOrderRepository{orders: make(map[string]*domain.PutawayOrder)}
}

func (m *MockPutawayOrderRepository) Save(ctx context.Context, order *domain.PutawayOrder) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	for _, existing := range m.orders {
		if existing.ToteID == order.ToteID && existing.Status == domain.OrderStatusPending {
			return domain.ErrDuplicateIdentifier
		}
	}
	m.orders[order.OrderID] = order
	return nil
}

func (m *MockPutawayOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.PutawayOrder, error) {
	return m.orders[orderID], nil
}

func (m *MockPutawayOrderRepository) ExistsPendingByTote(ctx context.Context, toteID string) (bool, error) {
	for _, order := range m.orders {
		if order.ToteID == toteID && order.Status == domain.OrderStatusPending {
			return true, nil
		}
	}
	return false, nil
}

// MockBulkStorageOrderRepository is an in-memory BulkStorageOrderRepository
type MockBulkStorageOrderRepository struct {
	orders map[string]*domain.BulkStorageOrder
}

func NewMockBulkStorageOrderRepository() *MockBulkStorageOrderRepository {
	return &MockBulkStorageOrderRepository{orders: make(map[string]*domain.BulkStorageOrder)}
}

func (m *MockBulkStorageOrderRepository) Save(ctx context.Context, order *domain.BulkStorageOrder) error {
	m.orders[order.OrderID] = order
	return nil
}

func (m *MockBulkStorageOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.BulkStorageOrder, error) {
	return m.orders[orderID], nil
}

func (m *MockBulkStorageOrderRepository) ExistsPendingByLocation(ctx context.Context, location string) (bool, error) {
	for _, order := range m.orders {
		if order.Location == location && order.Status == domain.OrderStatusPending {
			return true, nil
		}
	}
	return false, nil
}

// MockReplenishmentOrderRepository is an in-memory ReplenishmentOrderRepository
type MockReplenishmentOrderRepository struct {
	orders map[string]*domain.ReplenishmentOrder
}

func NewMockReplenishmentOrderRepository() *MockReplenishmentOrderRepository {
	return &MockReplenishmentOrderRepository{orders: make(map[string]*domain.ReplenishmentOrder)}
}

func (m *MockReplenishmentOrderRepository) Save(ctx context.Context, order *domain.ReplenishmentOrder) error {
	m.orders[order.ROID] = order
	return nil
}

func (m *MockReplenishmentOrderRepository) FindByROID(ctx context.Context, roID string) (*domain.ReplenishmentOrder, error) {
	return m.orders[roID], nil
}

func (m *MockReplenishmentOrderRepository) FindByStatus(ctx context.Context, status domain.ReplenishmentStatus, pagination domain.Pagination) ([]*domain.ReplenishmentOrder, error) {
	var result []*domain.ReplenishmentOrder
	for _, order := range m.orders {
		if order.Status == status {
			result = append(result, order)
		}
	}
	return result, nil
}

// MockPurchaseOrderRepository is an in-memory PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	orders map[string]*domain.PurchaseOrder
}

func NewMockPurchaseOrderRepository() *MockPurchaseOrderRepository {
	return &MockPurchaseOrderRepository{orders: make(map[string]*domain.PurchaseOrder)}
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, po *domain.PurchaseOrder) error {
	m.orders[po.PONumber] = po
	return nil
}

func (m *MockPurchaseOrderRepository) FindByNumber(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	return m.orders[poNumber], nil
}

func (m *MockPurchaseOrderRepository) SearchOpen(ctx context.Context, query domain.POSearchQuery, pagination domain.Pagination) ([]*domain.PurchaseOrder, error) {
	var result []*domain.PurchaseOrder
	for _, po := range m.orders {
		if !po.Status.IsOpen() {
			continue
		}
		if query.PONumber != "" && po.PONumber != query.PONumber {
			continue
		}
		if query.SupplierName != "" && !strings.Contains(po.SupplierName, query.SupplierName) {
			continue
		}
		if query.Barcode != "" && po.FindItemByBarcode(query.Barcode) == nil {
			continue
		}
		result = append(result, po)
	}
	return result, nil
}

// MockLedger is an in-memory InventoryLedger keyed by (sku, location)
type MockLedger struct {
	items     map[string]*domain.LedgerItem
	upsertErr error
	mutations int
}

func NewMockLedger() *MockLedger {
	return &MockLedger{items: make(map[string]*domain.LedgerItem)}
}

func ledgerKey(sku, location string) string { return sku + "|" + location }

func (m *MockLedger) GetItem(ctx context.Context, sku, location string) (*domain.LedgerItem, error) {
	return m.items[ledgerKey(sku, location)], nil
}

func (m *MockLedger) UpsertQuantity(ctx context.Context, sku, location string, delta int) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	key := ledgerKey(sku, location)
	item := m.items[key]
	if item == nil {
		item = &domain.LedgerItem{SKU: sku, Location: location}
		m.items[key] = item
	}
	if item.Quantity+delta < 0 {
		return domain.ErrInsufficientStock
	}
	item.Quantity += delta
	m.mutations++
	return nil
}

func (m *MockLedger) SetQuantity(sku, location string, qty int) {
	m.items[ledgerKey(sku, location)] = &domain.LedgerItem{SKU: sku, Location: location, Quantity: qty}
}

// MockAuditRepository is an in-memory AdjustmentAuditRepository
type MockAuditRepository struct {
	audits    []*domain.AdjustmentAudit
	insertErr error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Insert(ctx context.Context, audit *domain.AdjustmentAudit) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.audits = append(m.audits, audit)
	return nil
}

func (m *MockAuditRepository) FindByOperationID(ctx context.Context, operationID string) (*domain.AdjustmentAudit, error) {
	for _, audit := range m.audits {
		if audit.OperationID == operationID {
			return audit, nil
		}
	}
	return nil, nil
}

// MockCatalog is an in-memory ProductCatalog
type MockCatalog struct {
	skus     map[string]bool
	barcodes map[string]string
}

func NewMockCatalog(skus ...string) *MockCatalog {
	c := &MockCatalog{skus: make(map[string]bool), barcodes: make(map[string]string)}
	for _, sku := range skus {
		c.skus[sku] = true
	}
	return c
}

func (m *MockCatalog) SKUExists(ctx context.Context, sku string) (bool, error) {
	return m.skus[sku], nil
}

func (m *MockCatalog) LookupSKUByBarcode(ctx context.Context, barcode string) (string, error) {
	sku, ok := m.barcodes[barcode]
	if !ok {
		return "", domain.ErrBarcodeNotFound
	}
	return sku, nil
}

func (m *MockCatalog) RegisterBarcode(ctx context.Context, sku, barcode string) error {
	if owner, ok := m.barcodes[barcode]; ok && owner != sku {
		return domain.ErrDuplicateIdentifier
	}
	m.barcodes[barcode] = sku
	return nil
}

// MockNotifier records partner notifications
type MockNotifier struct {
	calls   []string
	succeed bool
}

func NewMockNotifier(succeed bool) *MockNotifier {
	return &MockNotifier{succeed: succeed}
}

func (m *MockNotifier) NotifyCompleted(ctx context.Context, poNumber string) domain.NotificationResult {
	m.calls = append(m.calls, poNumber)
	result := domain.NotificationResult{Success: m.succeed, Timestamp: fixedNow}
	if !m.succeed {
		result.Message = "partner endpoint unreachable"
	}
	return result
}

// MockPublisher records published events
type MockPublisher struct {
	events []domain.DomainEvent
}

func (m *MockPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	m.events = append(m.events, event)
	return nil
}

func (m *MockPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	m.events = append(m.events, events...)
	return nil
}

// noopTransactor runs the function directly without a real transaction
type noopTransactor struct{}

func (noopTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testLogger() *logging.Logger {
	return logging.New(logging.DefaultConfig("test"))
}
