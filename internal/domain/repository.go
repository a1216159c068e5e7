package domain

import (
	"context"
	"time"
)

// LedgerItem is one persisted (sku, location) on-hand quantity record.
type LedgerItem struct {
	SKU       string    `bson:"sku" json:"sku"`
	Location  string    `bson:"location" json:"location"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// InventoryLedger defines the persisted mapping of (sku, location) to
// on-hand quantity, with atomic increments and decrements.
type InventoryLedger interface {
	// GetItem retrieves the record for a (sku, location) pair.
	// Returns nil when no record exists.
	GetItem(ctx context.Context, sku, location string) (*LedgerItem, error)

	// UpsertQuantity atomically applies a quantity delta to a
	// (sku, location) record, creating it if absent. A decrement that
	// would drive the quantity negative fails with ErrInsufficientStock.
	UpsertQuantity(ctx context.Context, sku, location string, delta int) error
}

// PutawayOrderRepository defines the interface for putaway order persistence
type PutawayOrderRepository interface {
	// Save persists a putaway order with all its lines
	Save(ctx context.Context, order *PutawayOrder) error

	// FindByOrderID retrieves an order by its OrderID
	FindByOrderID(ctx context.Context, orderID string) (*PutawayOrder, error)

	// ExistsPendingByTote reports whether a pending order already
	// occupies the tote
	ExistsPendingByTote(ctx context.Context, toteID string) (bool, error)
}

// BulkStorageOrderRepository defines the interface for bulk storage order persistence
type BulkStorageOrderRepository interface {
	// Save persists a bulk storage order with all its lines
	Save(ctx context.Context, order *BulkStorageOrder) error

	// FindByOrderID retrieves an order by its OrderID
	FindByOrderID(ctx context.Context, orderID string) (*BulkStorageOrder, error)

	// ExistsPendingByLocation reports whether a pending order already
	// occupies the location
	ExistsPendingByLocation(ctx context.Context, location string) (bool, error)
}

// ReplenishmentOrderRepository defines the interface for replenishment order persistence
type ReplenishmentOrderRepository interface {
	// Save persists a replenishment order (upsert)
	Save(ctx context.Context, order *ReplenishmentOrder) error

	// FindByROID retrieves an order by its ROID
	FindByROID(ctx context.Context, roID string) (*ReplenishmentOrder, error)

	// FindByStatus retrieves orders by status
	FindByStatus(ctx context.Context, status ReplenishmentStatus, pagination Pagination) ([]*ReplenishmentOrder, error)
}

// POSearchQuery filters open purchase orders. All fields are optional;
// a barcode match looks inside the order's expected item lines.
type POSearchQuery struct {
	PONumber     string
	SupplierName string
	Barcode      string
}

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// Save persists a purchase order (upsert)
	Save(ctx context.Context, po *PurchaseOrder) error

	// FindByNumber retrieves a purchase order by its PONumber
	FindByNumber(ctx context.Context, poNumber string) (*PurchaseOrder, error)

	// SearchOpen retrieves purchase orders still open for receiving
	// that match the query. Completed and Cancelled orders are excluded.
	SearchOpen(ctx context.Context, query POSearchQuery, pagination Pagination) ([]*PurchaseOrder, error)
}

// AdjustmentAuditRepository defines the interface for adjustment audit persistence
type AdjustmentAuditRepository interface {
	// Insert records an applied adjustment
	Insert(ctx context.Context, audit *AdjustmentAudit) error

	// FindByOperationID retrieves an audit entry by its OperationID
	FindByOperationID(ctx context.Context, operationID string) (*AdjustmentAudit, error)
}

// ProductCatalog defines the interface for product master data lookups
type ProductCatalog interface {
	// SKUExists reports whether a SKU is known to the catalog
	SKUExists(ctx context.Context, sku string) (bool, error)

	// LookupSKUByBarcode resolves a barcode to its SKU. Fails with
	// ErrBarcodeNotFound when the barcode is not registered.
	LookupSKUByBarcode(ctx context.Context, barcode string) (string, error)

	// RegisterBarcode associates a barcode with a SKU
	RegisterBarcode(ctx context.Context, sku, barcode string) error
}

// StockChecker decides whether sufficient stock exists for an operation.
// Implementations range from an always-available stub for order intake
// to a ledger-backed check for adjustments that draw real stock.
type StockChecker interface {
	HasSufficientStock(ctx context.Context, sku, location string, quantity int) (bool, error)
}

// AlwaysAvailableChecker reports stock as available unconditionally.
// Order intake uses it until a real availability feed is wired in.
type AlwaysAvailableChecker struct{}

func (AlwaysAvailableChecker) HasSufficientStock(ctx context.Context, sku, location string, quantity int) (bool, error) {
	return true, nil
}

// LedgerStockChecker checks availability against the persisted ledger
// quantity at the source location.
type LedgerStockChecker struct {
	Ledger InventoryLedger
}

func (c LedgerStockChecker) HasSufficientStock(ctx context.Context, sku, location string, quantity int) (bool, error) {
	item, err := c.Ledger.GetItem(ctx, sku, location)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}
	return item.Quantity >= quantity, nil
}

// ForcedUnavailableChecker reports stock as unavailable unconditionally.
// Requests may opt into it to exercise the insufficient-stock path.
type ForcedUnavailableChecker struct{}

func (ForcedUnavailableChecker) HasSufficientStock(ctx context.Context, sku, location string, quantity int) (bool, error) {
	return false, nil
}

// Transactor runs a function inside a single persistence transaction so
// that paired ledger mutations and audit writes commit or roll back as
// a unit.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NotificationResult reports the outcome of a partner notification.
type NotificationResult struct {
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
}

// PartnerNotifier notifies an external partner system of purchase order
// completion. Best-effort: failures are reported in the result, never
// raised to the caller.
type PartnerNotifier interface {
	NotifyCompleted(ctx context.Context, poNumber string) NotificationResult
}

// Clock provides the current time, injectable for deterministic tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual wall-clock time in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// Pagination represents pagination options
type Pagination struct {
	Page     int64
	PageSize int64
}

// DefaultPagination returns default pagination options
func DefaultPagination() Pagination {
	return Pagination{
		Page:     1,
		PageSize: 20,
	}
}

// Skip returns the number of documents to skip
func (p Pagination) Skip() int64 {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the maximum number of documents to return
func (p Pagination) Limit() int64 {
	return p.PageSize
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish publishes a domain event
	Publish(ctx context.Context, event DomainEvent) error

	// PublishAll publishes multiple domain events
	PublishAll(ctx context.Context, events []DomainEvent) error
}
