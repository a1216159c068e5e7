package domain

import "time"

// DomainEvent represents a domain event interface
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// StorageOrderSubmittedEvent is emitted when a putaway or bulk storage
// order is accepted.
type StorageOrderSubmittedEvent struct {
	OrderID       string    `json:"orderId"`
	OrderType     string    `json:"orderType"`
	Identifier    string    `json:"identifier"`
	ItemCount     int       `json:"itemCount"`
	TotalQuantity int       `json:"totalQuantity"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

func (e *StorageOrderSubmittedEvent) EventType() string     { return "warehouse.order.submitted" }
func (e *StorageOrderSubmittedEvent) OccurredAt() time.Time { return e.SubmittedAt }

// ReplenishmentStatusChangedEvent is emitted on every replenishment
// order status transition.
type ReplenishmentStatusChangedEvent struct {
	ROID      string    `json:"roId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changedAt"`
}

func (e *ReplenishmentStatusChangedEvent) EventType() string {
	return "warehouse.replenishment.status_changed"
}
func (e *ReplenishmentStatusChangedEvent) OccurredAt() time.Time { return e.ChangedAt }

// ItemPickedEvent is emitted when a pick is recorded on a replenishment item
type ItemPickedEvent struct {
	ROID         string    `json:"roId"`
	SKU          string    `json:"sku"`
	RackLocation string    `json:"rackLocation"`
	QtyPicked    int       `json:"qtyPicked"`
	PickedAt     time.Time `json:"pickedAt"`
}

func (e *ItemPickedEvent) EventType() string     { return "warehouse.replenishment.item_picked" }
func (e *ItemPickedEvent) OccurredAt() time.Time { return e.PickedAt }

// PurchaseOrderStatusChangedEvent is emitted when a purchase order status changes
type PurchaseOrderStatusChangedEvent struct {
	PONumber  string    `json:"poNumber"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changedAt"`
}

func (e *PurchaseOrderStatusChangedEvent) EventType() string {
	return "warehouse.purchase_order.status_changed"
}
func (e *PurchaseOrderStatusChangedEvent) OccurredAt() time.Time { return e.ChangedAt }

// InventoryAdjustedEvent is emitted when an ad-hoc adjustment is applied
type InventoryAdjustedEvent struct {
	OperationID  string    `json:"operationId"`
	Type         string    `json:"type"`
	SKU          string    `json:"sku"`
	Quantity     int       `json:"quantity"`
	FromLocation string    `json:"fromLocation,omitempty"`
	ToLocation   string    `json:"toLocation,omitempty"`
	AppliedAt    time.Time `json:"appliedAt"`
}

func (e *InventoryAdjustedEvent) EventType() string     { return "warehouse.inventory.adjusted" }
func (e *InventoryAdjustedEvent) OccurredAt() time.Time { return e.AppliedAt }
