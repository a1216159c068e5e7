package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PurchaseOrderStatus represents the receiving status of a purchase order
type PurchaseOrderStatus string

const (
	POStatusNoneReceived      PurchaseOrderStatus = "NoneReceived"
	POStatusPartiallyReceived PurchaseOrderStatus = "PartiallyReceived"
	POStatusCompleted         PurchaseOrderStatus = "Completed"
	POStatusCancelled         PurchaseOrderStatus = "Cancelled"
)

// IsValid checks if the status is valid
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case POStatusNoneReceived, POStatusPartiallyReceived, POStatusCompleted, POStatusCancelled:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the purchase order is still open for receiving.
// Completed and Cancelled orders are excluded from receiving searches.
func (s PurchaseOrderStatus) IsOpen() bool {
	return s == POStatusNoneReceived || s == POStatusPartiallyReceived
}

// PurchaseOrderItem is one expected line on a purchase order.
type PurchaseOrderItem struct {
	SKU         string `bson:"sku" json:"sku"`
	Barcode     string `bson:"barcode" json:"barcode"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	QtyOrdered  int    `bson:"qtyOrdered" json:"qtyOrdered"`
	QtyReceived int    `bson:"qtyReceived" json:"qtyReceived"`
}

// PurchaseOrder tracks a supplier order through receiving. Creation is
// owned by an upstream procurement system; this engine transitions the
// status and serves receiving-side searches.
type PurchaseOrder struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PONumber        string              `bson:"poNumber" json:"poNumber"`
	Status          PurchaseOrderStatus `bson:"status" json:"status"`
	SupplierName    string              `bson:"supplierName" json:"supplierName"`
	OrderDate       *time.Time          `bson:"orderDate,omitempty" json:"orderDate,omitempty"`
	ExpectedDate    *time.Time          `bson:"expectedDate,omitempty" json:"expectedDate,omitempty"`
	ShipToWarehouse string              `bson:"shipToWarehouse" json:"shipToWarehouse"`
	Items           []PurchaseOrderItem `bson:"items" json:"items"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
	DomainEvents    []DomainEvent       `bson:"-" json:"-"`
}

// SetStatus transitions the purchase order to the given status. All
// transitions between the four statuses are permitted; receiving status
// is fully user controlled with no automatic workflow.
func (p *PurchaseOrder) SetStatus(target PurchaseOrderStatus, now time.Time) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}

	from := p.Status
	p.Status = target
	p.UpdatedAt = now

	if from != target {
		p.addDomainEvent(&PurchaseOrderStatusChangedEvent{
			PONumber:  p.PONumber,
			From:      string(from),
			To:        string(target),
			ChangedAt: now,
		})
	}

	return nil
}

// ContainsSKU reports whether the purchase order expects the given SKU.
func (p *PurchaseOrder) ContainsSKU(sku string) bool {
	for i := range p.Items {
		if p.Items[i].SKU == sku {
			return true
		}
	}
	return false
}

// FindItemByBarcode returns the item carrying the given barcode, if any.
func (p *PurchaseOrder) FindItemByBarcode(barcode string) *PurchaseOrderItem {
	for i := range p.Items {
		if p.Items[i].Barcode == barcode {
			return &p.Items[i]
		}
	}
	return nil
}

func (p *PurchaseOrder) addDomainEvent(event DomainEvent) {
	p.DomainEvents = append(p.DomainEvents, event)
}

// GetDomainEvents returns all domain events
func (p *PurchaseOrder) GetDomainEvents() []DomainEvent {
	return p.DomainEvents
}

// ClearDomainEvents clears all domain events
func (p *PurchaseOrder) ClearDomainEvents() {
	p.DomainEvents = make([]DomainEvent, 0)
}
