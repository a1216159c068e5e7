package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BulkStorageOrder represents an order to move large-count stock into a
// fixed rack location. Bulk lines carry a higher per-line ceiling than
// putaway lines and may use the "NA" barcode for unlabelled stock.
type BulkStorageOrder struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID       string             `bson:"orderId" json:"orderId"`
	Location      string             `bson:"location" json:"location"`
	Lines         []OrderLine        `bson:"lines" json:"lines"`
	TotalQuantity int                `bson:"totalQuantity" json:"totalQuantity"`
	Status        OrderStatus        `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	DomainEvents  []DomainEvent      `bson:"-" json:"-"`
}

// NewBulkStorageOrder validates the rack location and lines and builds
// a pending bulk storage order.
func NewBulkStorageOrder(orderID, location string, lines []OrderLine, now time.Time) (*BulkStorageOrder, error) {
	if err := ValidateRackLocation("location", location); err != nil {
		return nil, err
	}

	total, err := ValidateOrderLines(lines, BulkStorageLineMax)
	if err != nil {
		return nil, err
	}
	if total > BulkStorageOrderMax {
		return nil, fmt.Errorf("%w: total quantity %d exceeds bulk storage limit of %d", ErrQuantityExceeded, total, BulkStorageOrderMax)
	}

	order := &BulkStorageOrder{
		ID:            primitive.NewObjectID(),
		OrderID:       orderID,
		Location:      location,
		Lines:         lines,
		TotalQuantity: total,
		Status:        OrderStatusPending,
		CreatedAt:     now,
		DomainEvents:  make([]DomainEvent, 0),
	}

	order.addDomainEvent(&StorageOrderSubmittedEvent{
		OrderID:       orderID,
		OrderType:     "bulk_storage",
		Identifier:    location,
		ItemCount:     len(lines),
		TotalQuantity: total,
		SubmittedAt:   now,
	})

	return order, nil
}

// SKUs returns the SKU of every line, in order.
func (o *BulkStorageOrder) SKUs() []string {
	skus := make([]string, len(o.Lines))
	for i, line := range o.Lines {
		skus[i] = line.SKU
	}
	return skus
}

func (o *BulkStorageOrder) addDomainEvent(event DomainEvent) {
	o.DomainEvents = append(o.DomainEvents, event)
}

// GetDomainEvents returns all domain events
func (o *BulkStorageOrder) GetDomainEvents() []DomainEvent {
	return o.DomainEvents
}

// ClearDomainEvents clears all domain events
func (o *BulkStorageOrder) ClearDomainEvents() {
	o.DomainEvents = make([]DomainEvent, 0)
}
