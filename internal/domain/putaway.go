package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus represents the lifecycle status of a storage order
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusArchived OrderStatus = "archived"
)

// OrderLine represents a single item line within a storage order
type OrderLine struct {
	SKU      string `bson:"sku" json:"sku"`
	Name     string `bson:"name,omitempty" json:"name,omitempty"`
	Barcode  string `bson:"barcode" json:"barcode"`
	Quantity int    `bson:"quantity" json:"quantity"`
}

// PutawayOrder represents a tote-based order to put received items away
// into storage. Orders are created once on submission and immutable
// afterwards.
type PutawayOrder struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID       string             `bson:"orderId" json:"orderId"`
	ToteID        string             `bson:"toteId" json:"toteId"`
	Lines         []OrderLine        `bson:"lines" json:"lines"`
	TotalQuantity int                `bson:"totalQuantity" json:"totalQuantity"`
	Status        OrderStatus        `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	DomainEvents  []DomainEvent      `bson:"-" json:"-"`
}

// ValidateOrderLines checks every line against the per-line quantity
// ceiling and rejects duplicate SKUs. Returns the order's total
// quantity. The order-level ceiling is the aggregate constructor's
// concern, not this function's.
func ValidateOrderLines(lines []OrderLine, lineMax int) (int, error) {
	if len(lines) == 0 {
		return 0, newFieldError("items", "order must contain at least one item")
	}

	total := 0
	skus := make([]string, 0, len(lines))
	for i, line := range lines {
		field := fmt.Sprintf("items[%d]", i)
		if err := ValidateSKU(field+".sku", line.SKU); err != nil {
			return 0, err
		}
		if err := ValidateBarcode(field+".barcode", line.Barcode); err != nil {
			return 0, err
		}
		if err := ValidateQuantity(field+".quantity", line.Quantity, 1, lineMax); err != nil {
			return 0, err
		}
		skus = append(skus, line.SKU)
		total += line.Quantity
	}

	if err := CheckDuplicateSKUs(skus); err != nil {
		return 0, err
	}
	return total, nil
}

// NewPutawayOrder validates the tote and lines and builds a pending
// putaway order. Validation runs line by line and fails on the first
// violation; no partial order is ever produced.
func NewPutawayOrder(orderID, toteID string, lines []OrderLine, now time.Time) (*PutawayOrder, error) {
	if err := ValidateToteID("tote", toteID); err != nil {
		return nil, err
	}

	total, err := ValidateOrderLines(lines, PutawayLineMax)
	if err != nil {
		return nil, err
	}
	if total > PutawayOrderMax {
		return nil, fmt.Errorf("%w: total quantity %d exceeds putaway limit of %d", ErrQuantityExceeded, total, PutawayOrderMax)
	}

	order := &PutawayOrder{
		ID:            primitive.NewObjectID(),
		OrderID:       orderID,
		ToteID:        toteID,
		Lines:         lines,
		TotalQuantity: total,
		Status:        OrderStatusPending,
		CreatedAt:     now,
		DomainEvents:  make([]DomainEvent, 0),
	}

	order.addDomainEvent(&StorageOrderSubmittedEvent{
		OrderID:       orderID,
		OrderType:     "putaway",
		Identifier:    toteID,
		ItemCount:     len(lines),
		TotalQuantity: total,
		SubmittedAt:   now,
	})

	return order, nil
}

// SKUs returns the SKU of every line, in order.
func (o *PutawayOrder) SKUs() []string {
	skus := make([]string, len(o.Lines))
	for i, line := range o.Lines {
		skus[i] = line.SKU
	}
	return skus
}

func (o *PutawayOrder) addDomainEvent(event DomainEvent) {
	o.DomainEvents = append(o.DomainEvents, event)
}

// GetDomainEvents returns all domain events
func (o *PutawayOrder) GetDomainEvents() []DomainEvent {
	return o.DomainEvents
}

// ClearDomainEvents clears all domain events
func (o *PutawayOrder) ClearDomainEvents() {
	o.DomainEvents = make([]DomainEvent, 0)
}
