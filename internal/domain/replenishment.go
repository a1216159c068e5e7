package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReplenishmentStatus represents the status of a replenishment order
type ReplenishmentStatus string

const (
	ReplenishmentStatusUnassigned ReplenishmentStatus = "Unassigned"
	ReplenishmentStatusInProcess  ReplenishmentStatus = "In Process"
	ReplenishmentStatusCompleted  ReplenishmentStatus = "Completed"
)

// IsValid checks if the status is valid
func (s ReplenishmentStatus) IsValid() bool {
	switch s {
	case ReplenishmentStatusUnassigned, ReplenishmentStatusInProcess, ReplenishmentStatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if the status can transition to another status.
// Completed is terminal. InProcess may fall back to Unassigned when
// picking is cancelled. Unassigned may complete directly when a single
// pick satisfies the whole order.
func (s ReplenishmentStatus) CanTransitionTo(target ReplenishmentStatus) bool {
	validTransitions := map[ReplenishmentStatus][]ReplenishmentStatus{
		ReplenishmentStatusUnassigned: {ReplenishmentStatusInProcess, ReplenishmentStatusCompleted},
		ReplenishmentStatusInProcess:  {ReplenishmentStatusCompleted, ReplenishmentStatusUnassigned},
		ReplenishmentStatusCompleted:  {},
	}

	allowedTargets, exists := validTransitions[s]
	if !exists {
		return false
	}

	for _, allowed := range allowedTargets {
		if target == allowed {
			return true
		}
	}
	return false
}

// ReplenishmentItem is one pick line on a replenishment order, addressed
// by the (sku, rackLocation) pair within the order.
type ReplenishmentItem struct {
	ItemID       string `bson:"itemId" json:"itemId"`
	SKU          string `bson:"sku" json:"sku"`
	Description  string `bson:"description,omitempty" json:"description,omitempty"`
	RackLocation string `bson:"rackLocation" json:"rackLocation"`
	QtyRequested int    `bson:"qtyRequested" json:"qtyRequested"`
	QtyPicked    int    `bson:"qtyPicked" json:"qtyPicked"`
	Note         string `bson:"note,omitempty" json:"note,omitempty"`
}

// ReplenishmentOrder represents a task to move stock from bulk storage
// to a picking location.
type ReplenishmentOrder struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ROID         string              `bson:"roId" json:"roId"`
	Status       ReplenishmentStatus `bson:"status" json:"status"`
	Destination  string              `bson:"destination" json:"destination"`
	Items        []ReplenishmentItem `bson:"items" json:"items"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
	DomainEvents []DomainEvent       `bson:"-" json:"-"`
}

// NewReplenishmentOrder creates a replenishment order in the Unassigned
// state. Orders normally arrive from an upstream planning system; this
// constructor backs the seeding and test paths.
func NewReplenishmentOrder(roID, destination string, items []ReplenishmentItem, now time.Time) (*ReplenishmentOrder, error) {
	if roID == "" {
		return nil, newFieldError("ro_id", "ro_id must not be empty")
	}
	if len(items) == 0 {
		return nil, newFieldError("items", "order must contain at least one item")
	}

	for i := range items {
		if err := ValidateSKU("items.sku", items[i].SKU); err != nil {
			return nil, err
		}
		if err := ValidateRackLocation("items.rack_location", items[i].RackLocation); err != nil {
			return nil, err
		}
		if err := ValidateQuantity("items.qty_requested", items[i].QtyRequested, 1, AdjustmentQtyMax); err != nil {
			return nil, err
		}
	}

	return &ReplenishmentOrder{
		ID:           primitive.NewObjectID(),
		ROID:         roID,
		Status:       ReplenishmentStatusUnassigned,
		Destination:  destination,
		Items:        items,
		CreatedAt:    now,
		UpdatedAt:    now,
		DomainEvents: make([]DomainEvent, 0),
	}, nil
}

// FindItem looks up an item by its (sku, rackLocation) composite key.
func (o *ReplenishmentOrder) FindItem(sku, rackLocation string) *ReplenishmentItem {
	for i := range o.Items {
		if o.Items[i].SKU == sku && o.Items[i].RackLocation == rackLocation {
			return &o.Items[i]
		}
	}
	return nil
}

// Claim transitions an Unassigned order to In Process. Called when a
// picker first retrieves the order. Returns true if the status changed.
func (o *ReplenishmentOrder) Claim(now time.Time) bool {
	if o.Status != ReplenishmentStatusUnassigned {
		return false
	}

	o.transition(ReplenishmentStatusInProcess, now)
	return true
}

// RecordPick sets the picked quantity on the item addressed by
// (sku, rackLocation). Picks on a completed order are rejected. The
// order auto-claims into In Process on the first pick and auto-completes
// once every item has a positive picked quantity. Returns whether the
// order is now complete.
func (o *ReplenishmentOrder) RecordPick(sku, rackLocation string, qtyPicked int, note string, now time.Time) (bool, error) {
	if o.Status == ReplenishmentStatusCompleted {
		return false, ErrOrderAlreadyCompleted
	}

	item := o.FindItem(sku, rackLocation)
	if item == nil {
		return false, ErrItemNotFound
	}
	if err := ValidateQuantity("qty_picked", qtyPicked, 0, AdjustmentQtyMax); err != nil {
		return false, err
	}

	item.QtyPicked = qtyPicked
	if note != "" {
		item.Note = note
	}
	o.UpdatedAt = now

	if o.Status == ReplenishmentStatusUnassigned {
		o.transition(ReplenishmentStatusInProcess, now)
	}

	o.addDomainEvent(&ItemPickedEvent{
		ROID:         o.ROID,
		SKU:          sku,
		RackLocation: rackLocation,
		QtyPicked:    qtyPicked,
		PickedAt:     now,
	})

	if o.AllItemsPicked() {
		o.transition(ReplenishmentStatusCompleted, now)
		return true, nil
	}
	return false, nil
}

// CancelPicking resets every item's picked quantity to zero and returns
// the order to Unassigned. Only legal while the order is In Process.
func (o *ReplenishmentOrder) CancelPicking(now time.Time) error {
	if o.Status != ReplenishmentStatusInProcess {
		return ErrInvalidStatusTransition
	}

	for i := range o.Items {
		o.Items[i].QtyPicked = 0
	}
	o.transition(ReplenishmentStatusUnassigned, now)
	return nil
}

// CompletionResult reports the outcome of a Complete call.
type CompletionResult struct {
	Completed       bool
	AlreadyComplete bool
	PickedItems     int
	TotalItems      int
}

// Complete finishes the order. Idempotent on an already-completed order.
// When not every item has been picked the order is left untouched and
// the result reports the picked/total counts so the caller can surface
// a warning instead of an error.
func (o *ReplenishmentOrder) Complete(now time.Time) CompletionResult {
	picked := o.PickedItemCount()
	result := CompletionResult{
		PickedItems: picked,
		TotalItems:  len(o.Items),
	}

	if o.Status == ReplenishmentStatusCompleted {
		result.Completed = true
		result.AlreadyComplete = true
		return result
	}

	if !o.AllItemsPicked() {
		return result
	}

	o.transition(ReplenishmentStatusCompleted, now)
	result.Completed = true
	return result
}

// AllItemsPicked reports whether every item has a positive picked quantity.
func (o *ReplenishmentOrder) AllItemsPicked() bool {
	for i := range o.Items {
		if o.Items[i].QtyPicked <= 0 {
			return false
		}
	}
	return len(o.Items) > 0
}

// PickedItemCount returns the number of items with a positive picked quantity.
func (o *ReplenishmentOrder) PickedItemCount() int {
	count := 0
	for i := range o.Items {
		if o.Items[i].QtyPicked > 0 {
			count++
		}
	}
	return count
}

func (o *ReplenishmentOrder) transition(target ReplenishmentStatus, now time.Time) {
	if !o.Status.CanTransitionTo(target) {
		return
	}

	from := o.Status
	o.Status = target
	o.UpdatedAt = now

	o.addDomainEvent(&ReplenishmentStatusChangedEvent{
		ROID:      o.ROID,
		From:      string(from),
		To:        string(target),
		ChangedAt: now,
	})
}

func (o *ReplenishmentOrder) addDomainEvent(event DomainEvent) {
	o.DomainEvents = append(o.DomainEvents, event)
}

// GetDomainEvents returns all domain events
func (o *ReplenishmentOrder) GetDomainEvents() []DomainEvent {
	return o.DomainEvents
}

// ClearDomainEvents clears all domain events
func (o *ReplenishmentOrder) ClearDomainEvents() {
	o.DomainEvents = make([]DomainEvent, 0)
}
