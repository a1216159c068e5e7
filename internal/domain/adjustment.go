package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdjustmentType represents the kind of ad-hoc inventory adjustment
type AdjustmentType string

const (
	AdjustmentAdd      AdjustmentType = "Add"
	AdjustmentRemove   AdjustmentType = "Remove"
	AdjustmentTransfer AdjustmentType = "Transfer"
)

// IsValid checks if the adjustment type is valid
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentAdd, AdjustmentRemove, AdjustmentTransfer:
		return true
	default:
		return false
	}
}

// AdjustmentOperation describes one ad-hoc Add, Remove or Transfer
// request. Operations are not stateful aggregates; each application is
// an atomic ledger mutation plus an immutable audit entry.
type AdjustmentOperation struct {
	Type         AdjustmentType `json:"type"`
	SKU          string         `json:"sku"`
	Quantity     int            `json:"quantity"`
	FromLocation string         `json:"fromLocation,omitempty"`
	ToLocation   string         `json:"toLocation,omitempty"`
	Reason       string         `json:"reason,omitempty"`
}

// Validate checks the operation's shape. Location requirements depend on
// the type: Add needs a destination, Remove needs a source, Transfer
// needs both and they must differ.
func (op *AdjustmentOperation) Validate() error {
	if !op.Type.IsValid() {
		return newFieldError("type", "type must be Add, Remove or Transfer")
	}
	if err := ValidateSKU("sku", op.SKU); err != nil {
		return err
	}
	if err := ValidateQuantity("quantity", op.Quantity, 1, AdjustmentQtyMax); err != nil {
		return err
	}

	switch op.Type {
	case AdjustmentAdd:
		if err := ValidateRackLocation("to_location", op.ToLocation); err != nil {
			return err
		}
	case AdjustmentRemove:
		if err := ValidateRackLocation("from_location", op.FromLocation); err != nil {
			return err
		}
	case AdjustmentTransfer:
		if err := ValidateRackLocation("from_location", op.FromLocation); err != nil {
			return err
		}
		if err := ValidateRackLocation("to_location", op.ToLocation); err != nil {
			return err
		}
		if op.FromLocation == op.ToLocation {
			return newFieldError("to_location", "transfer source and destination must differ")
		}
	}

	return nil
}

// RequiresStockCheck reports whether the operation draws stock from a
// source location and therefore needs an availability check.
func (op *AdjustmentOperation) RequiresStockCheck() bool {
	return op.Type == AdjustmentRemove || op.Type == AdjustmentTransfer
}

// AdjustmentAudit is the immutable record of an applied adjustment.
type AdjustmentAudit struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OperationID  string             `bson:"operationId" json:"operationId"`
	Type         AdjustmentType     `bson:"type" json:"type"`
	SKU          string             `bson:"sku" json:"sku"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	FromLocation string             `bson:"fromLocation,omitempty" json:"fromLocation,omitempty"`
	ToLocation   string             `bson:"toLocation,omitempty" json:"toLocation,omitempty"`
	Reason       string             `bson:"reason,omitempty" json:"reason,omitempty"`
	AppliedAt    time.Time          `bson:"appliedAt" json:"appliedAt"`
}

// NewAdjustmentAudit builds the audit entry for an applied operation.
func NewAdjustmentAudit(operationID string, op *AdjustmentOperation, now time.Time) *AdjustmentAudit {
	return &AdjustmentAudit{
		ID:           primitive.NewObjectID(),
		OperationID:  operationID,
		Type:         op.Type,
		SKU:          op.SKU,
		Quantity:     op.Quantity,
		FromLocation: op.FromLocation,
		ToLocation:   op.ToLocation,
		Reason:       op.Reason,
		AppliedAt:    now,
	}
}
