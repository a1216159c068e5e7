package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustmentOperationValidate(t *testing.T) {
	tests := []struct {
		name        string
		op          AdjustmentOperation
		expectError bool
	}{
		{
			name: "Valid Add",
			op:   AdjustmentOperation{Type: AdjustmentAdd, SKU: "SKU-A", Quantity: 10, ToLocation: "RACK-A1-01"},
		},
		{
			name:        "Add missing to_location",
			op:          AdjustmentOperation{Type: AdjustmentAdd, SKU: "SKU-A", Quantity: 10},
			expectError: true,
		},
		{
			name: "Valid Remove",
			op:   AdjustmentOperation{Type: AdjustmentRemove, SKU: "SKU-A", Quantity: 10, FromLocation: "RACK-A1-01"},
		},
		{
			name:        "Remove missing from_location",
			op:          AdjustmentOperation{Type: AdjustmentRemove, SKU: "SKU-A", Quantity: 10, ToLocation: "RACK-A1-01"},
			expectError: true,
		},
		{
			name: "Valid Transfer",
			op:   AdjustmentOperation{Type: AdjustmentTransfer, SKU: "SKU-A", Quantity: 10, FromLocation: "RACK-A1-01", ToLocation: "RACK-B2-02"},
		},
		{
			name:        "Transfer same source and destination",
			op:          AdjustmentOperation{Type: AdjustmentTransfer, SKU: "SKU-A", Quantity: 10, FromLocation: "RACK-A1-01", ToLocation: "RACK-A1-01"},
			expectError: true,
		},
		{
			name:        "Transfer missing to_location",
			op:          AdjustmentOperation{Type: AdjustmentTransfer, SKU: "SKU-A", Quantity: 10, FromLocation: "RACK-A1-01"},
			expectError: true,
		},
		{
			name:        "Unknown type",
			op:          AdjustmentOperation{Type: "Move", SKU: "SKU-A", Quantity: 10, ToLocation: "RACK-A1-01"},
			expectError: true,
		},
		{
			name:        "Zero quantity",
			op:          AdjustmentOperation{Type: AdjustmentAdd, SKU: "SKU-A", Quantity: 0, ToLocation: "RACK-A1-01"},
			expectError: true,
		},
		{
			name:        "Quantity over limit",
			op:          AdjustmentOperation{Type: AdjustmentAdd, SKU: "SKU-A", Quantity: AdjustmentQtyMax + 1, ToLocation: "RACK-A1-01"},
			expectError: true,
		},
		{
			name:        "Invalid sku",
			op:          AdjustmentOperation{Type: AdjustmentAdd, SKU: "SKU A", Quantity: 10, ToLocation: "RACK-A1-01"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAdjustmentRequiresStockCheck(t *testing.T) {
	assert.False(t, (&AdjustmentOperation{Type: AdjustmentAdd}).RequiresStockCheck())
	assert.True(t, (&AdjustmentOperation{Type: AdjustmentRemove}).RequiresStockCheck())
	assert.True(t, (&AdjustmentOperation{Type: AdjustmentTransfer}).RequiresStockCheck())
}

func TestNewAdjustmentAudit(t *testing.T) {
	op := &AdjustmentOperation{
		Type:         AdjustmentTransfer,
		SKU:          "SKU-A",
		Quantity:     25,
		FromLocation: "RACK-A1-01",
		ToLocation:   "RACK-B2-02",
		Reason:       "cycle count correction",
	}

	audit := NewAdjustmentAudit("ADJ-001", op, testNow)
	assert.Equal(t, "ADJ-001", audit.OperationID)
	assert.Equal(t, AdjustmentTransfer, audit.Type)
	assert.Equal(t, 25, audit.Quantity)
	assert.Equal(t, "RACK-A1-01", audit.FromLocation)
	assert.Equal(t, "RACK-B2-02", audit.ToLocation)
	assert.Equal(t, testNow, audit.AppliedAt)
}

type stubLedger struct {
	items map[string]*LedgerItem
}

func (s *stubLedger) GetItem(ctx context.Context, sku, location string) (*LedgerItem, error) {
	return s.items[sku+"|"+location], nil
}

func (s *stubLedger) UpsertQuantity(ctx context.Context, sku, location string, delta int) error {
	return nil
}

func TestLedgerStockChecker(t *testing.T) {
	ledger := &stubLedger{items: map[string]*LedgerItem{
		"SKU-A|RACK-A1-01": {SKU: "SKU-A", Location: "RACK-A1-01", Quantity: 40},
	}}
	checker := LedgerStockChecker{Ledger: ledger}

	t.Run("Sufficient stock", func(t *testing.T) {
		ok, err := checker.HasSufficientStock(context.Background(), "SKU-A", "RACK-A1-01", 40)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Insufficient stock", func(t *testing.T) {
		ok, err := checker.HasSufficientStock(context.Background(), "SKU-A", "RACK-A1-01", 41)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Unknown location has no stock", func(t *testing.T) {
		ok, err := checker.HasSufficientStock(context.Background(), "SKU-A", "RACK-Z9-99", 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
