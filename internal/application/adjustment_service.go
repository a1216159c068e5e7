package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/warehouse-ops/operations-api/internal/domain"
	"github.com/warehouse-ops/operations-api/pkg/errors"
	"github.com/warehouse-ops/operations-api/pkg/logging"
)

// AdjustmentService implements the application layer for ad-hoc
// Add/Remove/Transfer inventory adjustments.
type AdjustmentService struct {
	ledger       domain.InventoryLedger
	auditRepo    domain.AdjustmentAuditRepository
	catalog      domain.ProductCatalog
	stockChecker domain.StockChecker
	transactor   domain.Transactor
	publisher    domain.EventPublisher
	clock        domain.Clock
	logger       *logging.Logger
}

// NewAdjustmentService creates a new AdjustmentService
func NewAdjustmentService(
	ledger domain.InventoryLedger,
	auditRepo domain.AdjustmentAuditRepository,
	catalog domain.ProductCatalog,
	stockChecker domain.StockChecker,
	transactor domain.Transactor,
	publisher domain.EventPublisher,
	clock domain.Clock,
	logger *logging.Logger,
) *AdjustmentService {
	return &AdjustmentService{
		ledger:       ledger,
		auditRepo:    auditRepo,
		catalog:      catalog,
		stockChecker: stockChecker,
		transactor:   transactor,
		publisher:    publisher,
		clock:        clock,
		logger:       logger,
	}
}

// ApplyAdjustmentCommand represents the command to apply an adjustment
type ApplyAdjustmentCommand struct {
	Type                  string
	SKU                   string
	Quantity              int
	FromLocation          string
	ToLocation            string
	Reason                string
	TestInsufficientStock bool
}

// AdjustmentResult reports an applied adjustment
type AdjustmentResult struct {
	OperationID string    `json:"operation_id"`
	Type        string    `json:"type"`
	SKU         string    `json:"sku"`
	Quantity    int       `json:"quantity"`
	AppliedAt   time.Time `json:"applied_at"`
}

// Apply validates and applies one ad-hoc adjustment. The ledger
// mutation (both halves of a transfer) and the audit entry commit
// inside a single transaction; a failure after the decrement never
// silently drops the removed quantity.
func (s *AdjustmentService) Apply(ctx context.Context, cmd ApplyAdjustmentCommand) (*AdjustmentResult, error) {
	op := &domain.AdjustmentOperation{
		Type:         domain.AdjustmentType(cmd.Type),
		SKU:          cmd.SKU,
		Quantity:     cmd.Quantity,
		FromLocation: cmd.FromLocation,
		ToLocation:   cmd.ToLocation,
		Reason:       cmd.Reason,
	}

	if err := op.Validate(); err != nil {
		return nil, mapOrderError(err)
	}

	known, err := s.catalog.SKUExists(ctx, op.SKU)
	if err != nil {
		s.logger.WithError(err).Error("Failed to check sku in catalog", "sku", op.SKU)
		return nil, errors.ErrPersistence("failed to check sku in catalog").Wrap(err)
	}
	if !known {
		return nil, errors.ErrNotFoundWithID("sku", op.SKU)
	}

	if op.RequiresStockCheck() {
		checker := s.stockChecker
		if cmd.TestInsufficientStock {
			checker = domain.ForcedUnavailableChecker{}
		}
		ok, err := checker.HasSufficientStock(ctx, op.SKU, op.FromLocation, op.Quantity)
		if err != nil {
			return nil, errors.ErrPersistence("failed to check stock availability").Wrap(err)
		}
		if !ok {
			return nil, errors.ErrBusinessRule(fmt.Sprintf("insufficient stock for sku %s at %s", op.SKU, op.FromLocation)).
				WithDetail("sku", op.SKU).
				WithDetail("location", op.FromLocation)
		}
	}

	operationID := fmt.Sprintf("ADJ-%s", uuid.New().String()[:8])
	now := s.clock.Now()
	audit := domain.NewAdjustmentAudit(operationID, op, now)

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		switch op.Type {
		case domain.AdjustmentAdd:
			if err := s.ledger.UpsertQuantity(txCtx, op.SKU, op.ToLocation, op.Quantity); err != nil {
				return err
			}
		case domain.AdjustmentRemove:
			if err := s.ledger.UpsertQuantity(txCtx, op.SKU, op.FromLocation, -op.Quantity); err != nil {
				return err
			}
		case domain.AdjustmentTransfer:
			if err := s.ledger.UpsertQuantity(txCtx, op.SKU, op.FromLocation, -op.Quantity); err != nil {
				return err
			}
			if err := s.ledger.UpsertQuantity(txCtx, op.SKU, op.ToLocation, op.Quantity); err != nil {
				return err
			}
		}
		return s.auditRepo.Insert(txCtx, audit)
	})
	if err != nil {
		if err == domain.ErrInsufficientStock {
			return nil, errors.ErrBusinessRule(fmt.Sprintf("insufficient stock for sku %s at %s", op.SKU, op.FromLocation)).Wrap(err)
		}
		s.logger.WithError(err).Error("Failed to apply adjustment", "operationId", operationID, "type", op.Type)
		return nil, errors.ErrPersistence("failed to apply adjustment").Wrap(err)
	}

	s.publishAdjusted(ctx, operationID, op, now)

	s.logger.Info("Adjustment applied",
		"operationId", operationID,
		"type", op.Type,
		"sku", op.SKU,
		"quantity", op.Quantity,
	)

	return &AdjustmentResult{
		OperationID: operationID,
		Type:        string(op.Type),
		SKU:         op.SKU,
		Quantity:    op.Quantity,
		AppliedAt:   now,
	}, nil
}

func (s *AdjustmentService) publishAdjusted(ctx context.Context, operationID string, op *domain.AdjustmentOperation, appliedAt time.Time) {
	if s.publisher == nil {
		return
	}
	event := &domain.InventoryAdjustedEvent{
		OperationID:  operationID,
		Type:         string(op.Type),
		SKU:          op.SKU,
		Quantity:     op.Quantity,
		FromLocation: op.FromLocation,
		ToLocation:   op.ToLocation,
		AppliedAt:    appliedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).Warn("Failed to publish adjustment event", "operationId", operationID)
	}
}
