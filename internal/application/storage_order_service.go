package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/warehouse-ops/operations-api/internal/domain"
	"github.com/warehouse-ops/operations-api/pkg/errors"
	"github.com/warehouse-ops/operations-api/pkg/logging"
)

// OrderLineInput is one submitted item line
type OrderLineInput struct {
	SKU      string
	Name     string
	Barcode  string
	Quantity int
}

// SubmitResult is the outcome of a successful order submission
type SubmitResult struct {
	OrderID        string `json:"order_id"`
	ItemsProcessed int    `json:"items_processed"`
	TotalQuantity  int    `json:"total_quantity"`
}

// StorageOrderService implements the application layer for putaway and
// bulk storage order intake.
type StorageOrderService struct {
	putawayRepo  domain.PutawayOrderRepository
	bulkRepo     domain.BulkStorageOrderRepository
	stockChecker domain.StockChecker
	publisher    domain.EventPublisher
	clock        domain.Clock
	logger       *logging.Logger
}

// NewStorageOrderService creates a new StorageOrderService
func NewStorageOrderService(
	putawayRepo domain.PutawayOrderRepository,
	bulkRepo domain.BulkStorageOrderRepository,
	stockChecker domain.StockChecker,
	publisher domain.EventPublisher,
	clock domain.Clock,
	logger *logging.Logger,
) *StorageOrderService {
	return &StorageOrderService{
		putawayRepo:  putawayRepo,
		bulkRepo:     bulkRepo,
		stockChecker: stockChecker,
		publisher:    publisher,
		clock:        clock,
		logger:       logger,
	}
}

// SubmitPutawayCommand represents the command to submit a putaway order
type SubmitPutawayCommand struct {
	Tote                  string
	Items                 []OrderLineInput
	TestInsufficientStock bool
}

// SubmitPutaway validates and persists a tote-based putaway order.
// Validation, the duplicate-tote check, the quantity ceiling and the
// availability check each gate the submission; no partial order is
// ever written.
func (s *StorageOrderService) SubmitPutaway(ctx context.Context, cmd SubmitPutawayCommand) (*SubmitResult, error) {
	lines := toOrderLines(cmd.Items)
	if err := domain.ValidateToteID("tote", cmd.Tote); err != nil {
		return nil, mapOrderError(err)
	}
	if _, err := domain.ValidateOrderLines(lines, domain.PutawayLineMax); err != nil {
		return nil, mapOrderError(err)
	}

	// Conflict on a pending tote is reported before the order-total
	// ceiling, which the aggregate constructor applies.
	exists, err := s.putawayRepo.ExistsPendingByTote(ctx, cmd.Tote)
	if err != nil {
		s.logger.WithError(err).Error("Failed to check pending orders for tote", "tote", cmd.Tote)
		return nil, errors.ErrPersistence("failed to check pending orders").Wrap(err)
	}
	if exists {
		return nil, errors.ErrConflict(fmt.Sprintf("tote %s already has a pending putaway order", cmd.Tote))
	}

	orderID := fmt.Sprintf("PA-%s", uuid.New().String()[:8])
	order, err := domain.NewPutawayOrder(orderID, cmd.Tote, lines, s.clock.Now())
	if err != nil {
		return nil, mapOrderError(err)
	}

	if err := s.checkAvailability(ctx, cmd.Tote, order.Lines, cmd.TestInsufficientStock); err != nil {
		return nil, err
	}

	if err := s.putawayRepo.Save(ctx, order); err != nil {
		s.logger.WithError(err).Error("Failed to save putaway order", "orderId", orderID)
		return nil, mapSaveError(err)
	}

	s.publishEvents(ctx, order.GetDomainEvents())
	order.ClearDomainEvents()

	s.logger.Info("Putaway order submitted",
		"orderId", order.OrderID,
		"tote", order.ToteID,
		"items", len(order.Lines),
		"totalQuantity", order.TotalQuantity,
	)

	return &SubmitResult{
		OrderID:        order.OrderID,
		ItemsProcessed: len(order.Lines),
		TotalQuantity:  order.TotalQuantity,
	}, nil
}

// SubmitBulkStorageCommand represents the command to submit a bulk storage order
type SubmitBulkStorageCommand struct {
	Location              string
	Items                 []OrderLineInput
	TestInsufficientStock bool
}

// SubmitBulkStorage validates and persists a location-based bulk
// storage order.
func (s *StorageOrderService) SubmitBulkStorage(ctx context.Context, cmd SubmitBulkStorageCommand) (*SubmitResult, error) {
	lines := toOrderLines(cmd.Items)
	if err := domain.ValidateRackLocation("location", cmd.Location); err != nil {
		return nil, mapOrderError(err)
	}
	if _, err := domain.ValidateOrderLines(lines, domain.BulkStorageLineMax); err != nil {
		return nil, mapOrderError(err)
	}

	exists, err := s.bulkRepo.ExistsPendingByLocation(ctx, cmd.Location)
	if err != nil {
		s.logger.WithError(err).Error("Failed to check pending orders for location", "location", cmd.Location)
		return nil, errors.ErrPersistence("failed to check pending orders").Wrap(err)
	}
	if exists {
		return nil, errors.ErrConflict(fmt.Sprintf("location %s already has a pending bulk storage order", cmd.Location))
	}

	orderID := fmt.Sprintf("BS-%s", uuid.New().String()[:8])
	order, err := domain.NewBulkStorageOrder(orderID, cmd.Location, lines, s.clock.Now())
	if err != nil {
		return nil, mapOrderError(err)
	}

	if err := s.checkAvailability(ctx, cmd.Location, order.Lines, cmd.TestInsufficientStock); err != nil {
		return nil, err
	}

	if err := s.bulkRepo.Save(ctx, order); err != nil {
		s.logger.WithError(err).Error("Failed to save bulk storage order", "orderId", orderID)
		return nil, mapSaveError(err)
	}

	s.publishEvents(ctx, order.GetDomainEvents())
	order.ClearDomainEvents()

	s.logger.Info("Bulk storage order submitted",
		"orderId", order.OrderID,
		"location", order.Location,
		"items", len(order.Lines),
		"totalQuantity", order.TotalQuantity,
	)

	return &SubmitResult{
		OrderID:        order.OrderID,
		ItemsProcessed: len(order.Lines),
		TotalQuantity:  order.TotalQuantity,
	}, nil
}

func (s *StorageOrderService) checkAvailability(ctx context.Context, identifier string, lines []domain.OrderLine, forceInsufficient bool) error {
	checker := s.stockChecker
	if forceInsufficient {
		checker = domain.ForcedUnavailableChecker{}
	}

	for _, line := range lines {
		ok, err := checker.HasSufficientStock(ctx, line.SKU, identifier, line.Quantity)
		if err != nil {
			return errors.ErrPersistence("failed to check stock availability").Wrap(err)
		}
		if !ok {
			return errors.ErrBusinessRule(fmt.Sprintf("insufficient stock for sku %s", line.SKU)).
				WithDetail("sku", line.SKU)
		}
	}
	return nil
}

func (s *StorageOrderService) publishEvents(ctx context.Context, events []domain.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.PublishAll(ctx, events); err != nil {
		s.logger.WithError(err).Warn("Failed to publish order events")
	}
}

func toOrderLines(items []OrderLineInput) []domain.OrderLine {
	lines := make([]domain.OrderLine, len(items))
	for i, item := range items {
		lines[i] = domain.OrderLine{
			SKU:      item.SKU,
			Name:     item.Name,
			Barcode:  item.Barcode,
			Quantity: item.Quantity,
		}
	}
	return lines
}
