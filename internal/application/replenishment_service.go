package application

import (
	"context"
	"fmt"

	"github.com/warehouse-ops/operations-api/internal/domain"
	"github.com/warehouse-ops/operations-api/pkg/errors"
	"github.com/warehouse-ops/operations-api/pkg/logging"
)

// Replenishment response messages, kept stable for picker clients.
const (
	msgPickComplete  = "Data Added; RO Complete"
	msgPickInProcess = "Data Added; RO In Process"
)

// ReplenishmentService implements the application layer for the
// replenishment order lifecycle.
type ReplenishmentService struct {
	repo         domain.ReplenishmentOrderRepository
	stockChecker domain.StockChecker
	publisher    domain.EventPublisher
	clock        domain.Clock
	logger       *logging.Logger
}

// NewReplenishmentService creates a new ReplenishmentService
func NewReplenishmentService(
	repo domain.ReplenishmentOrderRepository,
	stockChecker domain.StockChecker,
	publisher domain.EventPublisher,
	clock domain.Clock,
	logger *logging.Logger,
) *ReplenishmentService {
	return &ReplenishmentService{
		repo:         repo,
		stockChecker: stockChecker,
		publisher:    publisher,
		clock:        clock,
		logger:       logger,
	}
}

// ListActive retrieves all orders not yet completed, Unassigned first.
func (s *ReplenishmentService) ListActive(ctx context.Context, pagination domain.Pagination) ([]*domain.ReplenishmentOrder, error) {
	unassigned, err := s.repo.FindByStatus(ctx, domain.ReplenishmentStatusUnassigned, pagination)
	if err != nil {
		return nil, errors.ErrPersistence("failed to list replenishment orders").Wrap(err)
	}

	inProcess, err := s.repo.FindByStatus(ctx, domain.ReplenishmentStatusInProcess, pagination)
	if err != nil {
		return nil, errors.ErrPersistence("failed to list replenishment orders").Wrap(err)
	}

	return append(unassigned, inProcess...), nil
}

// RetrieveResult reports a retrieved order and whether retrieval
// claimed it.
type RetrieveResult struct {
	Order         *domain.ReplenishmentOrder
	StatusChanged bool
}

// Retrieve fetches an order for a picker. An Unassigned order is
// claimed into In Process on first retrieval; later retrievals are
// read-only.
func (s *ReplenishmentService) Retrieve(ctx context.Context, roID string) (*RetrieveResult, error) {
	order, err := s.findOrder(ctx, roID)
	if err != nil {
		return nil, err
	}

	changed := order.Claim(s.clock.Now())
	if changed {
		if err := s.repo.Save(ctx, order); err != nil {
			s.logger.WithError(err).Error("Failed to save claimed order", "roId", roID)
			return nil, errors.ErrPersistence("failed to update order status").Wrap(err)
		}
		s.publishEvents(ctx, order.GetDomainEvents())
		order.ClearDomainEvents()

		s.logger.Info("Replenishment order claimed", "roId", roID)
	}

	return &RetrieveResult{Order: order, StatusChanged: changed}, nil
}

// RecordPickCommand represents the command to record a pick
type RecordPickCommand struct {
	ROID                  string
	SKU                   string
	RackLocation          string
	QtyPicked             int
	Note                  string
	TestInsufficientStock bool
}

// PickResult reports the order state after a pick
type PickResult struct {
	Order     *domain.ReplenishmentOrder
	Completed bool
	Message   string
}

// RecordPick records a picked quantity against the item addressed by
// (roID, sku, rackLocation) and applies the resulting status
// transitions.
func (s *ReplenishmentService) RecordPick(ctx context.Context, cmd RecordPickCommand) (*PickResult, error) {
	order, err := s.findOrder(ctx, cmd.ROID)
	if err != nil {
		return nil, err
	}

	// Item lookup and completion are checked before the availability
	// hook so a forced stock failure cannot mask them.
	if order.FindItem(cmd.SKU, cmd.RackLocation) == nil {
		return nil, mapPickError(domain.ErrItemNotFound, cmd)
	}
	if order.Status == domain.ReplenishmentStatusCompleted {
		return nil, mapPickError(domain.ErrOrderAlreadyCompleted, cmd)
	}

	checker := s.stockChecker
	if cmd.TestInsufficientStock {
		checker = domain.ForcedUnavailableChecker{}
	}
	ok, err := checker.HasSufficientStock(ctx, cmd.SKU, cmd.RackLocation, cmd.QtyPicked)
	if err != nil {
		return nil, errors.ErrPersistence("failed to check stock availability").Wrap(err)
	}
	if !ok {
		return nil, errors.ErrBusinessRule(fmt.Sprintf("insufficient stock for sku %s at %s", cmd.SKU, cmd.RackLocation)).
			WithDetail("sku", cmd.SKU)
	}

	completed, err := order.RecordPick(cmd.SKU, cmd.RackLocation, cmd.QtyPicked, cmd.Note, s.clock.Now())
	if err != nil {
		return nil, mapPickError(err, cmd)
	}

	if err := s.repo.Save(ctx, order); err != nil {
		s.logger.WithError(err).Error("Failed to save pick", "roId", cmd.ROID, "sku", cmd.SKU)
		return nil, errors.ErrPersistence("failed to save pick").Wrap(err)
	}

	s.publishEvents(ctx, order.GetDomainEvents())
	order.ClearDomainEvents()

	message := msgPickInProcess
	if completed {
		message = msgPickComplete
	}

	s.logger.Info("Pick recorded",
		"roId", cmd.ROID,
		"sku", cmd.SKU,
		"rackLocation", cmd.RackLocation,
		"qtyPicked", cmd.QtyPicked,
		"orderComplete", completed,
	)

	return &PickResult{Order: order, Completed: completed, Message: message}, nil
}

// CancelPicking resets every pick on an In Process order and returns it
// to Unassigned.
func (s *ReplenishmentService) CancelPicking(ctx context.Context, roID string) (*domain.ReplenishmentOrder, error) {
	order, err := s.findOrder(ctx, roID)
	if err != nil {
		return nil, err
	}

	if err := order.CancelPicking(s.clock.Now()); err != nil {
		return nil, errors.ErrBusinessRule(fmt.Sprintf("order %s is not in process; picking cannot be cancelled", roID)).Wrap(err)
	}

	if err := s.repo.Save(ctx, order); err != nil {
		s.logger.WithError(err).Error("Failed to save cancelled order", "roId", roID)
		return nil, errors.ErrPersistence("failed to cancel picking").Wrap(err)
	}

	s.publishEvents(ctx, order.GetDomainEvents())
	order.ClearDomainEvents()

	s.logger.Info("Picking cancelled", "roId", roID)
	return order, nil
}

// CompleteResult reports the outcome of a completion attempt
type CompleteResult struct {
	Order       *domain.ReplenishmentOrder
	Completed   bool
	PickedItems int
	TotalItems  int
	Message     string
}

// Complete finishes an order. Completing an already-completed order is
// a no-op success. An order with unpicked items is left untouched and
// reported as a warning rather than an error.
func (s *ReplenishmentService) Complete(ctx context.Context, roID string) (*CompleteResult, error) {
	order, err := s.findOrder(ctx, roID)
	if err != nil {
		return nil, err
	}

	result := order.Complete(s.clock.Now())

	switch {
	case result.AlreadyComplete:
		return &CompleteResult{
			Order:       order,
			Completed:   true,
			PickedItems: result.PickedItems,
			TotalItems:  result.TotalItems,
			Message:     fmt.Sprintf("RO %s is already completed", roID),
		}, nil
	case !result.Completed:
		return &CompleteResult{
			Order:       order,
			Completed:   false,
			PickedItems: result.PickedItems,
			TotalItems:  result.TotalItems,
			Message:     fmt.Sprintf("Cannot complete RO %s: only %d of %d items picked", roID, result.PickedItems, result.TotalItems),
		}, nil
	}

	if err := s.repo.Save(ctx, order); err != nil {
		s.logger.WithError(err).Error("Failed to save completed order", "roId", roID)
		return nil, errors.ErrPersistence("failed to complete order").Wrap(err)
	}

	s.publishEvents(ctx, order.GetDomainEvents())
	order.ClearDomainEvents()

	s.logger.Info("Replenishment order completed", "roId", roID)
	return &CompleteResult{
		Order:       order,
		Completed:   true,
		PickedItems: result.PickedItems,
		TotalItems:  result.TotalItems,
		Message:     fmt.Sprintf("RO %s completed", roID),
	}, nil
}

func (s *ReplenishmentService) findOrder(ctx context.Context, roID string) (*domain.ReplenishmentOrder, error) {
	order, err := s.repo.FindByROID(ctx, roID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to find replenishment order", "roId", roID)
		return nil, errors.ErrPersistence("failed to find replenishment order").Wrap(err)
	}
	if order == nil {
		return nil, errors.ErrNotFoundWithID("replenishment order", roID)
	}
	return order, nil
}

func (s *ReplenishmentService) publishEvents(ctx context.Context, events []domain.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.PublishAll(ctx, events); err != nil {
		s.logger.WithError(err).Warn("Failed to publish replenishment events")
	}
}

func mapPickError(err error, cmd RecordPickCommand) *errors.AppError {
	switch {
	case err == domain.ErrOrderAlreadyCompleted:
		return errors.ErrBusinessRule(fmt.Sprintf("order %s is already completed; picks are rejected", cmd.ROID)).Wrap(err)
	case err == domain.ErrItemNotFound:
		return errors.ErrNotFound(fmt.Sprintf("item %s at %s on order %s", cmd.SKU, cmd.RackLocation, cmd.ROID)).Wrap(err)
	default:
		return mapOrderError(err)
	}
}
