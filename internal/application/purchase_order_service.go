package application

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/warehouse-ops/operations-api/internal/domain"
	"github.com/warehouse-ops/operations-api/pkg/errors"
	"github.com/warehouse-ops/operations-api/pkg/logging"
)

// PurchaseOrderService implements the application layer for purchase
// order status tracking and receiving-side searches.
type PurchaseOrderService struct {
	repo      domain.PurchaseOrderRepository
	catalog   domain.ProductCatalog
	notifier  domain.PartnerNotifier
	publisher domain.EventPublisher
	clock     domain.Clock
	logger    *logging.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	repo domain.PurchaseOrderRepository,
	catalog domain.ProductCatalog,
	notifier domain.PartnerNotifier,
	publisher domain.EventPublisher,
	clock domain.Clock,
	logger *logging.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		repo:      repo,
		catalog:   catalog,
		notifier:  notifier,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// SetStatusCommand represents the command to update a purchase order status
type SetStatusCommand struct {
	PONumber string
	Status   string
}

// SetStatusResult reports the applied status and, when the order
// completed, the partner notification outcome.
type SetStatusResult struct {
	PONumber     string                     `json:"po_number"`
	Status       string                     `json:"status"`
	Notification *domain.NotificationResult `json:"notification,omitempty"`
}

// SetStatus applies a receiving status to a purchase order. Any of the
// four statuses may be set from any current status. Completion triggers
// a best-effort partner notification whose failure never fails the
// update itself.
func (s *PurchaseOrderService) SetStatus(ctx context.Context, cmd SetStatusCommand) (*SetStatusResult, error) {
	target := domain.PurchaseOrderStatus(cmd.Status)
	if !target.IsValid() {
		return nil, errors.ErrValidationField("status",
			fmt.Sprintf("status must be one of %s, %s, %s, %s",
				domain.POStatusNoneReceived, domain.POStatusPartiallyReceived,
				domain.POStatusCompleted, domain.POStatusCancelled))
	}

	po, err := s.findOrder(ctx, cmd.PONumber)
	if err != nil {
		return nil, err
	}

	if err := po.SetStatus(target, s.clock.Now()); err != nil {
		return nil, errors.ErrValidation("invalid purchase order status").Wrap(err)
	}

	if err := s.repo.Save(ctx, po); err != nil {
		s.logger.WithError(err).Error("Failed to save purchase order", "poNumber", cmd.PONumber)
		return nil, errors.ErrPersistence("failed to update purchase order status").Wrap(err)
	}

	s.publishEvents(ctx, po.GetDomainEvents())
	po.ClearDomainEvents()

	result := &SetStatusResult{
		PONumber: po.PONumber,
		Status:   string(po.Status),
	}

	if target == domain.POStatusCompleted {
		notification := s.notifier.NotifyCompleted(ctx, po.PONumber)
		result.Notification = &notification
		if !notification.Success {
			s.logger.Warn("Partner notification failed",
				"poNumber", po.PONumber,
				"message", notification.Message,
			)
		}
	}

	s.logger.Info("Purchase order status updated",
		"poNumber", po.PONumber,
		"status", po.Status,
	)

	return result, nil
}

// FindOrdersQuery filters open purchase orders. Barcodes are resolved
// to SKUs through the product catalog before matching; an order must
// contain every resolved SKU to match.
type FindOrdersQuery struct {
	PONumber     string
	SupplierName string
	Barcodes     []string
}

// Find retrieves purchase orders still open for receiving that match
// the query. Completed and Cancelled orders never appear. An unknown
// barcode fails the whole search rather than matching nothing.
func (s *PurchaseOrderService) Find(ctx context.Context, query FindOrdersQuery, pagination domain.Pagination) ([]*domain.PurchaseOrder, error) {
	repoQuery := domain.POSearchQuery{
		PONumber:     query.PONumber,
		SupplierName: query.SupplierName,
	}

	skus := make([]string, 0, len(query.Barcodes))
	for _, barcode := range query.Barcodes {
		sku, err := s.resolveBarcode(ctx, barcode)
		if err != nil {
			return nil, err
		}
		skus = append(skus, sku)
	}
	if len(query.Barcodes) == 1 {
		repoQuery.Barcode = query.Barcodes[0]
	}

	orders, err := s.repo.SearchOpen(ctx, repoQuery, pagination)
	if err != nil {
		s.logger.WithError(err).Error("Failed to search purchase orders")
		return nil, errors.ErrPersistence("failed to search purchase orders").Wrap(err)
	}

	if len(skus) > 1 {
		orders = filterContainingAll(orders, skus)
	}
	return orders, nil
}

func filterContainingAll(orders []*domain.PurchaseOrder, skus []string) []*domain.PurchaseOrder {
	matched := make([]*domain.PurchaseOrder, 0, len(orders))
	for _, po := range orders {
		all := true
		for _, sku := range skus {
			if !po.ContainsSKU(sku) {
				all = false
				break
			}
		}
		if all {
			matched = append(matched, po)
		}
	}
	return matched
}

// Get retrieves a single purchase order by number.
func (s *PurchaseOrderService) Get(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	return s.findOrder(ctx, poNumber)
}

// SKUCheckResult reports whether a SKU is expected on a purchase order
type SKUCheckResult struct {
	PONumber   string `json:"po_number"`
	SKU        string `json:"sku"`
	OnOrder    bool   `json:"on_order"`
	QtyOrdered int    `json:"qty_ordered,omitempty"`
}

// CheckSKU reports whether the purchase order expects the given SKU.
func (s *PurchaseOrderService) CheckSKU(ctx context.Context, poNumber, sku string) (*SKUCheckResult, error) {
	if err := domain.ValidateSKU("sku", sku); err != nil {
		return nil, mapOrderError(err)
	}

	po, err := s.findOrder(ctx, poNumber)
	if err != nil {
		return nil, err
	}

	result := &SKUCheckResult{
		PONumber: poNumber,
		SKU:      sku,
		OnOrder:  po.ContainsSKU(sku),
	}
	for _, item := range po.Items {
		if item.SKU == sku {
			result.QtyOrdered = item.QtyOrdered
			break
		}
	}
	return result, nil
}

// CheckBarcode resolves a barcode through the catalog and reports
// whether the purchase order expects the resolved SKU.
func (s *PurchaseOrderService) CheckBarcode(ctx context.Context, poNumber, barcode string) (*SKUCheckResult, error) {
	sku, err := s.resolveBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	return s.CheckSKU(ctx, poNumber, sku)
}

func (s *PurchaseOrderService) resolveBarcode(ctx context.Context, barcode string) (string, error) {
	if err := domain.ValidateBarcode("barcode", barcode); err != nil {
		return "", mapOrderError(err)
	}
	sku, err := s.catalog.LookupSKUByBarcode(ctx, barcode)
	if err != nil {
		if stderrors.Is(err, domain.ErrBarcodeNotFound) {
			return "", errors.ErrNotFoundWithID("barcode", barcode)
		}
		s.logger.WithError(err).Error("Failed to resolve barcode", "barcode", barcode)
		return "", errors.ErrPersistence("failed to resolve barcode").Wrap(err)
	}
	return sku, nil
}

func (s *PurchaseOrderService) findOrder(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	po, err := s.repo.FindByNumber(ctx, poNumber)
	if err != nil {
		s.logger.WithError(err).Error("Failed to find purchase order", "poNumber", poNumber)
		return nil, errors.ErrPersistence("failed to find purchase order").Wrap(err)
	}
	if po == nil {
		return nil, errors.ErrNotFoundWithID("purchase order", poNumber)
	}
	return po, nil
}

func (s *PurchaseOrderService) publishEvents(ctx context.Context, events []domain.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.PublishAll(ctx, events); err != nil {
		s.logger.WithError(err).Warn("Failed to publish purchase order events")
	}
}
