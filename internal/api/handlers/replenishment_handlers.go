package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/warehouse-ops/operations-api/internal/application"
	"github.com/warehouse-ops/operations-api/internal/domain"
	"github.com/warehouse-ops/operations-api/pkg/logging"
	"github.com/warehouse-ops/operations-api/pkg/metrics"
	"github.com/warehouse-ops/operations-api/pkg/middleware"
)

// ReplenishmentService defines the application operations the
// replenishment handlers depend on
type ReplenishmentService interface {
	ListActive(ctx context.Context, pagination domain.Pagination) ([]*domain.ReplenishmentOrder, error)
	Retrieve(ctx context.Context, roID string) (*application.RetrieveResult, error)
	RecordPick(ctx context.Context, cmd application.RecordPickCommand) (*application.PickResult, error)
	CancelPicking(ctx context.Context, roID string) (*domain.ReplenishmentOrder, error)
	Complete(ctx context.Context, roID string) (*application.CompleteResult, error)
}

// ReplenishmentHandlers contains handlers for replenishment order
// picking operations
type ReplenishmentHandlers struct {
	service ReplenishmentService
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// NewReplenishmentHandlers creates a new ReplenishmentHandlers
func NewReplenishmentHandlers(service ReplenishmentService, m *metrics.Metrics, logger *logging.Logger) *ReplenishmentHandlers {
	return &ReplenishmentHandlers{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// RegisterRoutes registers replenishment routes on the router
func (h *ReplenishmentHandlers) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ro_get_orders", h.ListOrders)
	router.POST("/ro_retrieve_order", h.RetrieveOrder)
	router.POST("/ro_item_picked", h.ItemPicked)
	router.POST("/ro_pick_cancelled", h.PickCancelled)
	router.POST("/ro_complete", h.CompleteOrder)
}

// orderSummary is the list-view projection of a replenishment order
type orderSummary struct {
	ROID        string    `json:"ro_id"`
	Status      string    `json:"status"`
	Destination string    `json:"destination"`
	ItemCount   int       `json:"item_count"`
	SKUCount    int       `json:"sku_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func toSummary(order *domain.ReplenishmentOrder) orderSummary {
	skus := make(map[string]struct{}, len(order.Items))
	for _, item := range order.Items {
		skus[item.SKU] = struct{}{}
	}
	return orderSummary{
		ROID:        order.ROID,
		Status:      string(order.Status),
		Destination: order.Destination,
		ItemCount:   len(order.Items),
		SKUCount:    len(skus),
		CreatedAt:   order.CreatedAt,
	}
}

// ListOrders handles listing orders that are not yet completed
func (h *ReplenishmentHandlers) ListOrders(c *gin.Context) {
	responder := middleware.NewErrorResponder(h.logger.Logger)

	pagination := domain.DefaultPagination()
	if page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64); err == nil && page > 0 {
		pagination.Page = page
	}
	if size, err := strconv.ParseInt(c.DefaultQuery("page_size", "20"), 10, 64); err == nil && size > 0 && size <= 200 {
		pagination.PageSize = size
	}

	orders, err := h.service.ListActive(c.Request.Context(), pagination)
	if err != nil {
		responder.RespondWithError(c, err)
		return
	}

	summaries := make([]orderSummary, len(orders))
	for i, order := range orders {
		summaries[i] = toSummary(order)
	}

	c.JSON(http.StatusOK, gin.H{"orders": summaries, "total": len(summaries)})
}

// RetrieveOrder handles a picker retrieving an order, claiming it when
// it is still unassigned
func (h *ReplenishmentHandlers) RetrieveOrder(c *gin.Context) {
	responder := middleware.NewErrorResponder(h.logger.Logger)

	var req struct {
		ROID string `json:"ro_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"ro.id": req.ROID,
	})

	result, err := h.service.Retrieve(c.Request.Context(), req.ROID)
	if err != nil {
		responder.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":          result.Order,
		"status_changed": result.StatusChanged,
	})
}

// ItemPicked handles recording a picked quantity against an order item
func (h *ReplenishmentHandlers) ItemPicked(c *gin.Context) {
	responder := middleware.NewErrorResponder(h.logger.Logger)

	// qty_picked is a pointer so zero (nothing picked from this slot)
	// passes the required check.
	var req struct {
		ROID                  string `json:"ro_id" binding:"required"`
		SKU                   string `json:"sku" binding:"required,sku"`
		RackLocation          string `json:"rack_location" binding:"required,rack_location"`
		QtyPicked             *int   `json:"qty_picked" binding:"required,min=0"`
		Note                  string `json:"note" binding:"max=500"`
		TestInsufficientStock bool   `json:"test_insufficient_stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"ro.id":      req.ROID,
		"sku":        req.SKU,
		"qty_picked": *req.QtyPicked,
	})

	cmd := application.RecordPickCommand{
		ROID:                  req.ROID,
		SKU:                   req.SKU,
		RackLocation:          req.RackLocation,
		QtyPicked:             *req.QtyPicked,
		Note:                  req.Note,
		TestInsufficientStock: req.TestInsufficientStock,
	}

	result, err := h.service.RecordPick(c.Request.Context(), cmd)
	if err != nil {
		h.metrics.RecordItemPicked(false)
		responder.RespondWithError(c, err)
		return
	}

	h.metrics.RecordItemPicked(true)
	c.JSON(http.StatusOK, gin.H{
		"message":   result.Message,
		"completed": result.Completed,
		"status":    result.Order.Status,
	})
}

// PickCancelled handles cancelling in-process picking, resetting all
// picked quantities
func (h *ReplenishmentHandlers) PickCancelled(c *gin.Context) {
	responder := middleware.NewErrorResponder(h.logger.Logger)

	var req struct {
		ROID string `json:"ro_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"ro.id": req.ROID,
	})

	order, err := h.service.CancelPicking(c.Request.Context(), req.ROID)
	if err != nil {
		responder.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ro_id":  order.ROID,
		"status": order.Status,
	})
}

// CompleteOrder handles explicit completion of an order
func (h *ReplenishmentHandlers) CompleteOrder(c *gin.Context) {
	responder := middleware.NewErrorResponder(h.logger.Logger)

	var req struct {
		ROID string `json:"ro_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"ro.id": req.ROID,
	})

	result, err := h.service.Complete(c.Request.Context(), req.ROID)
	if err != nil {
		responder.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      result.Message,
		"completed":    result.Completed,
		"picked_items": result.PickedItems,
		"total_items":  result.TotalItems,
		"status":       result.Order.Status,
	})
}
