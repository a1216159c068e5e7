package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/warehouse-ops/operations-api/internal/application"
	"github.com/warehouse-ops/operations-api/pkg/logging"
	"github.com/warehouse-ops/operations-api/pkg/metrics"
	"github.com/warehouse-ops/operations-api/pkg/middleware"
)

// OrderLineRequest is one submitted order line
type OrderLineRequest struct {
	SKU      string `json:"sku" binding:"required,sku"`
	Name     string `json:"name" binding:"required,max=255"`
	Barcode  string `json:"barcode" binding:"required,barcode"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// StorageOrderService defines the application operations the storage
// order handlers depend on
type StorageOrderService interface {
	SubmitPutaway(ctx context.Context, cmd application.SubmitPutawayCommand) (*application.SubmitResult, error)
	SubmitBulkStorage(ctx context.Context, cmd application.SubmitBulkStorageCommand) (*application.SubmitResult, error)
}

// StorageOrderHandlers contains handlers for putaway and bulk storage
// order submission
type StorageOrderHandlers struct {
	service StorageOrderService
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// NewStorageOrderHandlers creates a new StorageOrderHandlers
func NewStorageOrderHandlers(service StorageOrderService, m *metrics.Metrics, logger *logging.Logger) *StorageOrderHandlers {
	return &StorageOrderHandlers{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// RegisterRoutes registers storage order routes on the router
func (h *StorageOrderHandlers) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/putaway_order", h.SubmitPutaway)
	router.POST("/bulk_storage_order", h.SubmitBulkStorage)
}

// SubmitPutaway handles tote-based putaway order submission
func (h *StorageOrderHandlers) SubmitPutaway(c *gin.Context) {
	responder := middleware.NewErrorResponder(h.logger.Logger)

	var req struct {
		Tote                  string             `json:"tote" binding:"required,tote"`
		Items                 []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
		TestInsufficientStock bool               `json:"test_insufficient_stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"order.tote":  req.Tote,
		"order.lines": len(req.Items),
	})

	cmd := application.SubmitPutawayCommand{
		Tote:                  req.Tote,
		Items:                 toLineInputs(req.Items),
		TestInsufficientStock: req.TestInsufficientStock,
	}

	result, err := h.service.SubmitPutaway(c.Request.Context(), cmd)
	if err != nil {
		h.metrics.RecordOrderSubmitted("putaway", false)
		responder.RespondWithError(c, err)
		return
	}

	h.metrics.RecordOrderSubmitted("putaway", true)
	c.JSON(http.StatusCreated, result)
}

// SubmitBulkStorage handles location-based bulk storage order submission
func (h *StorageOrderHandlers) SubmitBulkStorage(c *gin.Context) {
	responder := middleware.NewErrorResponder(h.logger.Logger)

	var req struct {
		Location              string             `json:"location" binding:"required,rack_location"`
		Items                 []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
		TestInsufficientStock bool               `json:"test_insufficient_stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"order.location": req.Location,
		"order.lines":    len(req.Items),
	})

	cmd := application.SubmitBulkStorageCommand{
		Location:              req.Location,
		Items:                 toLineInputs(req.Items),
		TestInsufficientStock: req.TestInsufficientStock,
	}

	result, err := h.service.SubmitBulkStorage(c.Request.Context(), cmd)
	if err != nil {
		h.metrics.RecordOrderSubmitted("bulk_storage", false)
		responder.RespondWithError(c, err)
		return
	}

	h.metrics.RecordOrderSubmitted("bulk_storage", true)
	c.JSON(http.StatusCreated, result)
}

func toLineInputs(items []OrderLineRequest) []application.OrderLineInput {
	lines := make([]application.OrderLineInput, len(items))
	for i, item := range items {
		lines[i] = application.OrderLineInput{
			SKU:      item.SKU,
			Name:     item.Name,
			Barcode:  item.Barcode,
			Quantity: item.Quantity,
		}
	}
	return lines
}
