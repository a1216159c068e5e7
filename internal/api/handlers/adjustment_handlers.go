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

// AdjustmentService defines the application operations the adjustment
// handlers depend on
type AdjustmentService interface {
	Apply(ctx context.Context, cmd application.ApplyAdjustmentCommand) (*application.AdjustmentResult, error)
}

// AdjustmentHandlers contains handlers for ad-hoc Add/Remove/Transfer
// inventory adjustments
type AdjustmentHandlers struct {
	service AdjustmentService
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// NewAdjustmentHandlers creates a new AdjustmentHandlers
func NewAdjustmentHandlers(service AdjustmentService, m *metrics.Metrics, logger *logging.Logger) *AdjustmentHandlers {
	return &AdjustmentHandlers{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// RegisterRoutes registers adjustment routes on the router
func (h *AdjustmentHandlers) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/art_order", h.Apply)
}

// Apply handles one Add/Remove/Transfer adjustment
func (h *AdjustmentHandlers) Apply(c *gin.Context) {
	responder := middleware.NewErrorResponder(h.logger.Logger)

	var req struct {
		Type                  string `json:"type" binding:"required,oneof=Add Remove Transfer"`
		SKU                   string `json:"sku" binding:"required,sku"`
		Quantity              int    `json:"quantity" binding:"required,min=1"`
		FromLocation          string `json:"from_location" binding:"omitempty,rack_location"`
		ToLocation            string `json:"to_location" binding:"omitempty,rack_location"`
		Reason                string `json:"reason" binding:"max=500"`
		TestInsufficientStock bool   `json:"test_insufficient_stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"adjustment.type": req.Type,
		"sku":             req.SKU,
		"quantity":        req.Quantity,
	})

	cmd := application.ApplyAdjustmentCommand{
		Type:                  req.Type,
		SKU:                   req.SKU,
		Quantity:              req.Quantity,
		FromLocation:          req.FromLocation,
		ToLocation:            req.ToLocation,
		Reason:                req.Reason,
		TestInsufficientStock: req.TestInsufficientStock,
	}

	result, err := h.service.Apply(c.Request.Context(), cmd)
	if err != nil {
		h.metrics.RecordAdjustment(req.Type, false)
		responder.RespondWithError(c, err)
		return
	}

	h.metrics.RecordAdjustment(req.Type, true)
	c.JSON(http.StatusOK, result)
}
