package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/warehouse-ops/operations-api/internal/application"
	"github.com/warehouse-ops/operations-api/pkg/logging"
	"github.com/warehouse-ops/operations-api/pkg/middleware"
)

// CatalogService defines the application operations the catalog
// handlers depend on
type CatalogService interface {
	LookupBarcode(ctx context.Context, barcode string) (*application.BarcodeLookupResult, error)
	RegisterBarcode(ctx context.Context, sku, barcode string) error
}

// CatalogHandlers contains handlers for barcode lookups and
// registration
type CatalogHandlers struct {
	service CatalogService
	logger  *logging.Logger
}

// NewCatalogHandlers creates a new CatalogHandlers
func NewCatalogHandlers(service CatalogService, logger *logging.Logger) *CatalogHandlers {
	return &CatalogHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers catalog routes on the router
func (h *CatalogHandlers) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/barcode_lookup", h.LookupBarcode)
	router.POST("/register_barcode", h.RegisterBarcode)
}

// LookupBarcode handles resolving a barcode to its SKU
func (h *CatalogHandlers) LookupBarcode(c *gin.Context) {
	responder := middleware.NewErrorResponder(h.logger.Logger)

	var req struct {
		Barcode string `json:"barcode" binding:"required,barcode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"barcode": req.Barcode,
	})

	result, err := h.service.LookupBarcode(c.Request.Context(), req.Barcode)
	if err != nil {
		responder.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RegisterBarcode handles associating a new barcode with a SKU
func (h *CatalogHandlers) RegisterBarcode(c *gin.Context) {
	responder := middleware.NewErrorResponder(h.logger.Logger)

	var req struct {
		SKU     string `json:"sku" binding:"required,sku"`
		Barcode string `json:"barcode" binding:"required,barcode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"sku":     req.SKU,
		"barcode": req.Barcode,
	})

	if err := h.service.RegisterBarcode(c.Request.Context(), req.SKU, req.Barcode); err != nil {
		responder.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sku": req.SKU, "barcode": req.Barcode})
}
