package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/warehouse-ops/operations-api/internal/application"
	"github.com/warehouse-ops/operations-api/internal/domain"
	"github.com/warehouse-ops/operations-api/pkg/logging"
	"github.com/warehouse-ops/operations-api/pkg/middleware"
)

// PurchaseOrderService defines the application operations the purchase
// order handlers depend on
type PurchaseOrderService interface {
	SetStatus(ctx context.Context, cmd application.SetStatusCommand) (*application.SetStatusResult, error)
	Find(ctx context.Context, query application.FindOrdersQuery, pagination domain.Pagination) ([]*domain.PurchaseOrder, error)
	Get(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error)
	CheckSKU(ctx context.Context, poNumber, sku string) (*application.SKUCheckResult, error)
	CheckBarcode(ctx context.Context, poNumber, barcode string) (*application.SKUCheckResult, error)
}

// PurchaseOrderHandlers contains handlers for purchase order status
// updates and receiving-side searches
type PurchaseOrderHandlers struct {
	service PurchaseOrderService
	logger  *logging.Logger
}

// NewPurchaseOrderHandlers creates a new PurchaseOrderHandlers
func NewPurchaseOrderHandlers(service PurchaseOrderService, logger *logging.Logger) *PurchaseOrderHandlers {
	return &PurchaseOrderHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers purchase order routes on the router
func (h *PurchaseOrderHandlers) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/update_po_status", h.UpdateStatus)
	router.POST("/find_purchase_order", h.FindOrders)
	router.GET("/get_purchase_order", h.GetOrder)
	router.POST("/check_sku_against_po", h.CheckSKU)
}

// UpdateStatus handles a receiving status update
func (h *PurchaseOrderHandlers) UpdateStatus(c *gin.Context) {
	responder := middleware.NewErrorResponder(h.logger.Logger)

	var req struct {
		PONumber string `json:"po_number" binding:"required,po_number"`
		Status   string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"po.number": req.PONumber,
		"po.status": req.Status,
	})

	cmd := application.SetStatusCommand{
		PONumber: req.PONumber,
		Status:   req.Status,
	}

	result, err := h.service.SetStatus(c.Request.Context(), cmd)
	if err != nil {
		responder.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// FindOrders handles searching open purchase orders by number,
// supplier or barcodes
func (h *PurchaseOrderHandlers) FindOrders(c *gin.Context) {
	responder := middleware.NewErrorResponder(h.logger.Logger)

	var req struct {
		PONumber     string   `json:"po_number"`
		SupplierName string   `json:"supplier_name"`
		Barcodes     []string `json:"barcodes" binding:"omitempty,dive,barcode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := application.FindOrdersQuery{
		PONumber:     req.PONumber,
		SupplierName: req.SupplierName,
		Barcodes:     req.Barcodes,
	}

	orders, err := h.service.Find(c.Request.Context(), query, domain.DefaultPagination())
	if err != nil {
		responder.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

// GetOrder handles retrieving one purchase order with its line items
func (h *PurchaseOrderHandlers) GetOrder(c *gin.Context) {
	responder := middleware.NewErrorResponder(h.logger.Logger)

	poNumber := c.Query("po_number")
	if poNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "po_number is required"})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"po.number": poNumber,
	})

	po, err := h.service.Get(c.Request.Context(), poNumber)
	if err != nil {
		responder.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, po)
}

// CheckSKU handles checking whether a purchase order expects an item,
// addressed by SKU or by barcode
func (h *PurchaseOrderHandlers) CheckSKU(c *gin.Context) {
	responder := middleware.NewErrorResponder(h.logger.Logger)

	var req struct {
		PONumber string `json:"po_number" binding:"required,po_number"`
		SKU      string `json:"sku" binding:"omitempty,sku"`
		Barcode  string `json:"barcode" binding:"omitempty,barcode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SKU == "" && req.Barcode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either sku or barcode is required"})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"po.number": req.PONumber,
	})

	var (
		result *application.SKUCheckResult
		err    error
	)
	if req.SKU != "" {
		result, err = h.service.CheckSKU(c.Request.Context(), req.PONumber, req.SKU)
	} else {
		result, err = h.service.CheckBarcode(c.Request.Context(), req.PONumber, req.Barcode)
	}
	if err != nil {
		responder.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
