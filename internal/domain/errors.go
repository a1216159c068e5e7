package domain

import "errors"

// Order and inventory errors
var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrItemNotFound            = errors.New("item not found on order")
	ErrPurchaseOrderNotFound   = errors.New("purchase order not found")
	ErrSKUNotFound             = errors.New("sku not found in product catalog")
	ErrBarcodeNotFound         = errors.New("barcode not registered")
	ErrDuplicateSKU            = errors.New("duplicate sku in order lines")
	ErrDuplicateIdentifier     = errors.New("identifier already has a pending order")
	ErrQuantityExceeded        = errors.New("order quantity ceiling exceeded")
	ErrInsufficientStock       = errors.New("insufficient stock available")
	ErrOrderAlreadyCompleted   = errors.New("order already completed")
	ErrInvalidStatus           = errors.New("invalid order status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrItemInsertFailed        = errors.New("item insert failed")
)
