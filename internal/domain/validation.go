package domain

import (
	"fmt"
	"regexp"
)

// Quantity ceilings per order type
const (
	PutawayLineMax      = 10_000
	PutawayOrderMax     = 100_000
	BulkStorageLineMax  = 100_000
	BulkStorageOrderMax = 1_000_000
	AdjustmentQtyMax    = 1_000_000
)

// BarcodeNA is the placeholder barcode for unlabelled stock.
const BarcodeNA = "NA"

var (
	skuRegex      = regexp.MustCompile(`^[A-Za-z0-9\-_]{1,50}$`)
	barcodeRegex  = regexp.MustCompile(`^[0-9]{8,14}$`)
	toteRegex     = regexp.MustCompile(`^TOTE[A-Z0-9\-]{1,15}$`)
	locationRegex = regexp.MustCompile(`^RACK-[A-Z][0-9]-[0-9]{2}$`)
)

// FieldError describes a validation failure on a single field
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func newFieldError(field, reason string) *FieldError {
	return &FieldError{Field: field, Reason: reason}
}

// ValidateSKU checks that a SKU is non-empty and restricted to
// letters, digits, hyphen and underscore.
func ValidateSKU(field, sku string) error {
	if sku == "" {
		return newFieldError(field, "sku must not be empty")
	}
	if !skuRegex.MatchString(sku) {
		return newFieldError(field, "sku may only contain letters, digits, hyphens and underscores (max 50 characters)")
	}
	return nil
}

// ValidateBarcode checks that a barcode is 8 to 14 ASCII digits.
// "NA" is accepted for items that have no scannable barcode.
func ValidateBarcode(field, barcode string) error {
	if barcode == BarcodeNA {
		return nil
	}
	if !barcodeRegex.MatchString(barcode) {
		return newFieldError(field, "barcode must be 8 to 14 digits")
	}
	return nil
}

// ValidateToteID checks the TOTE-prefixed container identifier format.
func ValidateToteID(field, toteID string) error {
	if !toteRegex.MatchString(toteID) {
		return newFieldError(field, "tote must start with TOTE followed by 1-15 uppercase alphanumeric or hyphen characters")
	}
	return nil
}

// ValidateRackLocation checks the RACK-<section><aisle>-<position> format,
// e.g. RACK-A1-01.
func ValidateRackLocation(field, location string) error {
	if !locationRegex.MatchString(location) {
		return newFieldError(field, "location must match the RACK-<letter><digit>-<two digits> format, e.g. RACK-A1-01")
	}
	return nil
}

// ValidateQuantity checks that a quantity falls within [min, max].
func ValidateQuantity(field string, quantity, min, max int) error {
	if quantity < min {
		return newFieldError(field, fmt.Sprintf("quantity must be at least %d", min))
	}
	if quantity > max {
		return newFieldError(field, fmt.Sprintf("quantity must not exceed %d", max))
	}
	return nil
}

// CheckDuplicateSKUs rejects a line list that names the same SKU twice.
// Matching is exact and case-sensitive.
func CheckDuplicateSKUs(skus []string) error {
	seen := make(map[string]struct{}, len(skus))
	for _, sku := range skus {
		if _, ok := seen[sku]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateSKU, sku)
		}
		seen[sku] = struct{}{}
	}
	return nil
}
