package middleware

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once

	skuPattern      = regexp.MustCompile(`^[A-Za-z0-9\-_]{1,50}$`)
	totePattern     = regexp.MustCompile(`^TOTE[A-Z0-9\-]{1,15}$`)
	rackPattern     = regexp.MustCompile(`^RACK-[A-Z][0-9]-[0-9]{2}$`)
	barcodePattern  = regexp.MustCompile(`^[0-9]{8,14}$`)
	poNumberPattern = regexp.MustCompile(`^[A-Za-z0-9\-_]{1,50}$`)
)

// InitValidator registers custom warehouse format validators on Gin's
// binding validator engine. Safe to call more than once.
func InitValidator() {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("sku", func(fl validator.FieldLevel) bool {
			return skuPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("tote", func(fl validator.FieldLevel) bool {
			return totePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("rack_location", func(fl validator.FieldLevel) bool {
			return rackPattern.MatchString(fl.Field().String())
		})

		// "NA" is accepted for items that carry no scannable barcode.
		_ = v.RegisterValidation("barcode", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			return value == "NA" || barcodePattern.MatchString(value)
		})

		_ = v.RegisterValidation("po_number", func(fl validator.FieldLevel) bool {
			return poNumberPattern.MatchString(fl.Field().String())
		})
	})
}
