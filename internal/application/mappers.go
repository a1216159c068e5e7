package application

import (
	stderrors "errors"

	"github.com/warehouse-ops/operations-api/internal/domain"
	"github.com/warehouse-ops/operations-api/pkg/errors"
)

// mapOrderError converts domain construction errors into typed
// application errors.
func mapOrderError(err error) *errors.AppError {
	var fieldErr *domain.FieldError
	if stderrors.As(err, &fieldErr) {
		return errors.ErrValidationField(fieldErr.Field, fieldErr.Reason)
	}

	switch {
	case stderrors.Is(err, domain.ErrDuplicateSKU):
		return errors.ErrValidation(err.Error())
	case stderrors.Is(err, domain.ErrQuantityExceeded):
		return errors.ErrBusinessRule(err.Error())
	default:
		return errors.ErrValidation(err.Error()).Wrap(err)
	}
}

// mapSaveError converts persistence errors from an order save into
// typed application errors. A duplicate-identifier violation surfaces
// the unique-constraint race on pending orders as a conflict.
func mapSaveError(err error) *errors.AppError {
	if stderrors.Is(err, domain.ErrDuplicateIdentifier) {
		return errors.ErrConflict("a pending order already exists for this identifier").Wrap(err)
	}
	if stderrors.Is(err, domain.ErrItemInsertFailed) {
		return errors.ErrPersistence("failed to insert order items").Wrap(err)
	}
	return errors.ErrPersistence("failed to save order").Wrap(err)
}
