package service

import (
	"errors"

	"github.com/ds124wfegd/mmk_universe/internal/entity"
)

// outcomeOf buckets an error into a low-cardinality metric label.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, entity.ErrInvalidTransactionID),
		errors.Is(err, entity.ErrInvalidImage),
		errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, entity.ErrRegistrationClosed):
		return "invalid"
	case errors.Is(err, entity.ErrAlreadySubmitted),
		errors.Is(err, entity.ErrAlreadyJoined),
		errors.Is(err, entity.ErrTransactionIDExists),
		errors.Is(err, entity.ErrInvalidTransition):
		return "conflict"
	case errors.Is(err, entity.ErrTargetNotFound),
		errors.Is(err, entity.ErrPaymentRequestNotFound):
		return "not_found"
	default:
		return "error"
	}
}
