package httperr

import "errors"

// BusinessError is a domain rule violation carried up to the handler layer,
// which maps the code to an HTTP status.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Codes shared across the commerce core.
const (
	CodeNotFound            = "not_found"
	CodeValidation          = "validation_error"
	CodeSlotConflict        = "slot_conflict"
	CodeAlreadyRefunded     = "already_refunded"
	CodeDiscountCodeInvalid = "discount_code_invalid"
	CodeInvalidState        = "invalid_state"
	CodeTransactionConflict = "transaction_conflict"
)
