package sale

import "github.com/bellenoire/salon-api/internal/httperr"

// ===============================
// Payment status / method
// ===============================

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentRefunded  = "refunded"
)

const (
	MethodCash   = "cash"
	MethodCard   = "card"
	MethodMobile = "mobile"
	MethodMixed  = "mixed"
)

const (
	DiscountTypePercentage  = "percentage"
	DiscountTypeFixedAmount = "fixed_amount"
)

func IsValidMethod(m string) bool {
	switch m {
	case MethodCash, MethodCard, MethodMobile, MethodMixed:
		return true
	}
	return false
}

// CanRefund rejects a second refund attempt. Idempotency by rejection: the
// caller made an error, this is not a silent no-op.
func CanRefund(paymentStatus string) error {
	if paymentStatus == PaymentRefunded {
		return httperr.ErrBusiness(httperr.CodeAlreadyRefunded)
	}
	return nil
}
