package sale

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bellenoire/salon-api/internal/httperr"
	"github.com/bellenoire/salon-api/internal/models"
)

// One loyalty point redeems as one currency unit. Fixed exchange rate.
var pointValue = decimal.NewFromInt(1)

// Earn one point per ten currency units of the settled total.
var accrualDivisor = decimal.NewFromInt(10)

// Booking bonus: one point per thousand currency units of the snapshot price.
var bookingBonusDivisor = decimal.NewFromInt(1000)

type Line struct {
	ServiceID uint
	Quantity  int
	Price     decimal.Decimal
}

func Subtotal(lines []Line) decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return subtotal
}

// RedemptionValue converts redeemed points into a currency discount.
func RedemptionValue(points int) decimal.Decimal {
	return decimal.NewFromInt(int64(points)).Mul(pointValue)
}

// Total applies the settlement identity: total = subtotal - discount + tax + tip.
func Total(subtotal, discount, tax, tip decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(tax).Add(tip)
}

// PointsEarned is floor(total / 10).
func PointsEarned(total decimal.Decimal) int {
	if total.Sign() <= 0 {
		return 0
	}
	return int(total.Div(accrualDivisor).Floor().IntPart())
}

// BookingBonus is the small accrual granted at booking time, round(price / 1000).
func BookingBonus(price decimal.Decimal) int {
	return int(price.Div(bookingBonusDivisor).Round(0).IntPart())
}

// CodeDiscount resolves a discount code's currency value against a subtotal.
func CodeDiscount(dc *models.DiscountCode, subtotal decimal.Decimal) decimal.Decimal {
	switch dc.Type {
	case DiscountTypePercentage:
		return subtotal.Mul(dc.Value).Div(decimal.NewFromInt(100)).Round(2)
	default:
		return dc.Value
	}
}

// ValidateCode checks a code is live: active, inside its date window, and not
// exhausted.
func ValidateCode(dc *models.DiscountCode, now time.Time) error {
	if !dc.IsActive {
		return httperr.ErrBusiness(httperr.CodeDiscountCodeInvalid)
	}
	if dc.StartDate != nil && now.Before(*dc.StartDate) {
		return httperr.ErrBusiness(httperr.CodeDiscountCodeInvalid)
	}
	if dc.EndDate != nil && now.After(*dc.EndDate) {
		return httperr.ErrBusiness(httperr.CodeDiscountCodeInvalid)
	}
	if dc.MaxUses != nil && dc.UsedCount >= *dc.MaxUses {
		return httperr.ErrBusiness(httperr.CodeDiscountCodeInvalid)
	}
	return nil
}
