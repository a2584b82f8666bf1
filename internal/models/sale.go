package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is the settlement record for a checkout. Refunds flip PaymentStatus,
// they never delete the row. Invariant: Total = Subtotal - Discount + Tax + Tip.
type Sale struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Nil for walk-in sales. At most one non-refunded sale may exist per
	// appointment; the settlement engine enforces it under a row lock.
	AppointmentID *uint `gorm:"index" json:"appointment_id"`

	ClientID uint          `gorm:"index" json:"client_id"`
	Client   ClientProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client"`

	Subtotal decimal.Decimal `gorm:"type:decimal(10,2)" json:"subtotal"`
	Discount decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount"`
	Tax      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"tax"`
	Tip      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"tip"`
	Total    decimal.Decimal `gorm:"type:decimal(10,2)" json:"total"`

	PaymentMethod string `gorm:"size:20" json:"payment_method"`
	PaymentStatus string `gorm:"size:20;default:'pending';index" json:"payment_status"`

	ReceiptNumber     string `gorm:"size:40;uniqueIndex" json:"receipt_number"`
	LoyaltyPointsUsed int    `gorm:"default:0" json:"loyalty_points_used"`
	DiscountCode      string `gorm:"size:50" json:"discount_code"`
	Notes             string `gorm:"type:text" json:"notes"`

	Items    []SaleItem `json:"items"`
	Payments []Payment  `json:"payments"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaleItem is a unit-price snapshot line. Immutable once written.
type SaleItem struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	SaleID uint `gorm:"index" json:"sale_id"`

	ServiceID uint            `json:"service_id"`
	Quantity  int             `gorm:"default:1" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Discount  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount"`
}

type Payment struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	SaleID uint `gorm:"index" json:"sale_id"`

	Amount        decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	Method        string          `gorm:"size:20" json:"method"`
	TransactionID string          `gorm:"size:36;uniqueIndex" json:"transaction_id"`
	Status        string          `gorm:"size:20;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}
