package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientProfile carries the client's loyalty aggregates. LoyaltyPoints is a
// cached balance of the loyalty_transactions ledger: every mutation of it
// must be paired with a ledger row in the same transaction.
type ClientProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Tier              string          `gorm:"size:20;default:'regular'" json:"tier"`
	LoyaltyPoints     int             `gorm:"default:0" json:"loyalty_points"`
	TotalAppointments int             `gorm:"default:0" json:"total_appointments"`
	TotalSpent        decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"total_spent"`

	ReferralCode string `gorm:"size:36;uniqueIndex" json:"referral_code"`
	Notes        string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
