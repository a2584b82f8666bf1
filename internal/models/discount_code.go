package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountCode struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:50;uniqueIndex;not null" json:"code"`

	// "percentage" or "fixed_amount".
	Type  string          `gorm:"size:20" json:"type"`
	Value decimal.Decimal `gorm:"type:decimal(10,2)" json:"value"`

	MaxUses   *int `json:"max_uses"`
	UsedCount int  `gorm:"default:0" json:"used_count"`

	IsActive  bool       `gorm:"default:true" json:"is_active"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
