package models

import "time"

// LoyaltyTransaction is one row of the append-only points ledger. Rows are
// never updated or deleted; corrections are new rows with the opposite sign.
type LoyaltyTransaction struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint `gorm:"index" json:"client_id"`

	// Positive = earned, negative = redeemed/reversed.
	Points int    `gorm:"not null" json:"points"`
	Type   string `gorm:"size:30;index" json:"type"`

	Description string `gorm:"size:255" json:"description"`
	RelatedID   *uint  `json:"related_id"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
