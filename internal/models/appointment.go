package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint          `gorm:"index" json:"client_id"`
	Client   ClientProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	WorkerID uint          `gorm:"index" json:"worker_id"`
	Worker   WorkerProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"worker"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	// Date is the calendar day, Time the slot label ("14:30"). Duration and
	// Price are snapshots of the service at booking time so later catalog
	// edits never change a booked appointment.
	Date        time.Time       `gorm:"index" json:"date"`
	Time        string          `gorm:"size:5" json:"time"`
	DurationMin int             `json:"duration_min"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`

	Location string `gorm:"size:10;default:'salon'" json:"location"`

	Status        string `gorm:"size:20;default:'pending';index" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'unpaid'" json:"payment_status"`

	AddOns       string `gorm:"type:text" json:"add_ons"`
	Notes        string `gorm:"size:255" json:"notes"`
	CancelReason string `gorm:"size:255" json:"cancel_reason"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	CompletedAt  *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
