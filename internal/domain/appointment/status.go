package appointment

import "github.com/bellenoire/salon-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "noshow"
)

const (
	PaymentUnpaid  = "unpaid"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
)

const (
	LocationSalon = "salon"
	LocationHome  = "home"
)

// ActiveStatuses are the states that hold a worker's slot. A pending booking
// does not block the slot until it is confirmed.
var ActiveStatuses = []string{string(StatusConfirmed), string(StatusInProgress)}

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func IsValidLocation(l string) bool {
	return l == LocationSalon || l == LocationHome
}

// ===============================
// Validations
// ===============================

func CanCancel(current Status) error {
	switch current {
	case StatusPending, StatusConfirmed:
		return nil
	}
	return httperr.ErrBusiness(httperr.CodeInvalidState)
}

// CanComplete guards the settlement-driven transition to completed.
func CanComplete(current Status) error {
	switch current {
	case StatusPending, StatusConfirmed, StatusInProgress:
		return nil
	}
	return httperr.ErrBusiness(httperr.CodeInvalidState)
}

func InitialStatus() Status {
	return StatusPending
}
