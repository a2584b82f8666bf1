package appointment

import (
	"time"

	"github.com/bellenoire/salon-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelReason = reason
	ap.CancelledAt = &now
	return nil
}

// Complete closes the appointment as part of a settlement. The booked slot
// is released and the payment state moves to paid in the same transaction
// as the sale.
func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.PaymentStatus = PaymentPaid
	ap.CompletedAt = &now
	return nil
}
