package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dberr "github.com/bellenoire/salon-api/internal/db"
	domain "github.com/bellenoire/salon-api/internal/domain/sale"
	"github.com/bellenoire/salon-api/internal/httperr"
	"github.com/bellenoire/salon-api/internal/models"
)

// Reserve opens a provisional sale against an appointment at booking time.
// The sale and its payment stay pending until settlement completes them in
// place; calling it twice returns the same pending sale.
type Reserve struct {
	repo          domain.Repository
	receiptPrefix string
	loc           *time.Location
}

func NewReserve(
	repo domain.Repository,
	receiptPrefix string,
	loc *time.Location,
) *Reserve {
	return &Reserve{repo: repo, receiptPrefix: receiptPrefix, loc: loc}
}

func (uc *Reserve) Execute(
	ctx context.Context,
	appointmentID uint,
) (*models.Sale, error) {

	var out *models.Sale

	run := func(repo domain.Repository) error {
		ap, err := repo.GetAppointment(ctx, appointmentID)
		if err != nil {
			if dberr.IsNotFound(err) {
				return httperr.ErrBusiness(httperr.CodeNotFound)
			}
			return err
		}

		existing, err := repo.FindPendingSaleForUpdate(ctx, &appointmentID, ap.ClientID)
		if err != nil {
			return err
		}
		if existing != nil {
			out = existing
			return nil
		}

		active, err := repo.FindActiveSaleByAppointment(ctx, appointmentID)
		if err != nil {
			return err
		}
		if active != nil {
			return httperr.ErrBusiness(httperr.CodeInvalidState)
		}

		now := time.Now().In(uc.loc)
		receipt, err := nextReceipt(ctx, repo, uc.receiptPrefix, now)
		if err != nil {
			return err
		}

		s := &models.Sale{
			AppointmentID: &appointmentID,
			ClientID:      ap.ClientID,
			Subtotal:      ap.Price,
			Discount:      decimal.Zero,
			Tax:           decimal.Zero,
			Tip:           decimal.Zero,
			Total:         ap.Price,
			PaymentStatus: domain.PaymentPending,
			ReceiptNumber: receipt,
			Items: []models.SaleItem{{
				ServiceID: ap.ServiceID,
				Quantity:  1,
				Price:     ap.Price,
			}},
			Payments: []models.Payment{{
				Amount:        ap.Price,
				TransactionID: uuid.NewString(),
				Status:        domain.PaymentPending,
			}},
		}

		if err := repo.CreateSale(ctx, s); err != nil {
			return err
		}
		out = s
		return nil
	}

	var err error
	for attempt := 0; attempt < maxReceiptAttempts; attempt++ {
		err = uc.repo.Transaction(ctx, run)
		if err == nil {
			return out, nil
		}
		if !dberr.IsUniqueViolation(err) {
			return nil, err
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeTransactionConflict)
}
