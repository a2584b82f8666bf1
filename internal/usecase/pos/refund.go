package pos

import (
	"context"
	"fmt"

	dberr "github.com/bellenoire/salon-api/internal/db"
	domain "github.com/bellenoire/salon-api/internal/domain/sale"
	"github.com/bellenoire/salon-api/internal/httperr"
	"github.com/bellenoire/salon-api/internal/loyalty"
	"github.com/bellenoire/salon-api/internal/models"
	"github.com/bellenoire/salon-api/internal/notify"
)

type RefundInput struct {
	SaleID uint
	Reason string
}

// Refund reverses a settlement: the sale and its payments flip to refunded,
// the client's totalSpent drops by the sale total and any redeemed points come
// back through a compensating ledger row. Earned points, the appointment
// counter and the appointment's completed status are deliberately left alone.
type Refund struct {
	repo   domain.Repository
	notify *notify.Dispatcher
}

func NewRefund(repo domain.Repository, dispatcher *notify.Dispatcher) *Refund {
	return &Refund{repo: repo, notify: dispatcher}
}

func (uc *Refund) Execute(
	ctx context.Context,
	in RefundInput,
) (*models.Sale, error) {

	var (
		out          *models.Sale
		clientUserID uint
	)

	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		s, err := repo.GetSaleForUpdate(ctx, in.SaleID)
		if err != nil {
			if dberr.IsNotFound(err) {
				return httperr.ErrBusiness(httperr.CodeNotFound)
			}
			return err
		}

		if err := domain.CanRefund(s.PaymentStatus); err != nil {
			return err
		}

		reason := in.Reason
		if reason == "" {
			reason = "No reason given"
		}
		note := fmt.Sprintf("[Refund] %s", reason)
		if s.Notes == "" {
			s.Notes = note
		} else {
			s.Notes = s.Notes + "\n" + note
		}
		s.PaymentStatus = domain.PaymentRefunded

		if err := repo.SaveSale(ctx, s); err != nil {
			return err
		}
		if err := repo.SetPaymentsStatus(ctx, s.ID, domain.PaymentRefunded); err != nil {
			return err
		}

		profile, err := repo.GetClientProfileForUpdate(ctx, s.ClientID)
		if err != nil {
			return err
		}

		profile.TotalSpent = profile.TotalSpent.Sub(s.Total)
		if s.LoyaltyPointsUsed > 0 {
			profile.LoyaltyPoints += s.LoyaltyPointsUsed
		}
		if err := repo.SaveClientProfile(ctx, profile); err != nil {
			return err
		}

		if s.LoyaltyPointsUsed > 0 {
			if err := repo.AppendLoyalty(ctx, &models.LoyaltyTransaction{
				ClientID:    s.ClientID,
				Points:      s.LoyaltyPointsUsed,
				Type:        loyalty.TypeAdjustment,
				Description: fmt.Sprintf("Points restored after refund of %s", s.ReceiptNumber),
				RelatedID:   &s.ID,
			}); err != nil {
				return err
			}
		}

		full, err := repo.GetSale(ctx, s.ID)
		if err != nil {
			return err
		}
		out = full
		clientUserID = profile.UserID
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notify.Dispatch(notify.Event{
		UserID:  clientUserID,
		Type:    notify.TypePaymentReceived,
		Title:   "Refund issued",
		Message: fmt.Sprintf("Sale %s has been refunded", out.ReceiptNumber),
	})

	return out, nil
}
