package pos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dberr "github.com/bellenoire/salon-api/internal/db"
	apdomain "github.com/bellenoire/salon-api/internal/domain/appointment"
	domain "github.com/bellenoire/salon-api/internal/domain/sale"
	"github.com/bellenoire/salon-api/internal/httperr"
	"github.com/bellenoire/salon-api/internal/loyalty"
	"github.com/bellenoire/salon-api/internal/models"
	"github.com/bellenoire/salon-api/internal/notify"
)

// Receipt numbers collide when two settlements race the same daily sequence.
// The unique index aborts the loser, whose whole transaction is retried.
const maxReceiptAttempts = 3

// ======================================================
// INPUT
// ======================================================

type SettleItemInput struct {
	ServiceID uint
	Quantity  int
	Price     decimal.Decimal
}

type SettleInput struct {
	AppointmentID *uint
	ClientID      *uint

	Items         []SettleItemInput
	PaymentMethod string

	DiscountCode      string
	LoyaltyPointsUsed int
	Tip               decimal.Decimal
}

// ======================================================
// USE CASE
// ======================================================

// Settle is the single settlement path: every checkout, whether tied to an
// appointment or a walk-in, runs through Execute. All writes — sale, items,
// payment, appointment closure, client aggregates, ledger rows, discount
// usage — commit in one transaction or not at all.
type Settle struct {
	repo   domain.Repository
	notify *notify.Dispatcher

	tax           decimal.Decimal
	receiptPrefix string
	loc           *time.Location
}

func NewSettle(
	repo domain.Repository,
	dispatcher *notify.Dispatcher,
	tax decimal.Decimal,
	receiptPrefix string,
	loc *time.Location,
) *Settle {
	return &Settle{
		repo:          repo,
		notify:        dispatcher,
		tax:           tax,
		receiptPrefix: receiptPrefix,
		loc:           loc,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Settle) Execute(
	ctx context.Context,
	in SettleInput,
) (*models.Sale, error) {

	if err := validateSettleInput(in); err != nil {
		return nil, err
	}

	var (
		out          *models.Sale
		clientUserID uint
	)

	run := func(repo domain.Repository) error {
		s, userID, err := uc.settle(ctx, repo, in)
		if err != nil {
			return err
		}
		out = s
		clientUserID = userID
		return nil
	}

	var err error
	for attempt := 0; attempt < maxReceiptAttempts; attempt++ {
		err = uc.repo.Transaction(ctx, run)
		if err == nil {
			break
		}
		if dberr.IsUniqueViolation(err) {
			continue
		}
		if dberr.IsSerializationFailure(err) {
			return nil, httperr.ErrBusiness(httperr.CodeTransactionConflict)
		}
		return nil, err
	}
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeTransactionConflict)
	}

	uc.notify.Dispatch(notify.Event{
		UserID:  clientUserID,
		Type:    notify.TypePaymentReceived,
		Title:   "Payment received",
		Message: fmt.Sprintf("Payment received, receipt %s", out.ReceiptNumber),
	})

	return out, nil
}

func (uc *Settle) settle(
	ctx context.Context,
	repo domain.Repository,
	in SettleInput,
) (*models.Sale, uint, error) {

	now := time.Now().In(uc.loc)

	// --------------------------------------------------
	// Resolve client (via appointment when linked)
	// --------------------------------------------------
	var ap *models.Appointment
	var clientID uint

	if in.AppointmentID != nil {
		found, err := repo.GetAppointment(ctx, *in.AppointmentID)
		if err != nil {
			if dberr.IsNotFound(err) {
				return nil, 0, httperr.ErrBusiness(httperr.CodeNotFound)
			}
			return nil, 0, err
		}
		ap = found
		clientID = ap.ClientID
	} else {
		clientID = *in.ClientID
	}

	profile, err := repo.GetClientProfileForUpdate(ctx, clientID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, 0, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, 0, err
	}

	// --------------------------------------------------
	// Totals
	// --------------------------------------------------
	lines := make([]domain.Line, len(in.Items))
	for i, item := range in.Items {
		lines[i] = domain.Line{
			ServiceID: item.ServiceID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	subtotal := domain.Subtotal(lines)

	discount := domain.RedemptionValue(in.LoyaltyPointsUsed)

	var dc *models.DiscountCode
	if in.DiscountCode != "" {
		dc, err = repo.GetDiscountCodeForUpdate(ctx, in.DiscountCode)
		if err != nil {
			if dberr.IsNotFound(err) {
				return nil, 0, httperr.ErrBusiness(httperr.CodeDiscountCodeInvalid)
			}
			return nil, 0, err
		}
		if err := domain.ValidateCode(dc, now); err != nil {
			return nil, 0, err
		}
		discount = discount.Add(domain.CodeDiscount(dc, subtotal))
	}

	total := domain.Total(subtotal, discount, uc.tax, in.Tip)

	// --------------------------------------------------
	// Idempotent upsert of the sale
	// --------------------------------------------------
	receipt, err := nextReceipt(ctx, repo, uc.receiptPrefix, now)
	if err != nil {
		return nil, 0, err
	}

	existing, err := repo.FindPendingSaleForUpdate(ctx, in.AppointmentID, clientID)
	if err != nil {
		return nil, 0, err
	}

	var s *models.Sale
	if existing != nil {
		// Reserve-now-settle-later: complete the provisional sale in place.
		// Its payment keeps the amount it was created with.
		existing.Subtotal = subtotal
		existing.Discount = discount
		existing.Tax = uc.tax
		existing.Tip = in.Tip
		existing.Total = total
		existing.PaymentMethod = in.PaymentMethod
		existing.PaymentStatus = domain.PaymentCompleted
		existing.ReceiptNumber = receipt
		existing.LoyaltyPointsUsed = in.LoyaltyPointsUsed
		existing.DiscountCode = in.DiscountCode
		existing.Payments = nil

		if err := repo.SaveSale(ctx, existing); err != nil {
			return nil, 0, err
		}
		if err := repo.SetPaymentsStatus(ctx, existing.ID, domain.PaymentCompleted); err != nil {
			return nil, 0, err
		}
		s = existing
	} else {
		if in.AppointmentID != nil {
			active, err := repo.FindActiveSaleByAppointment(ctx, *in.AppointmentID)
			if err != nil {
				return nil, 0, err
			}
			if active != nil {
				return nil, 0, httperr.ErrBusiness(httperr.CodeInvalidState)
			}
		}

		items := make([]models.SaleItem, len(in.Items))
		for i, item := range in.Items {
			items[i] = models.SaleItem{
				ServiceID: item.ServiceID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			}
		}

		s = &models.Sale{
			AppointmentID:     in.AppointmentID,
			ClientID:          clientID,
			Subtotal:          subtotal,
			Discount:          discount,
			Tax:               uc.tax,
			Tip:               in.Tip,
			Total:             total,
			PaymentMethod:     in.PaymentMethod,
			PaymentStatus:     domain.PaymentCompleted,
			ReceiptNumber:     receipt,
			LoyaltyPointsUsed: in.LoyaltyPointsUsed,
			DiscountCode:      in.DiscountCode,
			Items:             items,
			Payments: []models.Payment{{
				Amount:        total,
				Method:        in.PaymentMethod,
				TransactionID: uuid.NewString(),
				Status:        domain.PaymentCompleted,
			}},
		}

		if err := repo.CreateSale(ctx, s); err != nil {
			return nil, 0, err
		}
	}

	// --------------------------------------------------
	// Close the appointment
	// --------------------------------------------------
	if ap != nil {
		if apdomain.Status(ap.Status) != apdomain.StatusCompleted {
			if err := apdomain.Complete(ap, now); err != nil {
				return nil, 0, err
			}
			if err := repo.UpdateAppointment(ctx, ap); err != nil {
				return nil, 0, err
			}
		}
	}

	// --------------------------------------------------
	// Client aggregates + ledger (same transaction, always paired)
	// --------------------------------------------------
	pointsEarned := domain.PointsEarned(total)

	profile.TotalSpent = profile.TotalSpent.Add(total)
	if ap != nil {
		profile.TotalAppointments++
	}
	profile.LoyaltyPoints += pointsEarned - in.LoyaltyPointsUsed

	if err := repo.SaveClientProfile(ctx, profile); err != nil {
		return nil, 0, err
	}

	if in.LoyaltyPointsUsed > 0 {
		if err := repo.AppendLoyalty(ctx, &models.LoyaltyTransaction{
			ClientID:    clientID,
			Points:      -in.LoyaltyPointsUsed,
			Type:        loyalty.TypeRedeemedService,
			Description: "Points redeemed at checkout",
			RelatedID:   &s.ID,
		}); err != nil {
			return nil, 0, err
		}
	}

	// Written even when zero, so every settlement leaves an accrual row.
	if err := repo.AppendLoyalty(ctx, &models.LoyaltyTransaction{
		ClientID:    clientID,
		Points:      pointsEarned,
		Type:        loyalty.TypeEarnedAppointment,
		Description: fmt.Sprintf("Points earned on sale %s", receipt),
		RelatedID:   &s.ID,
	}); err != nil {
		return nil, 0, err
	}

	// --------------------------------------------------
	// Discount code usage
	// --------------------------------------------------
	if dc != nil {
		dc.UsedCount++
		if err := repo.SaveDiscountCode(ctx, dc); err != nil {
			return nil, 0, err
		}
	}

	full, err := repo.GetSale(ctx, s.ID)
	if err != nil {
		return nil, 0, err
	}

	return full, profile.UserID, nil
}

func validateSettleInput(in SettleInput) error {
	if in.AppointmentID == nil && in.ClientID == nil {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}
	if len(in.Items) == 0 {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 || item.Price.Sign() < 0 {
			return httperr.ErrBusiness(httperr.CodeValidation)
		}
	}
	if in.LoyaltyPointsUsed < 0 || in.Tip.Sign() < 0 {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}
	if !domain.IsValidMethod(in.PaymentMethod) {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}
	return nil
}
