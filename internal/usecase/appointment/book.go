package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bellenoire/salon-api/internal/cache"
	dberr "github.com/bellenoire/salon-api/internal/db"
	domain "github.com/bellenoire/salon-api/internal/domain/appointment"
	saledomain "github.com/bellenoire/salon-api/internal/domain/sale"
	"github.com/bellenoire/salon-api/internal/httperr"
	"github.com/bellenoire/salon-api/internal/loyalty"
	"github.com/bellenoire/salon-api/internal/models"
	"github.com/bellenoire/salon-api/internal/notify"
	"github.com/bellenoire/salon-api/internal/usecase/pos"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	ClientUserID uint

	WorkerID  uint
	ServiceID uint

	Date string // "2006-01-02"
	Time string // "15:04" slot label

	Location string
	AddOns   []string
	Notes    string

	// ReservePayment opens a provisional sale against the appointment so the
	// till can settle it later.
	ReservePayment bool
}

type BookOutput struct {
	Appointment *models.Appointment
	Sale        *models.Sale
}

// ======================================================
// USE CASE
// ======================================================

// Book places an appointment for a client. The slot-conflict check and the
// insert run in one transaction so two rival bookings for the same
// worker/date/slot cannot both land.
type Book struct {
	repo    domain.Repository
	reserve *pos.Reserve
	notify  *notify.Dispatcher
	cache   *cache.Availability

	log zerolog.Logger
	loc *time.Location
}

func NewBook(
	repo domain.Repository,
	reserve *pos.Reserve,
	dispatcher *notify.Dispatcher,
	availability *cache.Availability,
	log zerolog.Logger,
	loc *time.Location,
) *Book {
	return &Book{
		repo:    repo,
		reserve: reserve,
		notify:  dispatcher,
		cache:   availability,
		log:     log,
		loc:     loc,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Book) Execute(
	ctx context.Context,
	in BookInput,
) (*BookOutput, error) {

	date, err := time.ParseInLocation("2006-01-02", in.Date, uc.loc)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}
	if _, err := time.Parse("15:04", in.Time); err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	location := in.Location
	if location == "" {
		location = domain.LocationSalon
	}
	if !domain.IsValidLocation(location) {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	// Referenced rows are checked before anything is written.
	profile, err := uc.repo.GetClientProfileByUserID(ctx, in.ClientUserID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	worker, err := uc.repo.GetWorker(ctx, in.WorkerID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	addOns := ""
	if len(in.AddOns) > 0 {
		raw, err := json.Marshal(in.AddOns)
		if err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeValidation)
		}
		addOns = string(raw)
	}

	bonus := saledomain.BookingBonus(service.Price)

	var ap *models.Appointment

	err = uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		count, err := repo.CountSlotConflicts(ctx, in.WorkerID, date, in.Time)
		if err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness(httperr.CodeSlotConflict)
		}

		ap = &models.Appointment{
			ClientID:      profile.ID,
			WorkerID:      in.WorkerID,
			ServiceID:     in.ServiceID,
			Date:          date,
			Time:          in.Time,
			DurationMin:   service.DurationMin,
			Price:         service.Price,
			Location:      location,
			Status:        string(domain.InitialStatus()),
			PaymentStatus: domain.PaymentUnpaid,
			AddOns:        addOns,
			Notes:         in.Notes,
		}
		if err := repo.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		if bonus == 0 {
			return nil
		}

		locked, err := repo.GetClientProfileForUpdate(ctx, profile.ID)
		if err != nil {
			return err
		}
		locked.LoyaltyPoints += bonus
		if err := repo.SaveClientProfile(ctx, locked); err != nil {
			return err
		}

		return repo.AppendLoyalty(ctx, &models.LoyaltyTransaction{
			ClientID:    profile.ID,
			Points:      bonus,
			Type:        loyalty.TypeEarnedAppointment,
			Description: fmt.Sprintf("Booking bonus for %s", service.Name),
			RelatedID:   &ap.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx, in.WorkerID, date); err != nil {
		uc.log.Warn().Err(err).
			Uint("worker_id", in.WorkerID).
			Msg("availability cache invalidation failed")
	}

	uc.notify.Dispatch(notify.Event{
		UserID:  worker.UserID,
		Type:    notify.TypeAppointmentConfirmed,
		Title:   "New appointment",
		Message: fmt.Sprintf("%s booked on %s at %s", service.Name, in.Date, in.Time),
		Link:    fmt.Sprintf("/appointments/%d", ap.ID),
	})
	if bonus > 0 {
		uc.notify.Dispatch(notify.Event{
			UserID:  in.ClientUserID,
			Type:    notify.TypeLoyaltyReward,
			Title:   "Loyalty points earned",
			Message: fmt.Sprintf("You earned %d points for booking %s", bonus, service.Name),
		})
	}

	out := &BookOutput{Appointment: ap}

	if in.ReservePayment {
		sale, err := uc.reserve.Execute(ctx, ap.ID)
		if err != nil {
			// The booking stands; the till can still settle it later.
			uc.log.Warn().Err(err).
				Uint("appointment_id", ap.ID).
				Msg("payment reservation failed")
		} else {
			out.Sale = sale
		}
	}

	return out, nil
}
