package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bellenoire/salon-api/internal/cache"
	dberr "github.com/bellenoire/salon-api/internal/db"
	domain "github.com/bellenoire/salon-api/internal/domain/appointment"
	"github.com/bellenoire/salon-api/internal/httperr"
	"github.com/bellenoire/salon-api/internal/middleware"
	"github.com/bellenoire/salon-api/internal/models"
	"github.com/bellenoire/salon-api/internal/notify"
)

type CancelInput struct {
	AppointmentID uint
	Reason        string

	ActorUserID uint
	ActorRole   string
}

// Cancel releases a booked slot. Clients may only cancel their own
// appointments; workers and admins may cancel any.
type Cancel struct {
	repo   domain.Repository
	notify *notify.Dispatcher
	cache  *cache.Availability

	log zerolog.Logger
	loc *time.Location
}

func NewCancel(
	repo domain.Repository,
	dispatcher *notify.Dispatcher,
	availability *cache.Availability,
	log zerolog.Logger,
	loc *time.Location,
) *Cancel {
	return &Cancel{
		repo:   repo,
		notify: dispatcher,
		cache:  availability,
		log:    log,
		loc:    loc,
	}
}

func (uc *Cancel) Execute(
	ctx context.Context,
	in CancelInput,
) (*models.Appointment, error) {

	var (
		ap           *models.Appointment
		clientUserID uint
	)

	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		found, err := repo.GetAppointment(ctx, in.AppointmentID)
		if err != nil {
			if dberr.IsNotFound(err) {
				return httperr.ErrBusiness(httperr.CodeNotFound)
			}
			return err
		}
		ap = found

		profile, err := repo.GetClientProfile(ctx, ap.ClientID)
		if err != nil {
			return err
		}
		clientUserID = profile.UserID

		// Clients only touch their own bookings. A foreign id is reported as
		// not found rather than confirming the appointment exists.
		if in.ActorRole == middleware.RoleClient && profile.UserID != in.ActorUserID {
			return httperr.ErrBusiness(httperr.CodeNotFound)
		}

		if err := domain.Cancel(ap, in.Reason, time.Now().In(uc.loc)); err != nil {
			return err
		}
		return repo.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx, ap.WorkerID, ap.Date); err != nil {
		uc.log.Warn().Err(err).
			Uint("worker_id", ap.WorkerID).
			Msg("availability cache invalidation failed")
	}

	uc.notify.Dispatch(notify.Event{
		UserID:  clientUserID,
		Type:    notify.TypeAppointmentCancelled,
		Title:   "Appointment cancelled",
		Message: fmt.Sprintf("Appointment on %s at %s was cancelled", ap.Date.Format("2006-01-02"), ap.Time),
	})

	return ap, nil
}
