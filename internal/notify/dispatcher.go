package notify

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bellenoire/salon-api/internal/models"
)

// Notification types emitted by the commerce core.
const (
	TypeAppointmentConfirmed = "appointment_confirmed"
	TypeAppointmentCancelled = "appointment_cancelled"
	TypeLoyaltyReward        = "loyalty_reward"
	TypePaymentReceived      = "payment_received"
)

type Event struct {
	UserID  uint
	Type    string
	Title   string
	Message string
	Link    string
}

// Dispatcher persists notifications off the request path. Delivery is
// fire-and-forget: a failed or dropped notification never fails the booking
// or settlement that produced it.
type Dispatcher struct {
	db    *gorm.DB
	log   zerolog.Logger
	queue chan Event
}

func NewDispatcher(db *gorm.DB, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		db:    db,
		log:   log,
		queue: make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		n := models.Notification{
			UserID:  ev.UserID,
			Type:    ev.Type,
			Title:   ev.Title,
			Message: ev.Message,
			Link:    ev.Link,
		}
		if err := d.db.Create(&n).Error; err != nil {
			d.log.Error().Err(err).
				Uint("user_id", ev.UserID).
				Str("type", ev.Type).
				Msg("notification write failed")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// Queue full: drop rather than block the API.
		d.log.Warn().
			Uint("user_id", ev.UserID).
			Str("type", ev.Type).
			Msg("notification queue full, dropping event")
	}
}
