package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bellenoire/salon-api/internal/cache"
	dberr "github.com/bellenoire/salon-api/internal/db"
	domain "github.com/bellenoire/salon-api/internal/domain/appointment"
	"github.com/bellenoire/salon-api/internal/httperr"
)

const slotStep = 30 * time.Minute

type AvailableSlotsInput struct {
	WorkerID uint
	Date     string
}

// AvailableSlots lists the free slot labels for a worker on a day: the
// worker's weekday window stepped every 30 minutes, minus slots already held
// by pending or active appointments. Results are cached per worker/day.
type AvailableSlots struct {
	repo  domain.Repository
	cache *cache.Availability

	log zerolog.Logger
	loc *time.Location
}

func NewAvailableSlots(
	repo domain.Repository,
	availability *cache.Availability,
	log zerolog.Logger,
	loc *time.Location,
) *AvailableSlots {
	return &AvailableSlots{
		repo:  repo,
		cache: availability,
		log:   log,
		loc:   loc,
	}
}

func (uc *AvailableSlots) Execute(
	ctx context.Context,
	in AvailableSlotsInput,
) ([]string, error) {

	date, err := time.ParseInLocation("2006-01-02", in.Date, uc.loc)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	if slots, ok := uc.cache.Get(ctx, in.WorkerID, date); ok {
		return slots, nil
	}

	schedule, err := uc.repo.GetSchedule(ctx, in.WorkerID, int(date.Weekday()))
	if err != nil {
		if dberr.IsNotFound(err) {
			// Day off.
			return []string{}, nil
		}
		return nil, err
	}
	if !schedule.Active {
		return []string{}, nil
	}

	start, err := time.Parse("15:04", schedule.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse("15:04", schedule.EndTime)
	if err != nil {
		return nil, err
	}

	taken, err := uc.repo.ListTakenSlots(ctx, in.WorkerID, date)
	if err != nil {
		return nil, err
	}
	held := make(map[string]struct{}, len(taken))
	for _, slot := range taken {
		held[slot] = struct{}{}
	}

	slots := []string{}
	for t := start; t.Before(end); t = t.Add(slotStep) {
		label := t.Format("15:04")
		if _, ok := held[label]; ok {
			continue
		}
		slots = append(slots, label)
	}

	if err := uc.cache.Set(ctx, in.WorkerID, date, slots); err != nil {
		uc.log.Warn().Err(err).
			Uint("worker_id", in.WorkerID).
			Msg("availability cache write failed")
	}

	return slots, nil
}
