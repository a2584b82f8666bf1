package appointment

import (
	"context"
	"time"

	dberr "github.com/bellenoire/salon-api/internal/db"
	domain "github.com/bellenoire/salon-api/internal/domain/appointment"
	"github.com/bellenoire/salon-api/internal/httperr"
	"github.com/bellenoire/salon-api/internal/middleware"
	"github.com/bellenoire/salon-api/internal/models"
)

type ListInput struct {
	Date     string
	Status   string
	WorkerID *uint
	ClientID *uint

	ActorUserID uint
	ActorRole   string
}

// List returns appointments scoped by the caller's role: clients see their
// own, workers default to their own schedule, admins see everything the
// filter allows.
type List struct {
	repo domain.Repository
	loc  *time.Location
}

func NewList(repo domain.Repository, loc *time.Location) *List {
	return &List{repo: repo, loc: loc}
}

func (uc *List) Execute(
	ctx context.Context,
	in ListInput,
) ([]models.Appointment, error) {

	var f domain.Filter

	if in.Date != "" {
		date, err := time.ParseInLocation("2006-01-02", in.Date, uc.loc)
		if err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeValidation)
		}
		f.Date = &date
	}
	if in.Status != "" {
		if !domain.IsValidStatus(in.Status) {
			return nil, httperr.ErrBusiness(httperr.CodeValidation)
		}
		f.Status = &in.Status
	}
	f.WorkerID = in.WorkerID
	f.ClientID = in.ClientID

	switch in.ActorRole {
	case middleware.RoleClient:
		profile, err := uc.repo.GetClientProfileByUserID(ctx, in.ActorUserID)
		if err != nil {
			if dberr.IsNotFound(err) {
				return nil, httperr.ErrBusiness(httperr.CodeNotFound)
			}
			return nil, err
		}
		f.ClientID = &profile.ID
		f.WorkerID = nil

	case middleware.RoleWorker:
		if f.ClientID == nil && f.WorkerID == nil {
			worker, err := uc.repo.GetWorkerByUserID(ctx, in.ActorUserID)
			if err != nil {
				if dberr.IsNotFound(err) {
					return nil, httperr.ErrBusiness(httperr.CodeNotFound)
				}
				return nil, err
			}
			f.WorkerID = &worker.ID
		}
	}

	return uc.repo.List(ctx, f)
}
