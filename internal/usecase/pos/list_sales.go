package pos

import (
	"context"
	"time"

	domain "github.com/bellenoire/salon-api/internal/domain/sale"
	"github.com/bellenoire/salon-api/internal/httperr"
	"github.com/bellenoire/salon-api/internal/models"
)

type ListSalesInput struct {
	From     string
	To       string
	ClientID *uint
}

type ListSales struct {
	repo domain.Repository
	loc  *time.Location
}

func NewListSales(repo domain.Repository, loc *time.Location) *ListSales {
	return &ListSales{repo: repo, loc: loc}
}

func (uc *ListSales) Execute(
	ctx context.Context,
	in ListSalesInput,
) ([]models.Sale, error) {

	var f domain.Filter

	if in.From != "" {
		from, err := time.ParseInLocation("2006-01-02", in.From, uc.loc)
		if err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeValidation)
		}
		f.From = &from
	}
	if in.To != "" {
		to, err := time.ParseInLocation("2006-01-02", in.To, uc.loc)
		if err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeValidation)
		}
		end := to.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	f.ClientID = in.ClientID

	return uc.repo.ListSales(ctx, f)
}
