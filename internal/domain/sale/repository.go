package sale

import (
	"context"
	"time"

	"github.com/bellenoire/salon-api/internal/models"
)

// Filter is the explicit, validated query surface for sale reads. No
// free-form where construction.
type Filter struct {
	From     *time.Time
	To       *time.Time
	ClientID *uint
}

type Repository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction. Every multi-entity mutation of the settlement engine and
	// refund reversal goes through here.
	Transaction(ctx context.Context, fn func(Repository) error) error

	// -------- Appointment --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Client profile --------
	// GetClientProfileForUpdate row-locks the profile for the duration of
	// the transaction so concurrent settlements cannot lose updates.
	GetClientProfileForUpdate(
		ctx context.Context,
		id uint,
	) (*models.ClientProfile, error)

	SaveClientProfile(
		ctx context.Context,
		profile *models.ClientProfile,
	) error

	// -------- Discount code --------
	GetDiscountCodeForUpdate(
		ctx context.Context,
		code string,
	) (*models.DiscountCode, error)

	SaveDiscountCode(
		ctx context.Context,
		dc *models.DiscountCode,
	) error

	// -------- Sale --------
	// FindPendingSaleForUpdate returns the locked pending sale for the
	// appointment (or the client's pending walk-in sale), nil when none.
	FindPendingSaleForUpdate(
		ctx context.Context,
		appointmentID *uint,
		clientID uint,
	) (*models.Sale, error)

	// FindActiveSaleByAppointment returns the non-refunded sale linked to an
	// appointment, nil when none.
	FindActiveSaleByAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Sale, error)

	CountSalesCreatedBetween(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) (int64, error)

	CreateSale(
		ctx context.Context,
		s *models.Sale,
	) error

	SaveSale(
		ctx context.Context,
		s *models.Sale,
	) error

	GetSale(
		ctx context.Context,
		id uint,
	) (*models.Sale, error)

	GetSaleForUpdate(
		ctx context.Context,
		id uint,
	) (*models.Sale, error)

	ListSales(
		ctx context.Context,
		f Filter,
	) ([]models.Sale, error)

	SetPaymentsStatus(
		ctx context.Context,
		saleID uint,
		status string,
	) error

	// -------- Loyalty ledger --------
	AppendLoyalty(
		ctx context.Context,
		entry *models.LoyaltyTransaction,
	) error
}
