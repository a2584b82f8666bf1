package appointment

import (
	"context"
	"time"

	"github.com/bellenoire/salon-api/internal/models"
)

// Filter is the explicit, validated query surface for appointment reads.
// Role scoping is applied by the use case before the query runs.
type Filter struct {
	Date     *time.Time
	Status   *string
	WorkerID *uint
	ClientID *uint
}

type Repository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction. The slot-conflict check and the booking bonus share it.
	Transaction(ctx context.Context, fn func(Repository) error) error

	// -------- Collaborators --------
	GetClientProfileByUserID(
		ctx context.Context,
		userID uint,
	) (*models.ClientProfile, error)

	GetClientProfile(
		ctx context.Context,
		id uint,
	) (*models.ClientProfile, error)

	GetClientProfileForUpdate(
		ctx context.Context,
		id uint,
	) (*models.ClientProfile, error)

	SaveClientProfile(
		ctx context.Context,
		profile *models.ClientProfile,
	) error

	GetWorker(
		ctx context.Context,
		id uint,
	) (*models.WorkerProfile, error)

	GetWorkerByUserID(
		ctx context.Context,
		userID uint,
	) (*models.WorkerProfile, error)

	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	// -------- Appointment (create / conflict) --------
	// CountSlotConflicts locks and counts active appointments holding the
	// worker/date/slot. Active means confirmed or in_progress.
	CountSlotConflicts(
		ctx context.Context,
		workerID uint,
		date time.Time,
		slot string,
	) (int64, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Reads --------
	List(
		ctx context.Context,
		f Filter,
	) ([]models.Appointment, error)

	// ListTakenSlots returns the slot labels already held for a worker on a
	// day by pending or active appointments.
	ListTakenSlots(
		ctx context.Context,
		workerID uint,
		date time.Time,
	) ([]string, error)

	GetSchedule(
		ctx context.Context,
		workerID uint,
		weekday int,
	) (*models.WorkerSchedule, error)

	// -------- Loyalty ledger --------
	AppendLoyalty(
		ctx context.Context,
		entry *models.LoyaltyTransaction,
	) error
}
