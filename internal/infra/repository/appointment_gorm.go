package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/bellenoire/salon-api/internal/domain/appointment"
	"github.com/bellenoire/salon-api/internal/loyalty"
	"github.com/bellenoire/salon-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Collaborators
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClientProfileByUserID(
	ctx context.Context,
	userID uint,
) (*models.ClientProfile, error) {

	var profile models.ClientProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *AppointmentGormRepository) GetClientProfile(
	ctx context.Context,
	id uint,
) (*models.ClientProfile, error) {

	var profile models.ClientProfile
	if err := r.db.WithContext(ctx).
		First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *AppointmentGormRepository) GetClientProfileForUpdate(
	ctx context.Context,
	id uint,
) (*models.ClientProfile, error) {

	var profile models.ClientProfile
	if err := forUpdate(r.db.WithContext(ctx)).
		First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *AppointmentGormRepository) SaveClientProfile(
	ctx context.Context,
	profile *models.ClientProfile,
) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *AppointmentGormRepository) GetWorker(
	ctx context.Context,
	id uint,
) (*models.WorkerProfile, error) {

	var worker models.WorkerProfile
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&worker, id).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *AppointmentGormRepository) GetWorkerByUserID(
	ctx context.Context,
	userID uint,
) (*models.WorkerProfile, error) {

	var worker models.WorkerProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&worker).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CountSlotConflicts(
	ctx context.Context,
	workerID uint,
	date time.Time,
	slot string,
) (int64, error) {

	// Lock the conflicting rows themselves. Postgres rejects FOR UPDATE on an
	// aggregate query, so the ids are fetched and counted here.
	var ids []uint
	if err := forUpdate(r.db.WithContext(ctx).
		Model(&models.Appointment{})).
		Where(
			"worker_id = ? AND date = ? AND time = ? AND status IN ?",
			workerID, date, slot, domain.ActiveStatuses,
		).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	return int64(len(ids)), nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		First(&ap, id).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *AppointmentGormRepository) List(
	ctx context.Context,
	f domain.Filter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client.User").
		Preload("Worker.User").
		Preload("Service")

	if f.Date != nil {
		q = q.Where("date = ?", *f.Date)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.WorkerID != nil {
		q = q.Where("worker_id = ?", *f.WorkerID)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}

	var aps []models.Appointment
	if err := q.
		Order("date ASC, time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

func (r *AppointmentGormRepository) ListTakenSlots(
	ctx context.Context,
	workerID uint,
	date time.Time,
) ([]string, error) {

	var slots []string
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"worker_id = ? AND date = ? AND status IN ?",
			workerID, date,
			[]string{
				string(domain.StatusPending),
				string(domain.StatusConfirmed),
				string(domain.StatusInProgress),
			},
		).
		Pluck("time", &slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *AppointmentGormRepository) GetSchedule(
	ctx context.Context,
	workerID uint,
	weekday int,
) (*models.WorkerSchedule, error) {

	var ws models.WorkerSchedule
	if err := r.db.WithContext(ctx).
		Where("worker_id = ? AND weekday = ?", workerID, weekday).
		First(&ws).Error; err != nil {
		return nil, err
	}

	return &ws, nil
}

// --------------------------------------------------
// Loyalty ledger
// --------------------------------------------------

func (r *AppointmentGormRepository) AppendLoyalty(
	ctx context.Context,
	entry *models.LoyaltyTransaction,
) error {
	return loyalty.Append(ctx, r.db, entry)
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
