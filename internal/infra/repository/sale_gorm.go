package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/bellenoire/salon-api/internal/domain/sale"
	"github.com/bellenoire/salon-api/internal/loyalty"
	"github.com/bellenoire/salon-api/internal/models"
)

type SaleGormRepository struct {
	db *gorm.DB
}

func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db}
}

func (r *SaleGormRepository) Transaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SaleGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *SaleGormRepository) GetAppointment(
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

func (r *SaleGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Client profile
// --------------------------------------------------

func (r *SaleGormRepository) GetClientProfileForUpdate(
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

func (r *SaleGormRepository) SaveClientProfile(
	ctx context.Context,
	profile *models.ClientProfile,
) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// --------------------------------------------------
// Discount code
// --------------------------------------------------

func (r *SaleGormRepository) GetDiscountCodeForUpdate(
	ctx context.Context,
	code string,
) (*models.DiscountCode, error) {

	var dc models.DiscountCode
	if err := forUpdate(r.db.WithContext(ctx)).
		Where("code = ?", code).
		First(&dc).Error; err != nil {
		return nil, err
	}
	return &dc, nil
}

func (r *SaleGormRepository) SaveDiscountCode(
	ctx context.Context,
	dc *models.DiscountCode,
) error {
	return r.db.WithContext(ctx).Save(dc).Error
}

// --------------------------------------------------
// Sale
// --------------------------------------------------

func (r *SaleGormRepository) FindPendingSaleForUpdate(
	ctx context.Context,
	appointmentID *uint,
	clientID uint,
) (*models.Sale, error) {

	q := forUpdate(r.db.WithContext(ctx)).
		Where("payment_status = ?", domain.PaymentPending)

	if appointmentID != nil {
		q = q.Where("appointment_id = ?", *appointmentID)
	} else {
		q = q.Where("appointment_id IS NULL AND client_id = ?", clientID)
	}

	var s models.Sale
	err := q.Preload("Payments").Order("id ASC").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleGormRepository) FindActiveSaleByAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.Sale, error) {

	var s models.Sale
	err := r.db.WithContext(ctx).
		Where(
			"appointment_id = ? AND payment_status <> ?",
			appointmentID, domain.PaymentRefunded,
		).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleGormRepository) CountSalesCreatedBetween(
	ctx context.Context,
	start time.Time,
	end time.Time,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SaleGormRepository) CreateSale(
	ctx context.Context,
	s *models.Sale,
) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SaleGormRepository) SaveSale(
	ctx context.Context,
	s *models.Sale,
) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SaleGormRepository) GetSale(
	ctx context.Context,
	id uint,
) (*models.Sale, error) {

	var s models.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleGormRepository) GetSaleForUpdate(
	ctx context.Context,
	id uint,
) (*models.Sale, error) {

	var s models.Sale
	if err := forUpdate(r.db.WithContext(ctx)).
		First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleGormRepository) ListSales(
	ctx context.Context,
	f domain.Filter,
) ([]models.Sale, error) {

	q := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments")

	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}

	var sales []models.Sale
	if err := q.
		Order("created_at DESC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *SaleGormRepository) SetPaymentsStatus(
	ctx context.Context,
	saleID uint,
	status string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("sale_id = ?", saleID).
		Update("status", status).Error
}

// --------------------------------------------------
// Loyalty ledger
// --------------------------------------------------

func (r *SaleGormRepository) AppendLoyalty(
	ctx context.Context,
	entry *models.LoyaltyTransaction,
) error {
	return loyalty.Append(ctx, r.db, entry)
}

// Compile-time check
var _ domain.Repository = (*SaleGormRepository)(nil)
