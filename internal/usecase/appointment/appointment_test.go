package appointment

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bellenoire/salon-api/internal/cache"
	dbpkg "github.com/bellenoire/salon-api/internal/db"
	domain "github.com/bellenoire/salon-api/internal/domain/appointment"
	"github.com/bellenoire/salon-api/internal/infra/repository"
	"github.com/bellenoire/salon-api/internal/models"
	"github.com/bellenoire/salon-api/internal/notify"
	"github.com/bellenoire/salon-api/internal/usecase/pos"
)

// ======================================================
// TEST FIXTURES
// ======================================================

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))
	return db
}

func newBook(db *gorm.DB) *Book {
	repo := repository.NewAppointmentGormRepository(db)
	return NewBook(
		repo,
		pos.NewReserve(repository.NewSaleGormRepository(db), "BN", time.UTC),
		notify.NewDispatcher(db, zerolog.Nop()),
		cache.NewAvailability(nil),
		zerolog.Nop(),
		time.UTC,
	)
}

func newCancel(db *gorm.DB) *Cancel {
	return NewCancel(
		repository.NewAppointmentGormRepository(db),
		notify.NewDispatcher(db, zerolog.Nop()),
		cache.NewAvailability(nil),
		zerolog.Nop(),
		time.UTC,
	)
}

func newList(db *gorm.DB) *List {
	return NewList(repository.NewAppointmentGormRepository(db), time.UTC)
}

func newSlots(db *gorm.DB) *AvailableSlots {
	return NewAvailableSlots(
		repository.NewAppointmentGormRepository(db),
		cache.NewAvailability(nil),
		zerolog.Nop(),
		time.UTC,
	)
}

type clientFixture struct {
	User    models.User
	Profile models.ClientProfile
}

func seedClient(t *testing.T, db *gorm.DB) clientFixture {
	t.Helper()

	user := models.User{
		Name:         "Awa Mbemba",
		Email:        uuid.NewString() + "@example.cd",
		PasswordHash: "x",
		Role:         "client",
	}
	require.NoError(t, db.Create(&user).Error)

	profile := models.ClientProfile{
		UserID:       user.ID,
		ReferralCode: uuid.NewString(),
	}
	require.NoError(t, db.Create(&profile).Error)

	return clientFixture{User: user, Profile: profile}
}

func seedWorker(t *testing.T, db *gorm.DB) *models.WorkerProfile {
	t.Helper()

	user := models.User{
		Name:         "Grace Ilunga",
		Email:        uuid.NewString() + "@example.cd",
		PasswordHash: "x",
		Role:         "worker",
	}
	require.NoError(t, db.Create(&user).Error)

	worker := models.WorkerProfile{UserID: user.ID, Position: "Stylist"}
	require.NoError(t, db.Create(&worker).Error)
	return &worker
}

func seedService(t *testing.T, db *gorm.DB, price string) *models.Service {
	t.Helper()

	p, err := decimal.NewFromString(price)
	require.NoError(t, err)

	service := models.Service{
		Name:        "Tresses Box Braids",
		DurationMin: 120,
		Price:       p,
		Active:      true,
	}
	require.NoError(t, db.Create(&service).Error)
	return &service
}

// 2026-03-14 is a Saturday.
const testDay = "2026-03-14"

func testDate() time.Time {
	return time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
}

func seedAppointment(
	t *testing.T,
	db *gorm.DB,
	clientID uint,
	worker *models.WorkerProfile,
	service *models.Service,
	slot string,
	status domain.Status,
) *models.Appointment {
	t.Helper()

	ap := models.Appointment{
		ClientID:      clientID,
		WorkerID:      worker.ID,
		ServiceID:     service.ID,
		Date:          testDate(),
		Time:          slot,
		DurationMin:   service.DurationMin,
		Price:         service.Price,
		Location:      domain.LocationSalon,
		Status:        string(status),
		PaymentStatus: domain.PaymentUnpaid,
	}
	require.NoError(t, db.Create(&ap).Error)
	return &ap
}
