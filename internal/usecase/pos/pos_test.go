package pos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dbpkg "github.com/bellenoire/salon-api/internal/db"
	apdomain "github.com/bellenoire/salon-api/internal/domain/appointment"
	"github.com/bellenoire/salon-api/internal/infra/repository"
	"github.com/bellenoire/salon-api/internal/loyalty"
	"github.com/bellenoire/salon-api/internal/models"
	"github.com/bellenoire/salon-api/internal/notify"
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

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func newSettle(t *testing.T, db *gorm.DB) *Settle {
	t.Helper()
	return NewSettle(
		repository.NewSaleGormRepository(db),
		notify.NewDispatcher(db, zerolog.Nop()),
		dec(t, "1.60"),
		"BN",
		time.UTC,
	)
}

func newRefund(t *testing.T, db *gorm.DB) *Refund {
	t.Helper()
	return NewRefund(
		repository.NewSaleGormRepository(db),
		notify.NewDispatcher(db, zerolog.Nop()),
	)
}

func newReserve(db *gorm.DB) *Reserve {
	return NewReserve(repository.NewSaleGormRepository(db), "BN", time.UTC)
}

// seedClient creates a client with a starting balance. The balance is backed
// by a ledger row so the cache-equals-sum invariant holds from the start.
func seedClient(t *testing.T, db *gorm.DB, points int) *models.ClientProfile {
	t.Helper()

	user := models.User{
		Name:         "Awa Mbemba",
		Email:        uuid.NewString() + "@example.cd",
		PasswordHash: "x",
		Role:         "client",
	}
	require.NoError(t, db.Create(&user).Error)

	profile := models.ClientProfile{
		UserID:        user.ID,
		LoyaltyPoints: points,
		ReferralCode:  uuid.NewString(),
	}
	require.NoError(t, db.Create(&profile).Error)

	if points != 0 {
		require.NoError(t, db.Create(&models.LoyaltyTransaction{
			ClientID:    profile.ID,
			Points:      points,
			Type:        loyalty.TypeBonus,
			Description: "Opening balance",
		}).Error)
	}
	return &profile
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

	service := models.Service{
		Name:        "Tresses Box Braids",
		DurationMin: 120,
		Price:       dec(t, price),
		Active:      true,
	}
	require.NoError(t, db.Create(&service).Error)
	return &service
}

func seedAppointment(
	t *testing.T,
	db *gorm.DB,
	client *models.ClientProfile,
	worker *models.WorkerProfile,
	service *models.Service,
	status apdomain.Status,
) *models.Appointment {
	t.Helper()

	ap := models.Appointment{
		ClientID:      client.ID,
		WorkerID:      worker.ID,
		ServiceID:     service.ID,
		Date:          time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Time:          "14:30",
		DurationMin:   service.DurationMin,
		Price:         service.Price,
		Location:      apdomain.LocationSalon,
		Status:        string(status),
		PaymentStatus: apdomain.PaymentUnpaid,
	}
	require.NoError(t, db.Create(&ap).Error)
	return &ap
}

func ledgerSum(t *testing.T, db *gorm.DB, clientID uint) int {
	t.Helper()

	sum, err := loyalty.Balance(context.Background(), db, clientID)
	require.NoError(t, err)
	return sum
}
