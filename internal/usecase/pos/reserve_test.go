package pos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apdomain "github.com/bellenoire/salon-api/internal/domain/appointment"
	domain "github.com/bellenoire/salon-api/internal/domain/sale"
	"github.com/bellenoire/salon-api/internal/httperr"
	"github.com/bellenoire/salon-api/internal/models"
)

func TestReserveOpensProvisionalSale(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	client := seedClient(t, db, 0)
	worker := seedWorker(t, db)
	service := seedService(t, db, "9000")
	ap := seedAppointment(t, db, client, worker, service, apdomain.StatusPending)

	sale, err := newReserve(db).Execute(ctx, ap.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentPending, sale.PaymentStatus)
	assert.True(t, sale.Total.Equal(service.Price))
	assert.NotEmpty(t, sale.ReceiptNumber)

	// No money moved yet: aggregates and ledger untouched.
	var profile models.ClientProfile
	require.NoError(t, db.First(&profile, client.ID).Error)
	assert.True(t, profile.TotalSpent.IsZero())
	assert.Equal(t, 0, ledgerSum(t, db, client.ID))
}

func TestReserveIsIdempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	client := seedClient(t, db, 0)
	worker := seedWorker(t, db)
	service := seedService(t, db, "9000")
	ap := seedAppointment(t, db, client, worker, service, apdomain.StatusPending)

	reserve := newReserve(db)
	first, err := reserve.Execute(ctx, ap.ID)
	require.NoError(t, err)

	second, err := reserve.Execute(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Sale{}).
		Where("appointment_id = ?", ap.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSettleCompletesReservedSaleInPlace(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	client := seedClient(t, db, 0)
	worker := seedWorker(t, db)
	service := seedService(t, db, "9000")
	ap := seedAppointment(t, db, client, worker, service, apdomain.StatusConfirmed)

	reserved, err := newReserve(db).Execute(ctx, ap.ID)
	require.NoError(t, err)

	settled, err := newSettle(t, db).Execute(ctx, SettleInput{
		AppointmentID: &ap.ID,
		Items:         []SettleItemInput{{ServiceID: service.ID, Quantity: 1, Price: service.Price}},
		PaymentMethod: domain.MethodCash,
		Tip:           dec(t, "500"),
	})
	require.NoError(t, err)

	// Same row, completed, with a fresh receipt for settlement day.
	assert.Equal(t, reserved.ID, settled.ID)
	assert.Equal(t, domain.PaymentCompleted, settled.PaymentStatus)
	assert.True(t, settled.Total.Equal(dec(t, "9501.60")), "total %s", settled.Total)

	// The provisional payment is flipped, not duplicated, and keeps the
	// amount it was created with.
	require.Len(t, settled.Payments, 1)
	assert.Equal(t, domain.PaymentCompleted, settled.Payments[0].Status)
	assert.True(t, settled.Payments[0].Amount.Equal(service.Price))

	var count int64
	require.NoError(t, db.Model(&models.Sale{}).
		Where("appointment_id = ?", ap.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReserveRejectsSettledAppointment(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	client := seedClient(t, db, 0)
	worker := seedWorker(t, db)
	service := seedService(t, db, "9000")
	ap := seedAppointment(t, db, client, worker, service, apdomain.StatusConfirmed)

	_, err := newSettle(t, db).Execute(ctx, SettleInput{
		AppointmentID: &ap.ID,
		Items:         []SettleItemInput{{ServiceID: service.ID, Quantity: 1, Price: service.Price}},
		PaymentMethod: domain.MethodCash,
	})
	require.NoError(t, err)

	_, err = newReserve(db).Execute(ctx, ap.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState), "got %v", err)
}

func TestReserveUnknownAppointment(t *testing.T) {
	db := testDB(t)

	_, err := newReserve(db).Execute(context.Background(), 31337)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound), "got %v", err)
}
