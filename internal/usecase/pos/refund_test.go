package pos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apdomain "github.com/bellenoire/salon-api/internal/domain/appointment"
	domain "github.com/bellenoire/salon-api/internal/domain/sale"
	"github.com/bellenoire/salon-api/internal/httperr"
	"github.com/bellenoire/salon-api/internal/loyalty"
	"github.com/bellenoire/salon-api/internal/models"
)

func TestRefundReversesSettlement(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	client := seedClient(t, db, 100)
	worker := seedWorker(t, db)
	service := seedService(t, db, "15000")
	ap := seedAppointment(t, db, client, worker, service, apdomain.StatusConfirmed)

	sale, err := newSettle(t, db).Execute(ctx, SettleInput{
		AppointmentID:     &ap.ID,
		Items:             []SettleItemInput{{ServiceID: service.ID, Quantity: 1, Price: service.Price}},
		PaymentMethod:     domain.MethodCash,
		LoyaltyPointsUsed: 50,
	})
	require.NoError(t, err)

	var before models.ClientProfile
	require.NoError(t, db.First(&before, client.ID).Error)

	refunded, err := newRefund(t, db).Execute(ctx, RefundInput{
		SaleID: sale.ID,
		Reason: "Cliente insatisfaite",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentRefunded, refunded.PaymentStatus)
	assert.Contains(t, refunded.Notes, "[Refund] Cliente insatisfaite")
	for _, p := range refunded.Payments {
		assert.Equal(t, domain.PaymentRefunded, p.Status)
	}

	var after models.ClientProfile
	require.NoError(t, db.First(&after, client.ID).Error)

	// Redeemed points come back; earned points and the appointment counter stay.
	assert.Equal(t, before.LoyaltyPoints+50, after.LoyaltyPoints)
	assert.True(t, after.TotalSpent.Equal(before.TotalSpent.Sub(sale.Total)),
		"total spent %s", after.TotalSpent)
	assert.Equal(t, before.TotalAppointments, after.TotalAppointments)
	assert.Equal(t, after.LoyaltyPoints, ledgerSum(t, db, client.ID))

	var adjustment models.LoyaltyTransaction
	require.NoError(t, db.
		Where("client_id = ? AND type = ?", client.ID, loyalty.TypeAdjustment).
		First(&adjustment).Error)
	assert.Equal(t, 50, adjustment.Points)
	require.NotNil(t, adjustment.RelatedID)
	assert.Equal(t, sale.ID, *adjustment.RelatedID)

	// The appointment stays completed; a refund is financial only.
	var gotAp models.Appointment
	require.NoError(t, db.First(&gotAp, ap.ID).Error)
	assert.Equal(t, string(apdomain.StatusCompleted), gotAp.Status)
}

func TestRefundWithoutRedemptionAddsNoLedgerRow(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	client := seedClient(t, db, 0)
	service := seedService(t, db, "4000")

	sale, err := newSettle(t, db).Execute(ctx, SettleInput{
		ClientID:      &client.ID,
		Items:         []SettleItemInput{{ServiceID: service.ID, Quantity: 1, Price: service.Price}},
		PaymentMethod: domain.MethodCard,
	})
	require.NoError(t, err)

	_, err = newRefund(t, db).Execute(ctx, RefundInput{SaleID: sale.ID})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.LoyaltyTransaction{}).
		Where("client_id = ? AND type = ?", client.ID, loyalty.TypeAdjustment).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestRefundTwiceIsRejected(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	client := seedClient(t, db, 0)
	service := seedService(t, db, "4000")

	sale, err := newSettle(t, db).Execute(ctx, SettleInput{
		ClientID:      &client.ID,
		Items:         []SettleItemInput{{ServiceID: service.ID, Quantity: 1, Price: service.Price}},
		PaymentMethod: domain.MethodCash,
	})
	require.NoError(t, err)

	refund := newRefund(t, db)
	_, err = refund.Execute(ctx, RefundInput{SaleID: sale.ID})
	require.NoError(t, err)

	var before models.ClientProfile
	require.NoError(t, db.First(&before, client.ID).Error)

	_, err = refund.Execute(ctx, RefundInput{SaleID: sale.ID})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAlreadyRefunded), "got %v", err)

	// The double refund must not touch aggregates again.
	var after models.ClientProfile
	require.NoError(t, db.First(&after, client.ID).Error)
	assert.Equal(t, before.LoyaltyPoints, after.LoyaltyPoints)
	assert.True(t, after.TotalSpent.Equal(before.TotalSpent))
}

func TestRefundUnknownSale(t *testing.T) {
	db := testDB(t)

	_, err := newRefund(t, db).Execute(context.Background(), RefundInput{SaleID: 424242})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound), "got %v", err)
}
