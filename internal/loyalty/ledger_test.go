package loyalty

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bellenoire/salon-api/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ClientProfile{},
		&models.LoyaltyTransaction{},
	))
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, points int) *models.ClientProfile {
	t.Helper()

	user := models.User{
		Name:         "Awa Mbemba",
		Email:        uuid.NewString() + "@example.cd",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)

	profile := models.ClientProfile{
		UserID:        user.ID,
		LoyaltyPoints: points,
		ReferralCode:  uuid.NewString(),
	}
	require.NoError(t, db.Create(&profile).Error)
	return &profile
}

func TestAppendValidatesEntries(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := Append(ctx, db, &models.LoyaltyTransaction{Points: 5, Type: TypeBonus})
	assert.ErrorContains(t, err, "client id required")

	err = Append(ctx, db, &models.LoyaltyTransaction{ClientID: 1, Points: 5, Type: "gift"})
	assert.ErrorContains(t, err, "invalid entry type")
}

func TestBalanceSumsSignedEntries(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	profile := seedProfile(t, db, 0)

	entries := []models.LoyaltyTransaction{
		{ClientID: profile.ID, Points: 100, Type: TypeEarnedAppointment},
		{ClientID: profile.ID, Points: -30, Type: TypeRedeemedService},
		{ClientID: profile.ID, Points: 5, Type: TypeBonus},
	}
	for i := range entries {
		require.NoError(t, Append(ctx, db, &entries[i]))
	}

	balance, err := Balance(ctx, db, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, balance)
}

func TestBalanceEmptyLedger(t *testing.T) {
	db := testDB(t)

	balance, err := Balance(context.Background(), db, 999)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestRecentNewestFirst(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	profile := seedProfile(t, db, 0)

	for i := 1; i <= 5; i++ {
		require.NoError(t, Append(ctx, db, &models.LoyaltyTransaction{
			ClientID: profile.ID,
			Points:   i,
			Type:     TypeEarnedAppointment,
		}))
	}

	entries, err := Recent(ctx, db, profile.ID, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 5, entries[0].Points)
	assert.Equal(t, 3, entries[2].Points)
}

func TestReconcileFindsDrift(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	clean := seedProfile(t, db, 40)
	require.NoError(t, Append(ctx, db, &models.LoyaltyTransaction{
		ClientID: clean.ID,
		Points:   40,
		Type:     TypeBonus,
	}))

	// Cached balance mutated without a paired ledger row.
	drifted := seedProfile(t, db, 25)

	drifts, err := Reconcile(ctx, db)
	require.NoError(t, err)

	require.Len(t, drifts, 1)
	assert.Equal(t, drifted.ID, drifts[0].ClientID)
	assert.Equal(t, 25, drifts[0].Cached)
	assert.Equal(t, 0, drifts[0].Ledger)
}
