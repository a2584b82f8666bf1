package loyalty

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bellenoire/salon-api/internal/models"
)

// Ledger entry types. Earned entries are positive, redemptions negative;
// adjustments carry whichever sign the correction needs.
const (
	TypeEarnedAppointment = "earned_appointment"
	TypeEarnedReferral    = "earned_referral"
	TypeRedeemedService   = "redeemed_service"
	TypeBonus             = "bonus"
	TypeAdjustment        = "adjustment"
)

func IsValidType(t string) bool {
	switch t {
	case TypeEarnedAppointment, TypeEarnedReferral,
		TypeRedeemedService, TypeBonus, TypeAdjustment:
		return true
	}
	return false
}

// Append writes one ledger row on the caller's transaction handle. It must
// only run inside the same transaction that mutates the paired
// ClientProfile.LoyaltyPoints cache, or the cache-equals-sum invariant breaks.
func Append(ctx context.Context, tx *gorm.DB, entry *models.LoyaltyTransaction) error {
	if entry.ClientID == 0 {
		return fmt.Errorf("loyalty: client id required")
	}
	if !IsValidType(entry.Type) {
		return fmt.Errorf("loyalty: invalid entry type %q", entry.Type)
	}
	return tx.WithContext(ctx).Create(entry).Error
}

// Balance recomputes a client's balance from the ledger. The profile cache
// must always equal this sum.
func Balance(ctx context.Context, db *gorm.DB, clientID uint) (int, error) {
	var sum *int
	err := db.WithContext(ctx).
		Model(&models.LoyaltyTransaction{}).
		Select("SUM(points)").
		Where("client_id = ?", clientID).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// Recent returns the latest ledger entries for a client, newest first.
func Recent(ctx context.Context, db *gorm.DB, clientID uint, limit int) ([]models.LoyaltyTransaction, error) {
	var entries []models.LoyaltyTransaction
	err := db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Drift is one client whose cached balance disagrees with the ledger sum.
type Drift struct {
	ClientID uint
	Cached   int
	Ledger   int
}

// Reconcile scans every client profile against the ledger. Run out of band;
// a non-empty result means some code path updated the cache without a paired
// ledger row.
func Reconcile(ctx context.Context, db *gorm.DB) ([]Drift, error) {
	var profiles []models.ClientProfile
	if err := db.WithContext(ctx).Find(&profiles).Error; err != nil {
		return nil, err
	}

	var drifts []Drift
	for _, p := range profiles {
		ledger, err := Balance(ctx, db, p.ID)
		if err != nil {
			return nil, err
		}
		if ledger != p.LoyaltyPoints {
			drifts = append(drifts, Drift{
				ClientID: p.ID,
				Cached:   p.LoyaltyPoints,
				Ledger:   ledger,
			})
		}
	}
	return drifts, nil
}
