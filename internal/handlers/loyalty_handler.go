package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	dberr "github.com/bellenoire/salon-api/internal/db"
	"github.com/bellenoire/salon-api/internal/httperr"
	"github.com/bellenoire/salon-api/internal/httpresp"
	"github.com/bellenoire/salon-api/internal/loyalty"
	"github.com/bellenoire/salon-api/internal/middleware"
	"github.com/bellenoire/salon-api/internal/models"
)

const recentLedgerEntries = 20

type LoyaltyHandler struct {
	db *gorm.DB
}

func NewLoyaltyHandler(db *gorm.DB) *LoyaltyHandler {
	return &LoyaltyHandler{db: db}
}

// Points returns the caller's loyalty balance and recent ledger activity.
func (h *LoyaltyHandler) Points(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	ctx := c.Request.Context()

	var profile models.ClientProfile
	if err := h.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		if dberr.IsNotFound(err) {
			httperr.NotFound(c, "not_found", "Profil client introuvable.")
			return
		}
		httperr.Internal(c, "internal_error", "Une erreur interne est survenue.")
		return
	}

	entries, err := loyalty.Recent(ctx, h.db, profile.ID, recentLedgerEntries)
	if err != nil {
		httperr.Internal(c, "internal_error", "Une erreur interne est survenue.")
		return
	}

	httpresp.OK(c, gin.H{
		"points":        profile.LoyaltyPoints,
		"tier":          profile.Tier,
		"referral_code": profile.ReferralCode,
		"transactions":  entries,
	})
}
