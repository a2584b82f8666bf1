package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	dberr "github.com/bellenoire/salon-api/internal/db"
	"github.com/bellenoire/salon-api/internal/httperr"
	"github.com/bellenoire/salon-api/internal/httpresp"
	"github.com/bellenoire/salon-api/internal/models"
	"github.com/bellenoire/salon-api/internal/timezone"
)

type SalonHandler struct {
	db *gorm.DB
}

func NewSalonHandler(db *gorm.DB) *SalonHandler {
	return &SalonHandler{db: db}
}

type UpdateSalonRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`
}

func (h *SalonHandler) Get(c *gin.Context) {
	var salon models.SalonProfile
	if err := h.db.WithContext(c.Request.Context()).
		First(&salon).Error; err != nil {
		if dberr.IsNotFound(err) {
			httperr.NotFound(c, "not_found", "Profil du salon introuvable.")
			return
		}
		httperr.Internal(c, "internal_error", "Une erreur interne est survenue.")
		return
	}

	httpresp.OK(c, salon)
}

func (h *SalonHandler) Update(c *gin.Context) {
	var req UpdateSalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}

	if req.Timezone != "" && !timezone.IsValid(req.Timezone) {
		httperr.BadRequest(c, "invalid_timezone", "Fuseau horaire invalide.")
		return
	}

	ctx := c.Request.Context()

	var salon models.SalonProfile
	err := h.db.WithContext(ctx).First(&salon).Error
	switch {
	case dberr.IsNotFound(err):
		salon = models.SalonProfile{}
	case err != nil:
		httperr.Internal(c, "internal_error", "Une erreur interne est survenue.")
		return
	}

	salon.Name = req.Name
	salon.Phone = req.Phone
	salon.Address = req.Address
	salon.Timezone = req.Timezone

	if err := h.db.WithContext(ctx).Save(&salon).Error; err != nil {
		httperr.Internal(c, "internal_error", "Une erreur interne est survenue.")
		return
	}

	httpresp.OK(c, salon)
}
