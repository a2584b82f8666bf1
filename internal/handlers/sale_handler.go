package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bellenoire/salon-api/internal/audit"
	dberr "github.com/bellenoire/salon-api/internal/db"
	"github.com/bellenoire/salon-api/internal/httperr"
	"github.com/bellenoire/salon-api/internal/httpresp"
	"github.com/bellenoire/salon-api/internal/middleware"
	"github.com/bellenoire/salon-api/internal/models"
	"github.com/bellenoire/salon-api/internal/usecase/pos"
)

// ======================================================
// HANDLER
// ======================================================

type SaleHandler struct {
	db         *gorm.DB
	list       *pos.ListSales
	refund     *pos.Refund
	auditTrail *audit.Dispatcher
}

func NewSaleHandler(
	db *gorm.DB,
	list *pos.ListSales,
	refund *pos.Refund,
	auditTrail *audit.Dispatcher,
) *SaleHandler {
	return &SaleHandler{
		db:         db,
		list:       list,
		refund:     refund,
		auditTrail: auditTrail,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type RefundRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// READS
// ======================================================

func (h *SaleHandler) List(c *gin.Context) {
	in := pos.ListSalesInput{
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	if raw := c.Query("client_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_client_id", "Identifiant invalide.")
			return
		}
		clientID := uint(id)
		in.ClientID = &clientID
	}

	sales, err := h.list.Execute(c.Request.Context(), in)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.List(c, sales)
}

func (h *SaleHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identifiant invalide.")
		return
	}

	var sale models.Sale
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Items").
		Preload("Payments").
		First(&sale, uint(id)).Error; err != nil {
		if dberr.IsNotFound(err) {
			httperr.NotFound(c, "not_found", "Vente introuvable.")
			return
		}
		httperr.Internal(c, "internal_error", "Une erreur interne est survenue.")
		return
	}

	httpresp.OK(c, sale)
}

// ======================================================
// REFUND
// ======================================================

func (h *SaleHandler) Refund(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identifiant invalide.")
		return
	}

	var req RefundRequest
	_ = c.ShouldBindJSON(&req)

	sale, err := h.refund.Execute(c.Request.Context(), pos.RefundInput{
		SaleID: uint(id),
		Reason: req.Reason,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	h.auditTrail.Dispatch(audit.Event{
		ActorID:  &userID,
		Action:   "sale_refunded",
		Entity:   "sale",
		EntityID: &sale.ID,
		Metadata: gin.H{
			"receipt_number": sale.ReceiptNumber,
			"total":          sale.Total,
			"reason":         req.Reason,
		},
	})

	httpresp.OK(c, sale)
}
