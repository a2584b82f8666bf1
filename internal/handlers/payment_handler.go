package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/bellenoire/salon-api/internal/audit"
	"github.com/bellenoire/salon-api/internal/httperr"
	"github.com/bellenoire/salon-api/internal/httpresp"
	"github.com/bellenoire/salon-api/internal/middleware"
	"github.com/bellenoire/salon-api/internal/usecase/pos"
)

// ======================================================
// HANDLER
// ======================================================

type PaymentHandler struct {
	settle     *pos.Settle
	auditTrail *audit.Dispatcher
}

func NewPaymentHandler(settle *pos.Settle, auditTrail *audit.Dispatcher) *PaymentHandler {
	return &PaymentHandler{settle: settle, auditTrail: auditTrail}
}

// ======================================================
// REQUESTS
// ======================================================

type SaleItemRequest struct {
	ServiceID uint            `json:"service_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	Price     decimal.Decimal `json:"price"`
}

type ProcessPaymentRequest struct {
	AppointmentID *uint `json:"appointment_id"`
	ClientID      *uint `json:"client_id"`

	Items         []SaleItemRequest `json:"items" binding:"required"`
	PaymentMethod string            `json:"payment_method" binding:"required"`

	DiscountCode      string          `json:"discount_code"`
	LoyaltyPointsUsed int             `json:"loyalty_points_used"`
	Tip               decimal.Decimal `json:"tip"`
}

// ======================================================
// PROCESS
// ======================================================

func (h *PaymentHandler) Process(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}

	items := make([]pos.SettleItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = pos.SettleItemInput{
			ServiceID: item.ServiceID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	sale, err := h.settle.Execute(c.Request.Context(), pos.SettleInput{
		AppointmentID:     req.AppointmentID,
		ClientID:          req.ClientID,
		Items:             items,
		PaymentMethod:     req.PaymentMethod,
		DiscountCode:      req.DiscountCode,
		LoyaltyPointsUsed: req.LoyaltyPointsUsed,
		Tip:               req.Tip,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	h.auditTrail.Dispatch(audit.Event{
		ActorID:  &userID,
		Action:   "sale_settled",
		Entity:   "sale",
		EntityID: &sale.ID,
		Metadata: gin.H{
			"receipt_number": sale.ReceiptNumber,
			"total":          sale.Total,
			"payment_method": sale.PaymentMethod,
		},
	})

	httpresp.OK(c, sale)
}
