package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bellenoire/salon-api/internal/audit"
	"github.com/bellenoire/salon-api/internal/httperr"
	"github.com/bellenoire/salon-api/internal/httpresp"
	"github.com/bellenoire/salon-api/internal/middleware"
	usecase "github.com/bellenoire/salon-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book       *usecase.Book
	cancel     *usecase.Cancel
	list       *usecase.List
	slots      *usecase.AvailableSlots
	auditTrail *audit.Dispatcher
}

func NewAppointmentHandler(
	book *usecase.Book,
	cancel *usecase.Cancel,
	list *usecase.List,
	slots *usecase.AvailableSlots,
	auditTrail *audit.Dispatcher,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:       book,
		cancel:     cancel,
		list:       list,
		slots:      slots,
		auditTrail: auditTrail,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	WorkerID  uint   `json:"worker_id" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`

	Location string   `json:"location"`
	AddOns   []string `json:"add_ons"`
	Notes    string   `json:"notes"`

	ReservePayment bool `json:"reserve_payment"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	if role != middleware.RoleClient {
		httperr.Forbidden(c, "forbidden", "Seuls les clients peuvent réserver.")
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}

	out, err := h.book.Execute(c.Request.Context(), usecase.BookInput{
		ClientUserID:   userID,
		WorkerID:       req.WorkerID,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		Time:           req.Time,
		Location:       req.Location,
		AddOns:         req.AddOns,
		Notes:          req.Notes,
		ReservePayment: req.ReservePayment,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	h.auditTrail.Dispatch(audit.Event{
		ActorID:  &userID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &out.Appointment.ID,
		Metadata: gin.H{"date": req.Date, "time": req.Time, "worker_id": req.WorkerID},
	})

	httpresp.Created(c, out)
}

// ======================================================
// READS
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	in := usecase.ListInput{
		Date:        c.Query("date"),
		Status:      c.Query("status"),
		ActorUserID: userID,
		ActorRole:   role,
	}
	if raw := c.Query("worker_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_worker_id", "Identifiant invalide.")
			return
		}
		workerID := uint(id)
		in.WorkerID = &workerID
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

	aps, err := h.list.Execute(c.Request.Context(), in)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	raw := c.Query("worker_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_worker_id", "Identifiant invalide.")
		return
	}

	slots, err := h.slots.Execute(c.Request.Context(), usecase.AvailableSlotsInput{
		WorkerID: uint(id),
		Date:     c.Query("date"),
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"slots": slots})
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identifiant invalide.")
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancel.Execute(c.Request.Context(), usecase.CancelInput{
		AppointmentID: uint(id),
		Reason:        req.Reason,
		ActorUserID:   userID,
		ActorRole:     role,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	h.auditTrail.Dispatch(audit.Event{
		ActorID:  &userID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: gin.H{"reason": req.Reason},
	})

	httpresp.OK(c, ap)
}
