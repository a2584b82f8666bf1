package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bellenoire/salon-api/internal/audit"
	"github.com/bellenoire/salon-api/internal/cache"
	"github.com/bellenoire/salon-api/internal/config"
	"github.com/bellenoire/salon-api/internal/handlers"
	infraRepo "github.com/bellenoire/salon-api/internal/infra/repository"
	"github.com/bellenoire/salon-api/internal/middleware"
	"github.com/bellenoire/salon-api/internal/notify"
	"github.com/bellenoire/salon-api/internal/timezone"
	ucAppointment "github.com/bellenoire/salon-api/internal/usecase/appointment"
	"github.com/bellenoire/salon-api/internal/usecase/pos"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) {

	loc := timezone.Location(cfg.Timezone)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	saleRepo := infraRepo.NewSaleGormRepository(db)

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	notifyDispatcher := notify.NewDispatcher(db, log)
	availability := cache.NewAvailability(rdb)

	// ======================================================
	// USE CASES — POS
	// ======================================================
	reserveUC := pos.NewReserve(saleRepo, cfg.ReceiptPrefix, loc)

	settleUC := pos.NewSettle(
		saleRepo,
		notifyDispatcher,
		cfg.TaxAmount,
		cfg.ReceiptPrefix,
		loc,
	)

	refundUC := pos.NewRefund(saleRepo, notifyDispatcher)
	listSalesUC := pos.NewListSales(saleRepo, loc)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	bookUC := ucAppointment.NewBook(
		appointmentRepo,
		reserveUC,
		notifyDispatcher,
		availability,
		log,
		loc,
	)

	cancelUC := ucAppointment.NewCancel(
		appointmentRepo,
		notifyDispatcher,
		availability,
		log,
		loc,
	)

	listUC := ucAppointment.NewList(appointmentRepo, loc)

	slotsUC := ucAppointment.NewAvailableSlots(
		appointmentRepo,
		availability,
		log,
		loc,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)

	appointmentHandler := handlers.NewAppointmentHandler(
		bookUC,
		cancelUC,
		listUC,
		slotsUC,
		auditDispatcher,
	)

	paymentHandler := handlers.NewPaymentHandler(settleUC, auditDispatcher)
	saleHandler := handlers.NewSaleHandler(db, listSalesUC, refundUC, auditDispatcher)
	loyaltyHandler := handlers.NewLoyaltyHandler(db)
	salonHandler := handlers.NewSalonHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/available-slots", appointmentHandler.AvailableSlots)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

			secured.GET("/loyalty/points", loyaltyHandler.Points)

			secured.GET("/salon", salonHandler.Get)
			admin := secured.Group("/")
			admin.Use(middleware.RequireRole(middleware.RoleAdmin))
			{
				admin.PUT("/salon", salonHandler.Update)
			}

			// Till operations are staff-only.
			till := secured.Group("/")
			till.Use(middleware.RequireRole(middleware.RoleWorker, middleware.RoleAdmin))
			{
				till.POST("/payments/process", paymentHandler.Process)
				till.GET("/sales", saleHandler.List)
				till.GET("/sales/:id", saleHandler.Get)
				till.POST("/sales/:id/refund", saleHandler.Refund)
			}
		}
	}
}
