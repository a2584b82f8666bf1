package db

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bellenoire/salon-api/internal/config"
	"github.com/bellenoire/salon-api/internal/models"
)

func NewDB(cfg *config.Config, log zerolog.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	return db
}

// Migrate is shared with the sqlite databases the tests run against.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.SalonProfile{},
		&models.User{},
		&models.ClientProfile{},
		&models.WorkerProfile{},
		&models.WorkerSchedule{},
		&models.Service{},
		&models.Appointment{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Payment{},
		&models.LoyaltyTransaction{},
		&models.DiscountCode{},
		&models.Notification{},
		&models.AuditLog{},
	)
}
