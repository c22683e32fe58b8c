package postgres

import (
	"fmt"
	"time"

	"github.com/dom/lightprompt/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every persisted entity in migration order
var Models = []any{
	&domain.User{},
	&domain.UserProfile{},
	&domain.ChatSession{},
	&domain.Message{},
	&domain.AccessCode{},
	&domain.WellnessMetric{},
	&domain.Habit{},
	&domain.HabitEntry{},
	&domain.AppleHealthData{},
	&domain.HomeKitData{},
	&domain.FitnessData{},
	&domain.WellnessPattern{},
	&domain.Recommendation{},
	&domain.DeviceIntegration{},
}

// NewConnection opens the database and migrates the schema. Verbose SQL
// logging is only enabled when debug is set.
func NewConnection(databaseURL string, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates all tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
