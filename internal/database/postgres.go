package database

import (
	"fmt"

	"hyphema-tracker/internal/config"
	"hyphema-tracker/internal/database/migrations"
	"hyphema-tracker/internal/domain"
	"hyphema-tracker/internal/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	// The healing curve is always read per (injury, side) ordered by date;
	// the composite index keeps that query from scanning the table.
	migrations.Register("001_eye_curve_index", func(db *gorm.DB) error {
		return db.Exec("CREATE INDEX IF NOT EXISTS idx_eyes_injury_side_date ON eyes (injury_id, side, date)").Error
	}, func(db *gorm.DB) error {
		return db.Exec("DROP INDEX IF EXISTS idx_eyes_injury_side_date").Error
	})
}

// NewPostgresDB opens the database connection and brings the schema up to date.
func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("Database connection established and migrations completed")
	return db, nil
}

// Migrate applies the schema for all entities plus registered migrations.
// Split out so tests can run it against SQLite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Patient{},
		&domain.Injury{},
		&domain.Eye{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
