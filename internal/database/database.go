package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/geoexplorer/core/internal/models"
)

// Connect opens the MySQL connection and migrates the schema.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate keeps the schema in sync with the model definitions.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.UserModel{},
		&models.UserSession{},
		&models.BusinessProfileModel{},
		&models.SearchTermModel{},
		&models.AIModelModel{},
		&models.SearchLogModel{},
		&models.AnalysisModel{},
	); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}
