package infra

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"gallerytour/internal/config"
	"gallerytour/internal/models/db_models"
)

func InitPostgresql(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Printf("Error connecting to database: %v", err)
		log.Fatal("Error connecting to database")
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("Error migrating database schema: %v", err)
	}

	return db
}

// Migrate creates or updates the schema for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&db_models.Exhibit{},
		&db_models.Image{},
		&db_models.Question{},
		&db_models.Session{},
		&db_models.Answer{},
		&db_models.Event{},
	)
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	}
}

// Ping round-trips the underlying connection; the health endpoint
// reports its result.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
