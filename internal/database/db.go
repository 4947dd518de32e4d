package database

import (
	"log"

	"plantops-backend/internal/config"
	"plantops-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.PowerPlant{},
		&models.Turbine{},
		&models.User{},
		&models.MorningReading{},
		&models.TurbineHourlyDeclaration{},
		&models.DailyReport{},
		&models.TurbineDailyStat{},
		&models.TurbineHourlyGeneration{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connected. Migration complete.")
}
