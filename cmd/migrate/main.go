// Command migrate creates or updates the tables schema. It is safe to run
// repeatedly.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/clubsantiago/sistema-billar/config"
	"github.com/clubsantiago/sistema-billar/database"
	"github.com/clubsantiago/sistema-billar/utils"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)

	db, err := database.Open(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
}
