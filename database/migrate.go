package database

import (
	"gorm.io/gorm"

	"github.com/clubsantiago/sistema-billar/models"
	"github.com/clubsantiago/sistema-billar/utils"
)

// Migrate creates or extends the schema. It is idempotent and meant to run
// out of band (cmd/migrate), never from the serving process.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Table{}); err != nil {
		return err
	}
	utils.InfoLogger.Info("AutoMigrate completed.")
	return nil
}
