package db

import (
	"bookd/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil {
		return nil
	}
	return db.Gorm.AutoMigrate(
		&models.Market{},
		&models.Bet{},
		&models.Claim{},
		&models.Payout{},
	)
}
