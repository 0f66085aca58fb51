package database

import (
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Staff{},
		&models.Table{},
		&models.Menu{},
		&models.Ingredient{},
		&models.MenuIngredient{},
		&models.Order{},
		&models.OrderDetail{},
		&models.Payment{},
		&models.Reservation{},
		&models.ActivityLog{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
