package database

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedDevData fills an empty database with a small demo restaurant. It does
// nothing once any staff account exists.
func SeedDevData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Staff{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		hash, err := bcrypt.GenerateFromPassword([]byte("rahasia"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		staff := []models.Staff{
			{Username: "owner", DisplayName: "Pemilik", Role: models.RoleOwner, Active: true, PasswordHash: string(hash)},
			{Username: "kasir", DisplayName: "Kasir", Role: models.RoleCashier, Active: true, PasswordHash: string(hash)},
			{Username: "pelayan", DisplayName: "Pelayan", Role: models.RoleWaiter, Active: true, PasswordHash: string(hash)},
			{Username: "koki", DisplayName: "Koki", Role: models.RoleCook, Active: true, PasswordHash: string(hash)},
		}
		if err := tx.Create(&staff).Error; err != nil {
			return err
		}

		var tables []models.Table
		for _, n := range []string{"1", "2", "3", "4", "5", "6"} {
			tables = append(tables, models.Table{Number: n, Status: models.TableEmpty, Active: true})
		}
		if err := tx.Create(&tables).Error; err != nil {
			return err
		}

		today := time.Now()
		menus := []models.Menu{
			{Name: "Nasi Goreng", Category: models.CategoryFood, Price: decimal.NewFromInt(25000), Stock: 30, Available: true, AddedOn: today},
			{Name: "Mie Ayam", Category: models.CategoryFood, Price: decimal.NewFromInt(20000), Stock: 30, Available: true, AddedOn: today},
			{Name: "Es Teh Manis", Category: models.CategoryDrink, Price: decimal.NewFromInt(6000), Stock: 100, Available: true, AddedOn: today},
			{Name: "Kopi Susu", Category: models.CategoryDrink, Price: decimal.NewFromInt(15000), Stock: 50, Available: true, AddedOn: today},
			{Name: "Pisang Goreng", Category: models.CategorySnack, Price: decimal.NewFromInt(12000), Stock: 20, Available: true, AddedOn: today},
		}
		if err := tx.Create(&menus).Error; err != nil {
			return err
		}

		utils.InfoLogger.Printf("Seeded %d staff, %d tables, %d menus", len(staff), len(tables), len(menus))
		return nil
	})
}
