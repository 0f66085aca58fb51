package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Menu struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Category    MenuCategory    `gorm:"type:varchar(20);not null;index" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock       int             `gorm:"not null;check:stock >= 0" json:"stock"`
	Available   Flag            `gorm:"type:integer;not null" json:"available"`
	Description string          `gorm:"type:text" json:"description"`
	ImagePath   string          `gorm:"type:varchar(255)" json:"image_path,omitempty"`
	AddedOn     time.Time       `json:"added_on"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

// Ingredient is a kitchen stock item (stok bahan).
type Ingredient struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Unit      string          `gorm:"type:varchar(20);not null" json:"unit"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

// MenuIngredient links a menu to the ingredient amount one portion needs.
type MenuIngredient struct {
	MenuID         uint            `gorm:"primaryKey" json:"menu_id"`
	Menu           *Menu           `gorm:"foreignKey:MenuID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	IngredientID   uint            `gorm:"primaryKey" json:"ingredient_id"`
	Ingredient     *Ingredient     `gorm:"foreignKey:IngredientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"ingredient,omitempty"`
	AmountRequired decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"amount_required"`
}
