package models

import "time"

// Table is a dining table (meja).
type Table struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Number    string      `gorm:"type:varchar(20);not null;uniqueIndex" json:"number"`
	Status    TableStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Active    Flag        `gorm:"type:integer;not null" json:"active"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null" json:"updated_at"`
}
