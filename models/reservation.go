package models

import "time"

type Reservation struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	TableID   uint              `gorm:"not null;index" json:"table_id"`
	Table     *Table            `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table,omitempty"`
	StaffID   uint              `gorm:"not null;index" json:"staff_id"`
	Date      time.Time         `gorm:"not null;index" json:"date"`
	Status    ReservationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null" json:"updated_at"`
}
