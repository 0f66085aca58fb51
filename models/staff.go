package models

import "time"

// Staff is an employee account (pegawai).
type Staff struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	DisplayName  string    `gorm:"type:varchar(255);not null" json:"display_name"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	Active       Flag      `gorm:"type:integer;not null" json:"active"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Staff) TableName() string {
	return "staff"
}
