package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records money received for one order (pembayaran). Only Success
// may change after the row is written.
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;index" json:"order_id"`
	Order         *Order          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"order,omitempty"`
	StaffID       uint            `gorm:"not null;index" json:"staff_id"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount_paid"`
	Method        PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	ReceiptNumber string          `gorm:"type:varchar(20);not null;uniqueIndex" json:"receipt_number"`
	PaidAt        time.Time       `gorm:"not null;index" json:"paid_at"`
	Success       Flag            `gorm:"type:integer;not null" json:"success"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}
