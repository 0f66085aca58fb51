package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	TableID   uint          `gorm:"not null;index" json:"table_id"`
	Table     *Table        `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table,omitempty"`
	StaffID   uint          `gorm:"not null;index" json:"staff_id"`
	Staff     *Staff        `gorm:"foreignKey:StaffID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"staff,omitempty"`
	Status    OrderStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	Paid      Flag          `gorm:"type:integer;not null" json:"paid"`
	CreatedAt time.Time     `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null" json:"updated_at"`
	Details   []OrderDetail `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"details"`
}

// Total is the amount owed: sum of unit price snapshot times quantity.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, d := range o.Details {
		total = total.Add(d.Subtotal())
	}
	return total
}

// OrderDetail is one line on an order (detail pesanan). UnitPrice is the
// menu price at the moment the line was recorded and is never recomputed.
type OrderDetail struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	MenuID    uint            `gorm:"not null;index" json:"menu_id"`
	Menu      *Menu           `gorm:"foreignKey:MenuID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu,omitempty"`
	Quantity  int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Note      string          `gorm:"type:text" json:"note"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
}

func (d OrderDetail) Subtotal() decimal.Decimal {
	return d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}
