package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Status columns are stored as their textual name. Scanning an unknown name
// is an error rather than a silent zero value.

type TableStatus string

const (
	TableEmpty         TableStatus = "Empty"
	TableReserved      TableStatus = "Reserved"
	TableOccupied      TableStatus = "Occupied"
	TableBeingPrepared TableStatus = "BeingPrepared"
)

var tableStatuses = []TableStatus{TableEmpty, TableReserved, TableOccupied, TableBeingPrepared}

func ParseTableStatus(s string) (TableStatus, error) {
	return parseEnum("table status", s, tableStatuses)
}

func (s TableStatus) Valid() bool                  { return isMember(s, tableStatuses) }
func (s TableStatus) Value() (driver.Value, error) { return enumValue("table status", s, tableStatuses) }
func (s *TableStatus) Scan(src any) error          { return scanEnum(src, s, ParseTableStatus) }

type OrderStatus string

const (
	OrderWaiting       OrderStatus = "Waiting"
	OrderCancelled     OrderStatus = "Cancelled"
	OrderBeingPrepared OrderStatus = "BeingPrepared"
	OrderDone          OrderStatus = "Done"
	OrderDelivered     OrderStatus = "Delivered"
	OrderPaid          OrderStatus = "Paid"
)

var orderStatuses = []OrderStatus{OrderWaiting, OrderCancelled, OrderBeingPrepared, OrderDone, OrderDelivered, OrderPaid}

func ParseOrderStatus(s string) (OrderStatus, error) {
	return parseEnum("order status", s, orderStatuses)
}

func (s OrderStatus) Valid() bool                  { return isMember(s, orderStatuses) }
func (s OrderStatus) Value() (driver.Value, error) { return enumValue("order status", s, orderStatuses) }
func (s *OrderStatus) Scan(src any) error          { return scanEnum(src, s, ParseOrderStatus) }

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderPaid || s == OrderCancelled
}

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentCard         PaymentMethod = "Card"
	PaymentQRIS         PaymentMethod = "QRIS"
	PaymentBankTransfer PaymentMethod = "BankTransfer"
	PaymentEWallet      PaymentMethod = "EWallet"
)

var paymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentQRIS, PaymentBankTransfer, PaymentEWallet}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	return parseEnum("payment method", s, paymentMethods)
}

func (m PaymentMethod) Valid() bool                  { return isMember(m, paymentMethods) }
func (m PaymentMethod) Value() (driver.Value, error) { return enumValue("payment method", m, paymentMethods) }
func (m *PaymentMethod) Scan(src any) error          { return scanEnum(src, m, ParsePaymentMethod) }

type ReservationStatus string

const (
	ReservationWaiting   ReservationStatus = "Waiting"
	ReservationConfirmed ReservationStatus = "Confirmed"
	ReservationDone      ReservationStatus = "Done"
	ReservationCancelled ReservationStatus = "Cancelled"
)

var reservationStatuses = []ReservationStatus{ReservationWaiting, ReservationConfirmed, ReservationDone, ReservationCancelled}

func ParseReservationStatus(s string) (ReservationStatus, error) {
	return parseEnum("reservation status", s, reservationStatuses)
}

func (s ReservationStatus) Valid() bool { return isMember(s, reservationStatuses) }
func (s ReservationStatus) Value() (driver.Value, error) {
	return enumValue("reservation status", s, reservationStatuses)
}
func (s *ReservationStatus) Scan(src any) error { return scanEnum(src, s, ParseReservationStatus) }

type Role string

const (
	RoleCashier Role = "Cashier"
	RoleWaiter  Role = "Waiter"
	RoleCook    Role = "Cook"
	RoleOwner   Role = "Owner"
)

var roles = []Role{RoleCashier, RoleWaiter, RoleCook, RoleOwner}

func ParseRole(s string) (Role, error) {
	return parseEnum("role", s, roles)
}

func (r Role) Valid() bool                  { return isMember(r, roles) }
func (r Role) Value() (driver.Value, error) { return enumValue("role", r, roles) }
func (r *Role) Scan(src any) error          { return scanEnum(src, r, ParseRole) }

type MenuCategory string

const (
	CategoryFood  MenuCategory = "Food"
	CategoryDrink MenuCategory = "Drink"
	CategorySnack MenuCategory = "Snack"
)

var menuCategories = []MenuCategory{CategoryFood, CategoryDrink, CategorySnack}

func ParseMenuCategory(s string) (MenuCategory, error) {
	return parseEnum("menu category", s, menuCategories)
}

func (c MenuCategory) Valid() bool                  { return isMember(c, menuCategories) }
func (c MenuCategory) Value() (driver.Value, error) { return enumValue("menu category", c, menuCategories) }
func (c *MenuCategory) Scan(src any) error          { return scanEnum(src, c, ParseMenuCategory) }

func isMember[T ~string](v T, set []T) bool {
	for _, m := range set {
		if m == v {
			return true
		}
	}
	return false
}

// parseEnum matches case-insensitively and returns the canonical spelling.
func parseEnum[T ~string](kind, s string, set []T) (T, error) {
	s = strings.TrimSpace(s)
	for _, m := range set {
		if strings.EqualFold(string(m), s) {
			return m, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", kind, s)
}

func enumValue[T ~string](kind string, v T, set []T) (driver.Value, error) {
	if !isMember(v, set) {
		return nil, fmt.Errorf("unknown %s %q", kind, string(v))
	}
	return string(v), nil
}

func scanEnum[T ~string](src any, dst *T, parse func(string) (T, error)) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		return fmt.Errorf("cannot scan NULL into %T", dst)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}
	parsed, err := parse(raw)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}
