package services

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/resto-pos/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrMenuNotFound        = fmt.Errorf("menu %w", ErrNotFound)
	ErrOrderNotFound       = fmt.Errorf("order %w", ErrNotFound)
	ErrTableNotFound       = fmt.Errorf("table %w", ErrNotFound)
	ErrStaffNotFound       = fmt.Errorf("staff %w", ErrNotFound)
	ErrDetailNotFound      = fmt.Errorf("order detail %w", ErrNotFound)
	ErrReservationNotFound = fmt.Errorf("reservation %w", ErrNotFound)
	ErrPaymentNotFound     = fmt.Errorf("payment %w", ErrNotFound)
	ErrIngredientNotFound  = fmt.Errorf("ingredient %w", ErrNotFound)

	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrAlreadyPaid         = errors.New("order already paid")
	ErrNotReadyForPayment  = errors.New("order not ready for payment")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrTableNotEmpty       = errors.New("table is not empty")
)

// StockError names the menu that could not be reserved.
type StockError struct {
	MenuID    uint
	MenuName  string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q (menu %d): requested %d, available %d",
		e.MenuName, e.MenuID, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// PaymentError reports which order in a payment request failed a check.
type PaymentError struct {
	OrderID uint
	Err     error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("order %d: %v", e.OrderID, e.Err)
}

func (e *PaymentError) Unwrap() error { return e.Err }

type TransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// notFound turns gorm.ErrRecordNotFound into the given sentinel and passes
// every other error through.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func duplicate(err error, what string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", what, ErrDuplicateKey)
	}
	return err
}
