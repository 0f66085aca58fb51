package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/realtime"
	"github.com/yeremiapane/resto-pos/utils"
	"gorm.io/gorm"
)

// now is the clock used for payment timestamps and receipt numbers.
var now = time.Now

const (
	receiptDateLayout = "20060102"
	receiptRetries    = 3
)

type PayInput struct {
	OrderIDs   []uint               `json:"order_ids"`
	StaffID    uint                 `json:"staff_id"`
	AmountPaid decimal.Decimal      `json:"amount_paid"`
	Method     models.PaymentMethod `json:"method"`
}

// PaymentService menangani pembayaran pesanan di kasir.
type PaymentService struct {
	uow      *UnitOfWork
	locks    *KeyedMutex
	notifier realtime.Notifier
	activity *ActivityLogger
}

func NewPaymentService(uow *UnitOfWork, locks *KeyedMutex, notifier realtime.Notifier, activity *ActivityLogger) *PaymentService {
	return &PaymentService{uow: uow, locks: locks, notifier: notifier, activity: activity}
}

func (in PayInput) validate() error {
	if len(in.OrderIDs) == 0 {
		return invalidArg("at least one order is required")
	}
	seen := make(map[uint]struct{}, len(in.OrderIDs))
	for _, id := range in.OrderIDs {
		if _, dup := seen[id]; dup {
			return invalidArg("order %d listed twice", id)
		}
		seen[id] = struct{}{}
	}
	if in.AmountPaid.IsNegative() {
		return invalidArg("amount paid must not be negative")
	}
	if !in.Method.Valid() {
		return invalidArg("unknown payment method %q", in.Method)
	}
	return nil
}

// Pay records one payment per order. Every order is checked before anything
// is written; one failing order leaves all of them untouched. The same
// AmountPaid is credited to each order of a split payment.
func (s *PaymentService) Pay(ctx context.Context, in PayInput) ([]models.Payment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	paidAt := now()
	unlock := s.locks.Lock("receipt:" + paidAt.Format(receiptDateLayout))
	defer unlock()

	var (
		payments []models.Payment
		freed    []uint
		err      error
	)
	for attempt := 1; attempt <= receiptRetries; attempt++ {
		payments, freed, err = s.pay(ctx, in, paidAt)
		if !errors.Is(err, ErrDuplicateKey) {
			break
		}
		utils.InfoLogger.WithField("attempt", attempt).Warn("Receipt number collision, retrying")
	}
	if err != nil {
		return nil, err
	}

	for _, p := range payments {
		utils.InfoLogger.WithFields(logrus.Fields{
			"order_id":       p.OrderID,
			"receipt_number": p.ReceiptNumber,
			"amount_paid":    p.AmountPaid.String(),
			"method":         p.Method,
		}).Info("Payment recorded")
		s.notifier.Notify(realtime.PaymentRecorded(p.ID))
		s.notifier.Notify(realtime.OrderChanged(p.OrderID))
	}
	for _, tableID := range freed {
		s.notifier.Notify(realtime.TableStatusChanged(tableID))
	}
	return payments, nil
}

func (s *PaymentService) pay(ctx context.Context, in PayInput, paidAt time.Time) ([]models.Payment, []uint, error) {
	var payments []models.Payment
	var freed []uint

	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var staff models.Staff
		if err := tx.First(&staff, in.StaffID).Error; err != nil {
			return notFound(err, ErrStaffNotFound)
		}

		orders := make([]models.Order, 0, len(in.OrderIDs))
		for _, id := range in.OrderIDs {
			var order models.Order
			if err := tx.Preload("Details").First(&order, id).Error; err != nil {
				return &PaymentError{OrderID: id, Err: notFound(err, ErrOrderNotFound)}
			}
			if err := checkPayable(order, in.AmountPaid); err != nil {
				return &PaymentError{OrderID: id, Err: err}
			}
			orders = append(orders, order)
		}

		tables := make(map[uint]struct{})
		for _, order := range orders {
			receipt, err := NextReceiptNumber(tx, paidAt)
			if err != nil {
				return err
			}
			payment := models.Payment{
				OrderID:       order.ID,
				StaffID:       in.StaffID,
				AmountPaid:    in.AmountPaid,
				Method:        in.Method,
				ReceiptNumber: receipt,
				PaidAt:        paidAt,
				Success:       true,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return duplicate(err, "receipt "+receipt)
			}

			res := tx.Model(&models.Order{}).
				Where("id = ? AND paid = ? AND status = ?", order.ID, models.Flag(false), models.OrderDelivered).
				Updates(map[string]any{"status": models.OrderPaid, "paid": models.Flag(true)})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &PaymentError{OrderID: order.ID, Err: ErrAlreadyPaid}
			}

			if err := s.activity.Record(tx, "pay_order", "order", order.ID, "receipt %s, %s via %s",
				receipt, utils.FormatRupiah(in.AmountPaid), in.Method); err != nil {
				return err
			}
			payments = append(payments, payment)
			tables[order.TableID] = struct{}{}
		}

		for tableID := range tables {
			ok, err := releaseTableIfIdle(tx, tableID)
			if err != nil {
				return err
			}
			if ok {
				freed = append(freed, tableID)
			}
		}
		return nil
	})
	return payments, freed, err
}

func checkPayable(order models.Order, amount decimal.Decimal) error {
	switch {
	case bool(order.Paid) || order.Status == models.OrderPaid:
		return ErrAlreadyPaid
	case order.Status != models.OrderDelivered:
		return fmt.Errorf("%w: status is %s", ErrNotReadyForPayment, order.Status)
	case amount.LessThan(order.Total()):
		return fmt.Errorf("%w: paid %s, total %s", ErrInsufficientPayment,
			utils.FormatRupiah(amount), utils.FormatRupiah(order.Total()))
	}
	return nil
}

// NextReceiptNumber returns YYYYMMDD-NNNN where NNNN is one more than the
// receipts already issued on day. Callers must hold the day's receipt lock.
func NextReceiptNumber(tx *gorm.DB, day time.Time) (string, error) {
	prefix := day.Format(receiptDateLayout)
	var count int64
	err := tx.Model(&models.Payment{}).Where("receipt_number LIKE ?", prefix+"-%").Count(&count).Error
	if err != nil {
		return "", fmt.Errorf("count receipts for %s: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}

// Change is the kembalian printed on the nota.
func Change(payment models.Payment, order models.Order) decimal.Decimal {
	return payment.AmountPaid.Sub(order.Total())
}

func (s *PaymentService) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.uow.DB(ctx).
		Preload("Order.Details.Menu").
		Preload("Order.Table").
		Preload("Order.Staff").
		First(&payment, id).Error
	if err != nil {
		return nil, notFound(err, ErrPaymentNotFound)
	}
	return &payment, nil
}

func (s *PaymentService) ListPaymentsByDate(ctx context.Context, day time.Time) ([]models.Payment, error) {
	start, end := dayBounds(day)
	var payments []models.Payment
	err := s.uow.DB(ctx).
		Where("paid_at >= ? AND paid_at < ?", start, end).
		Order("receipt_number").
		Find(&payments).Error
	return payments, err
}

// MarkFailed flips the success flag off, e.g. when a card charge bounces
// after the nota was printed. It is the only change a payment accepts.
func (s *PaymentService) MarkFailed(ctx context.Context, id uint) error {
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).Where("id = ?", id).Update("success", models.Flag(false))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPaymentNotFound
		}
		return s.activity.Record(tx, "payment_failed", "payment", id, "marked failed")
	})
	if err != nil {
		return err
	}
	utils.InfoLogger.WithField("payment_id", id).Warn("Payment marked failed")
	s.notifier.Notify(realtime.PaymentRecorded(id))
	return nil
}
