package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/realtime"
	"github.com/yeremiapane/resto-pos/utils"
	"gorm.io/gorm"
)

type OrderItem struct {
	MenuID   uint   `json:"menu_id"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
}

type CreateOrderInput struct {
	TableID uint        `json:"table_id"`
	StaffID uint        `json:"staff_id"`
	Items   []OrderItem `json:"items"`
}

// OrderFilter narrows ListOrders. Nil / zero fields are ignored.
type OrderFilter struct {
	TableID     *uint
	TableNumber string
	Status      *models.OrderStatus
	Paid        *bool
	StaffID     *uint
	Date        *time.Time
}

// orderTransitions lists the moves SetStatus accepts. Paid is reached only
// through PaymentService.Pay.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderWaiting:       {models.OrderBeingPrepared, models.OrderCancelled},
	models.OrderBeingPrepared: {models.OrderDone},
	models.OrderDone:          {models.OrderDelivered},
	models.OrderDelivered:     {models.OrderPaid},
}

func canTransition(from, to models.OrderStatus) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type OrderService struct {
	uow      *UnitOfWork
	stock    *StockLedger
	notifier realtime.Notifier
	activity *ActivityLogger
}

func NewOrderService(uow *UnitOfWork, stock *StockLedger, notifier realtime.Notifier, activity *ActivityLogger) *OrderService {
	return &OrderService{uow: uow, stock: stock, notifier: notifier, activity: activity}
}

// CreateOrder membuat pesanan baru beserta detailnya. Semua item berhasil
// atau tidak ada yang tersimpan sama sekali.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, invalidArg("order needs at least one item")
	}
	menuIDs := make([]uint, 0, len(in.Items))
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, invalidArg("quantity for menu %d must be positive", item.MenuID)
		}
		menuIDs = append(menuIDs, item.MenuID)
	}

	unlock := s.stock.lockMenus(menuIDs...)
	defer unlock()

	var order models.Order
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, in.TableID).Error; err != nil {
			return notFound(err, ErrTableNotFound)
		}
		var staff models.Staff
		if err := tx.First(&staff, in.StaffID).Error; err != nil {
			return notFound(err, ErrStaffNotFound)
		}

		order = models.Order{TableID: in.TableID, StaffID: in.StaffID, Status: models.OrderWaiting}
		if err := tx.Omit("Details").Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, item := range in.Items {
			detail, err := s.addLine(tx, order.ID, item)
			if err != nil {
				return err
			}
			order.Details = append(order.Details, *detail)
		}

		if err := setTableStatus(tx, in.TableID, models.TableOccupied); err != nil {
			return err
		}
		return s.activity.Record(tx, "create_order", "order", order.ID, "table %s, %d item(s)", table.Number, len(in.Items))
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"table_id": order.TableID,
		"items":    len(order.Details),
	}).Info("Order created")

	s.notifier.Notify(realtime.StockChanged())
	s.notifier.Notify(realtime.TableStatusChanged(order.TableID))
	s.notifier.Notify(realtime.OrderChanged(order.ID))
	return &order, nil
}

func (s *OrderService) addLine(tx *gorm.DB, orderID uint, item OrderItem) (*models.OrderDetail, error) {
	menu, err := s.stock.Reserve(tx, item.MenuID, item.Quantity)
	if err != nil {
		return nil, err
	}
	detail := models.OrderDetail{
		OrderID:   orderID,
		MenuID:    menu.ID,
		Quantity:  item.Quantity,
		UnitPrice: menu.Price,
		Note:      item.Note,
	}
	if err := tx.Create(&detail).Error; err != nil {
		return nil, fmt.Errorf("create order detail: %w", err)
	}
	return &detail, nil
}

// AddDetail always appends a new line, even when the menu is already on the
// order.
func (s *OrderService) AddDetail(ctx context.Context, orderID uint, item OrderItem) (*models.OrderDetail, error) {
	if item.Quantity <= 0 {
		return nil, invalidArg("quantity must be positive, got %d", item.Quantity)
	}

	unlock := s.stock.lockMenus(item.MenuID)
	defer unlock()

	var detail *models.OrderDetail
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return notFound(err, ErrOrderNotFound)
		}
		if order.Status.Terminal() {
			return fmt.Errorf("%w: order %d is %s", ErrInvalidTransition, order.ID, order.Status)
		}

		var err error
		if detail, err = s.addLine(tx, order.ID, item); err != nil {
			return err
		}
		return s.activity.Record(tx, "add_detail", "order", order.ID, "menu %d x%d", item.MenuID, item.Quantity)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(realtime.StockChanged())
	s.notifier.Notify(realtime.OrderChanged(orderID))
	return detail, nil
}

// RemoveDetail deletes one line and returns its stock. It reports false when
// the line does not exist.
func (s *OrderService) RemoveDetail(ctx context.Context, detailID uint) (bool, error) {
	var detail models.OrderDetail
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&detail, detailID).Error; err != nil {
			return notFound(err, ErrDetailNotFound)
		}
		var order models.Order
		if err := tx.First(&order, detail.OrderID).Error; err != nil {
			return notFound(err, ErrOrderNotFound)
		}
		if order.Status.Terminal() {
			return fmt.Errorf("%w: order %d is %s", ErrInvalidTransition, order.ID, order.Status)
		}

		if err := s.stock.Release(tx, detail.MenuID, detail.Quantity); err != nil {
			return err
		}
		if err := tx.Delete(&detail).Error; err != nil {
			return err
		}
		return s.activity.Record(tx, "remove_detail", "order", order.ID, "menu %d x%d", detail.MenuID, detail.Quantity)
	})
	if errors.Is(err, ErrDetailNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.notifier.Notify(realtime.StockChanged())
	s.notifier.Notify(realtime.OrderChanged(detail.OrderID))
	return true, nil
}

// CancelOrder membatalkan pesanan yang masih Waiting dan mengembalikan stok.
// It reports false when the order is missing or already past Waiting.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint) (bool, error) {
	_, err := s.cancel(ctx, orderID)
	var terr *TransitionError
	if errors.Is(err, ErrOrderNotFound) || errors.As(err, &terr) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *OrderService) cancel(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	var tableFreed bool
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.Preload("Details").First(&order, orderID).Error; err != nil {
			return notFound(err, ErrOrderNotFound)
		}
		if order.Status != models.OrderWaiting {
			return &TransitionError{From: order.Status, To: models.OrderCancelled}
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderWaiting).
			Update("status", models.OrderCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &TransitionError{From: order.Status, To: models.OrderCancelled}
		}
		order.Status = models.OrderCancelled

		for _, d := range order.Details {
			if err := s.stock.Release(tx, d.MenuID, d.Quantity); err != nil {
				return err
			}
		}

		var err error
		if tableFreed, err = releaseTableIfIdle(tx, order.TableID); err != nil {
			return err
		}
		return s.activity.Record(tx, "cancel_order", "order", order.ID, "%d line(s) restocked", len(order.Details))
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithField("order_id", order.ID).Info("Order cancelled")
	s.notifier.Notify(realtime.StockChanged())
	s.notifier.Notify(realtime.OrderChanged(order.ID))
	if tableFreed {
		s.notifier.Notify(realtime.TableStatusChanged(order.TableID))
	}
	return &order, nil
}

// SetStatus moves an order along the kitchen flow. Cancelling goes through
// the same path as CancelOrder so stock is restored.
func (s *OrderService) SetStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, invalidArg("unknown order status %q", status)
	}
	if status == models.OrderCancelled {
		return s.cancel(ctx, orderID)
	}

	var order models.Order
	var tableStatus models.TableStatus
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			return notFound(err, ErrOrderNotFound)
		}
		if status == models.OrderPaid || !canTransition(order.Status, status) {
			return &TransitionError{From: order.Status, To: status}
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &TransitionError{From: order.Status, To: status}
		}
		from := order.Status
		order.Status = status

		// Meja ikut status dapur: sedang dimasak lalu kembali terisi saat diantar.
		switch status {
		case models.OrderBeingPrepared:
			tableStatus = models.TableBeingPrepared
		case models.OrderDelivered:
			tableStatus = models.TableOccupied
		}
		if tableStatus != "" {
			if err := setTableStatus(tx, order.TableID, tableStatus); err != nil {
				return err
			}
		}
		return s.activity.Record(tx, "set_order_status", "order", order.ID, "%s -> %s", from, status)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"status":   order.Status,
	}).Info("Order status changed")
	s.notifier.Notify(realtime.OrderChanged(order.ID))
	if tableStatus != "" {
		s.notifier.Notify(realtime.TableStatusChanged(order.TableID))
	}
	return &order, nil
}

// DeleteOrder removes the order and its lines in one transaction. Stock of
// an order that was never cancelled is returned first. Paid orders are kept
// for the books.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uint) error {
	var order models.Order
	var tableFreed bool
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.Preload("Details").First(&order, orderID).Error; err != nil {
			return notFound(err, ErrOrderNotFound)
		}
		if order.Status == models.OrderPaid || bool(order.Paid) {
			return fmt.Errorf("%w: paid order %d cannot be deleted", ErrInvalidTransition, order.ID)
		}

		if order.Status != models.OrderCancelled {
			for _, d := range order.Details {
				if err := s.stock.Release(tx, d.MenuID, d.Quantity); err != nil {
					return err
				}
			}
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Order{}, order.ID).Error; err != nil {
			return err
		}

		var err error
		if tableFreed, err = releaseTableIfIdle(tx, order.TableID); err != nil {
			return err
		}
		return s.activity.Record(tx, "delete_order", "order", order.ID, "status was %s", order.Status)
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.WithField("order_id", orderID).Info("Order deleted")
	if order.Status != models.OrderCancelled {
		s.notifier.Notify(realtime.StockChanged())
	}
	s.notifier.Notify(realtime.OrderChanged(order.ID))
	if tableFreed {
		s.notifier.Notify(realtime.TableStatusChanged(order.TableID))
	}
	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.uow.DB(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Details.Menu").
		Preload("Table").
		Preload("Staff").
		First(&order, orderID).Error
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	return &order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := s.uow.DB(ctx).Model(&models.Order{}).Preload("Details").Preload("Table").Order("orders.created_at DESC, orders.id DESC")

	if f.TableID != nil {
		q = q.Where("orders.table_id = ?", *f.TableID)
	}
	if f.TableNumber != "" {
		q = q.Joins("JOIN tables ON tables.id = orders.table_id").Where("tables.number = ?", f.TableNumber)
	}
	if f.Status != nil {
		q = q.Where("orders.status = ?", *f.Status)
	}
	if f.Paid != nil {
		q = q.Where("orders.paid = ?", models.Flag(*f.Paid))
	}
	if f.StaffID != nil {
		q = q.Where("orders.staff_id = ?", *f.StaffID)
	}
	if f.Date != nil {
		start, end := dayBounds(*f.Date)
		q = q.Where("orders.created_at >= ? AND orders.created_at < ?", start, end)
	}

	var orders []models.Order
	return orders, q.Find(&orders).Error
}

// dayBounds returns [00:00, next 00:00) of t's calendar day in t's location.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
