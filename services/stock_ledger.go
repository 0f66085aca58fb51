package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/realtime"
	"github.com/yeremiapane/resto-pos/utils"
	"gorm.io/gorm"
)

// StockLedger owns menu stock. Reserve and Release run on the caller's
// transaction; the decrement is a guarded UPDATE so the row can never go
// below zero even when two writers race.
type StockLedger struct {
	uow      *UnitOfWork
	locks    *KeyedMutex
	notifier realtime.Notifier
	activity *ActivityLogger
}

func NewStockLedger(uow *UnitOfWork, locks *KeyedMutex, notifier realtime.Notifier, activity *ActivityLogger) *StockLedger {
	return &StockLedger{uow: uow, locks: locks, notifier: notifier, activity: activity}
}

func menuKey(id uint) string {
	return "menu:" + strconv.FormatUint(uint64(id), 10)
}

// lockMenus serializes stock work on the given menus within this process.
func (l *StockLedger) lockMenus(ids ...uint) func() {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = menuKey(id)
	}
	return l.locks.Lock(keys...)
}

// Reserve takes qty portions of the menu and returns the menu as it was
// before the decrement. Nothing changes when it fails.
func (l *StockLedger) Reserve(tx *gorm.DB, menuID uint, qty int) (*models.Menu, error) {
	if qty <= 0 {
		return nil, invalidArg("quantity must be positive, got %d", qty)
	}

	var menu models.Menu
	if err := tx.First(&menu, menuID).Error; err != nil {
		return nil, notFound(err, ErrMenuNotFound)
	}

	res := tx.Model(&models.Menu{}).
		Where("id = ? AND stock >= ?", menuID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return nil, fmt.Errorf("reserve menu %d: %w", menuID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &StockError{MenuID: menu.ID, MenuName: menu.Name, Requested: qty, Available: menu.Stock}
	}
	return &menu, nil
}

// Release puts qty portions back. There is no upper bound on stock.
func (l *StockLedger) Release(tx *gorm.DB, menuID uint, qty int) error {
	if qty <= 0 {
		return invalidArg("quantity must be positive, got %d", qty)
	}

	res := tx.Model(&models.Menu{}).
		Where("id = ?", menuID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("release menu %d: %w", menuID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMenuNotFound
	}
	return nil
}

// SetStock overwrites the stock count (stock opname) and optionally the
// availability flag.
func (l *StockLedger) SetStock(ctx context.Context, menuID uint, stock int, available *bool) (*models.Menu, error) {
	if stock < 0 {
		return nil, invalidArg("stock must not be negative, got %d", stock)
	}

	unlock := l.lockMenus(menuID)
	defer unlock()

	var menu models.Menu
	err := l.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&menu, menuID).Error; err != nil {
			return notFound(err, ErrMenuNotFound)
		}
		previous := menu.Stock

		updates := map[string]any{"stock": stock}
		if available != nil {
			updates["available"] = models.Flag(*available)
		}
		if err := tx.Model(&menu).Updates(updates).Error; err != nil {
			return err
		}
		menu.Stock = stock
		if available != nil {
			menu.Available = models.Flag(*available)
		}
		return l.activity.Record(tx, "set_stock", "menu", menu.ID, "stock %d -> %d", previous, stock)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"menu_id": menu.ID,
		"stock":   menu.Stock,
	}).Info("Stock updated")
	l.notifier.Notify(realtime.StockChanged())
	return &menu, nil
}
