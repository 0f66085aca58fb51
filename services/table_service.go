package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/realtime"
	"github.com/yeremiapane/resto-pos/utils"
	"gorm.io/gorm"
)

type TableService struct {
	uow      *UnitOfWork
	notifier realtime.Notifier
	activity *ActivityLogger
}

func NewTableService(uow *UnitOfWork, notifier realtime.Notifier, activity *ActivityLogger) *TableService {
	return &TableService{uow: uow, notifier: notifier, activity: activity}
}

// CreateTable menambahkan meja baru dengan status Empty.
func (s *TableService) CreateTable(ctx context.Context, number string) (*models.Table, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, invalidArg("table number is required")
	}

	table := models.Table{Number: number, Status: models.TableEmpty, Active: true}
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&table).Error; err != nil {
			return duplicate(err, "table "+number)
		}
		return s.activity.Record(tx, "create_table", "table", table.ID, "number %s", number)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(realtime.TableStatusChanged(table.ID))
	return &table, nil
}

func (s *TableService) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	if err := s.uow.DB(ctx).First(&table, id).Error; err != nil {
		return nil, notFound(err, ErrTableNotFound)
	}
	return &table, nil
}

func (s *TableService) GetByNumber(ctx context.Context, number string) (*models.Table, error) {
	var table models.Table
	if err := s.uow.DB(ctx).Where("number = ?", number).First(&table).Error; err != nil {
		return nil, notFound(err, ErrTableNotFound)
	}
	return &table, nil
}

// ListTables returns all tables ordered by number, optionally only those in
// the given status.
func (s *TableService) ListTables(ctx context.Context, status *models.TableStatus) ([]models.Table, error) {
	q := s.uow.DB(ctx).Order("number")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var tables []models.Table
	return tables, q.Find(&tables).Error
}

// SetStatus is the manual override used by waiters (e.g. guests left).
func (s *TableService) SetStatus(ctx context.Context, id uint, status models.TableStatus) (*models.Table, error) {
	if !status.Valid() {
		return nil, invalidArg("unknown table status %q", status)
	}

	var table models.Table
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&table, id).Error; err != nil {
			return notFound(err, ErrTableNotFound)
		}
		from := table.Status
		if err := setTableStatus(tx, id, status); err != nil {
			return err
		}
		table.Status = status
		return s.activity.Record(tx, "set_table_status", "table", id, "%s -> %s", from, status)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"table_id": id, "status": status}).Info("Table status changed")
	s.notifier.Notify(realtime.TableStatusChanged(id))
	return &table, nil
}

func (s *TableService) SetActive(ctx context.Context, id uint, active bool) (*models.Table, error) {
	var table models.Table
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&table, id).Error; err != nil {
			return notFound(err, ErrTableNotFound)
		}
		if err := tx.Model(&table).Update("active", models.Flag(active)).Error; err != nil {
			return err
		}
		table.Active = models.Flag(active)
		return s.activity.Record(tx, "set_table_active", "table", id, "active=%t", active)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(realtime.TableStatusChanged(id))
	return &table, nil
}

func setTableStatus(tx *gorm.DB, tableID uint, status models.TableStatus) error {
	return tx.Model(&models.Table{}).Where("id = ?", tableID).Update("status", status).Error
}

// releaseTableIfIdle sets the table back to Empty once no open order is left
// on it. It reports whether the table changed.
func releaseTableIfIdle(tx *gorm.DB, tableID uint) (bool, error) {
	var open int64
	err := tx.Model(&models.Order{}).
		Where("table_id = ? AND status NOT IN ?", tableID, []models.OrderStatus{models.OrderPaid, models.OrderCancelled}).
		Count(&open).Error
	if err != nil {
		return false, err
	}
	if open > 0 {
		return false, nil
	}

	res := tx.Model(&models.Table{}).
		Where("id = ? AND status IN ?", tableID, []models.TableStatus{models.TableOccupied, models.TableBeingPrepared}).
		Update("status", models.TableEmpty)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
