package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/realtime"
	"github.com/yeremiapane/resto-pos/utils"
	"gorm.io/gorm"
)

type ReserveInput struct {
	TableID uint      `json:"table_id"`
	StaffID uint      `json:"staff_id"`
	Date    time.Time `json:"date"`
}

type ReservationService struct {
	uow      *UnitOfWork
	notifier realtime.Notifier
	activity *ActivityLogger
}

func NewReservationService(uow *UnitOfWork, notifier realtime.Notifier, activity *ActivityLogger) *ReservationService {
	return &ReservationService{uow: uow, notifier: notifier, activity: activity}
}

// Reserve memesan meja kosong untuk tamu.
func (s *ReservationService) Reserve(ctx context.Context, in ReserveInput) (*models.Reservation, error) {
	if in.Date.IsZero() {
		return nil, invalidArg("reservation date is required")
	}

	var res models.Reservation
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, in.TableID).Error; err != nil {
			return notFound(err, ErrTableNotFound)
		}
		if !table.Active {
			return invalidArg("table %s is not in use", table.Number)
		}
		if table.Status != models.TableEmpty {
			return ErrTableNotEmpty
		}
		var staff models.Staff
		if err := tx.First(&staff, in.StaffID).Error; err != nil {
			return notFound(err, ErrStaffNotFound)
		}

		res = models.Reservation{TableID: in.TableID, StaffID: in.StaffID, Date: in.Date, Status: models.ReservationWaiting}
		if err := tx.Create(&res).Error; err != nil {
			return err
		}
		if err := setTableStatus(tx, in.TableID, models.TableReserved); err != nil {
			return err
		}
		return s.activity.Record(tx, "reserve_table", "reservation", res.ID, "table %s on %s", table.Number, in.Date.Format(time.DateTime))
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"table_id":       res.TableID,
	}).Info("Table reserved")
	s.notifier.Notify(realtime.ReservationChanged(res.ID))
	s.notifier.Notify(realtime.TableStatusChanged(res.TableID))
	return &res, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := s.uow.DB(ctx).Preload("Table").First(&res, id).Error; err != nil {
		return nil, notFound(err, ErrReservationNotFound)
	}
	return &res, nil
}

// ListReservations returns the reservations of day ordered by time.
func (s *ReservationService) ListReservations(ctx context.Context, day time.Time) ([]models.Reservation, error) {
	start, end := dayBounds(day)
	var list []models.Reservation
	err := s.uow.DB(ctx).Preload("Table").
		Where("date >= ? AND date < ?", start, end).
		Order("date").Find(&list).Error
	return list, err
}

// ChangeStatus sets any valid status. A cancelled reservation frees its
// table when the table is still held as Reserved.
func (s *ReservationService) ChangeStatus(ctx context.Context, id uint, status models.ReservationStatus) (*models.Reservation, error) {
	if !status.Valid() {
		return nil, invalidArg("unknown reservation status %q", status)
	}

	var res models.Reservation
	var freed bool
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&res, id).Error; err != nil {
			return notFound(err, ErrReservationNotFound)
		}
		from := res.Status
		if err := tx.Model(&res).Update("status", status).Error; err != nil {
			return err
		}
		res.Status = status

		if status == models.ReservationCancelled {
			var err error
			if freed, err = freeReservedTable(tx, res.TableID); err != nil {
				return err
			}
		}
		return s.activity.Record(tx, "reservation_status", "reservation", res.ID, "%s -> %s", from, status)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(realtime.ReservationChanged(res.ID))
	if freed {
		s.notifier.Notify(realtime.TableStatusChanged(res.TableID))
	}
	return &res, nil
}

// ReassignTable moves the reservation to another table. The new table's
// status is not touched; the old one goes back to Empty once no live
// reservation holds it.
func (s *ReservationService) ReassignTable(ctx context.Context, id, tableID uint) (*models.Reservation, error) {
	var res models.Reservation
	var from uint
	var freed bool
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&res, id).Error; err != nil {
			return notFound(err, ErrReservationNotFound)
		}
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			return notFound(err, ErrTableNotFound)
		}
		from = res.TableID
		if err := tx.Model(&res).Update("table_id", tableID).Error; err != nil {
			return err
		}
		res.TableID = tableID

		if from != tableID {
			var err error
			if freed, err = freeReservedTable(tx, from); err != nil {
				return err
			}
		}
		return s.activity.Record(tx, "reservation_table", "reservation", res.ID, "table %d -> %d", from, tableID)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(realtime.ReservationChanged(res.ID))
	if freed {
		s.notifier.Notify(realtime.TableStatusChanged(from))
	}
	return &res, nil
}

func (s *ReservationService) ReassignStaff(ctx context.Context, id, staffID uint) (*models.Reservation, error) {
	var res models.Reservation
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&res, id).Error; err != nil {
			return notFound(err, ErrReservationNotFound)
		}
		var staff models.Staff
		if err := tx.First(&staff, staffID).Error; err != nil {
			return notFound(err, ErrStaffNotFound)
		}
		from := res.StaffID
		if err := tx.Model(&res).Update("staff_id", staffID).Error; err != nil {
			return err
		}
		res.StaffID = staffID
		return s.activity.Record(tx, "reservation_staff", "reservation", res.ID, "staff %d -> %d", from, staffID)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(realtime.ReservationChanged(res.ID))
	return &res, nil
}

// Sweep cancels reservations still Waiting from before today and frees
// their tables. It returns how many were cancelled.
func (s *ReservationService) Sweep(ctx context.Context, at time.Time) (int, error) {
	today, _ := dayBounds(at)

	var expired []models.Reservation
	freed := make(map[uint]bool)
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("status = ? AND date < ?", models.ReservationWaiting, today).Find(&expired).Error; err != nil {
			return err
		}
		for _, res := range expired {
			if err := tx.Model(&models.Reservation{}).Where("id = ?", res.ID).
				Update("status", models.ReservationCancelled).Error; err != nil {
				return err
			}
			ok, err := freeReservedTable(tx, res.TableID)
			if err != nil {
				return err
			}
			if ok {
				freed[res.TableID] = true
			}
			if err := s.activity.Record(tx, "reservation_expired", "reservation", res.ID, "booked for %s", res.Date.Format(time.DateTime)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, res := range expired {
		s.notifier.Notify(realtime.ReservationChanged(res.ID))
	}
	for tableID := range freed {
		s.notifier.Notify(realtime.TableStatusChanged(tableID))
	}
	if len(expired) > 0 {
		utils.InfoLogger.WithField("count", len(expired)).Info("Expired reservations cancelled")
	}
	return len(expired), nil
}

// freeReservedTable returns a Reserved table to Empty unless another live
// reservation still holds it.
func freeReservedTable(tx *gorm.DB, tableID uint) (bool, error) {
	var live int64
	err := tx.Model(&models.Reservation{}).
		Where("table_id = ? AND status IN ?", tableID, []models.ReservationStatus{models.ReservationWaiting, models.ReservationConfirmed}).
		Count(&live).Error
	if err != nil || live > 0 {
		return false, err
	}

	res := tx.Model(&models.Table{}).
		Where("id = ? AND status = ?", tableID, models.TableReserved).
		Update("status", models.TableEmpty)
	return res.RowsAffected > 0, res.Error
}
