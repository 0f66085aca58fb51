package services

import (
	"github.com/yeremiapane/resto-pos/realtime"
	"gorm.io/gorm"
)

// Services bundles every domain service over one database and one
// notifier. Build it once at startup and hand it to the controllers.
type Services struct {
	UnitOfWork   *UnitOfWork
	Activity     *ActivityLogger
	Stock        *StockLedger
	Tables       *TableService
	Menus        *MenuService
	Orders       *OrderService
	Payments     *PaymentService
	Reservations *ReservationService
	Staff        *StaffService
	Reports      *ReportService
}

func New(db *gorm.DB, notifier realtime.Notifier) *Services {
	if notifier == nil {
		notifier = realtime.Nop{}
	}
	uow := NewUnitOfWork(db)
	locks := &KeyedMutex{}
	activity := NewActivityLogger(uow)
	stock := NewStockLedger(uow, locks, notifier, activity)

	return &Services{
		UnitOfWork:   uow,
		Activity:     activity,
		Stock:        stock,
		Tables:       NewTableService(uow, notifier, activity),
		Menus:        NewMenuService(uow, stock, notifier, activity),
		Orders:       NewOrderService(uow, stock, notifier, activity),
		Payments:     NewPaymentService(uow, locks, notifier, activity),
		Reservations: NewReservationService(uow, notifier, activity),
		Staff:        NewStaffService(uow, activity),
		Reports:      NewReportService(uow),
	}
}
