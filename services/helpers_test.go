package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/resto-pos/config"
	"github.com/yeremiapane/resto-pos/database"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/realtime"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	t      *testing.T
	ctx    context.Context
	db     *gorm.DB
	svc    *Services
	events *realtime.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := config.OpenDB("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	rec := &realtime.Recorder{}
	return &fixture{t: t, ctx: context.Background(), db: db, svc: New(db, rec), events: rec}
}

func (f *fixture) staff(username string, role models.Role) models.Staff {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia"), bcrypt.MinCost)
	require.NoError(f.t, err)
	s := models.Staff{Username: username, DisplayName: username, Role: role, Active: true, PasswordHash: string(hash)}
	require.NoError(f.t, f.db.Create(&s).Error)
	return s
}

func (f *fixture) table(number string) models.Table {
	f.t.Helper()
	tb := models.Table{Number: number, Status: models.TableEmpty, Active: true}
	require.NoError(f.t, f.db.Create(&tb).Error)
	return tb
}

func (f *fixture) menu(name string, price int64, stock int) models.Menu {
	f.t.Helper()
	m := models.Menu{
		Name:      name,
		Category:  models.CategoryFood,
		Price:     decimal.NewFromInt(price),
		Stock:     stock,
		Available: true,
		AddedOn:   time.Now(),
	}
	require.NoError(f.t, f.db.Create(&m).Error)
	return m
}

func (f *fixture) stockOf(menuID uint) int {
	f.t.Helper()
	var m models.Menu
	require.NoError(f.t, f.db.First(&m, menuID).Error)
	return m.Stock
}

func (f *fixture) orderStatus(orderID uint) models.OrderStatus {
	f.t.Helper()
	var o models.Order
	require.NoError(f.t, f.db.First(&o, orderID).Error)
	return o.Status
}

func (f *fixture) tableStatus(tableID uint) models.TableStatus {
	f.t.Helper()
	var tb models.Table
	require.NoError(f.t, f.db.First(&tb, tableID).Error)
	return tb.Status
}

// deliver walks an order through the kitchen flow up to Delivered.
func (f *fixture) deliver(orderID uint) {
	f.t.Helper()
	for _, st := range []models.OrderStatus{models.OrderBeingPrepared, models.OrderDone, models.OrderDelivered} {
		_, err := f.svc.Orders.SetStatus(f.ctx, orderID, st)
		require.NoError(f.t, err)
	}
}

// deliveredOrder builds the two-line 35000 order (2 x 10000 + 1 x 15000)
// and brings it to Delivered.
func (f *fixture) deliveredOrder(table models.Table, waiter models.Staff) *models.Order {
	f.t.Helper()
	teh := f.menu("Es Jeruk", 10000, 50)
	ayam := f.menu("Ayam Bakar", 15000, 50)
	order, err := f.svc.Orders.CreateOrder(f.ctx, CreateOrderInput{
		TableID: table.ID,
		StaffID: waiter.ID,
		Items: []OrderItem{
			{MenuID: teh.ID, Quantity: 2},
			{MenuID: ayam.ID, Quantity: 1},
		},
	})
	require.NoError(f.t, err)
	f.deliver(order.ID)
	return order
}

func setClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func countEvents(events []realtime.Event, name realtime.EventName) int {
	n := 0
	for _, ev := range events {
		if ev.Name == name {
			n++
		}
	}
	return n
}
