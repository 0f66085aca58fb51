package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/realtime"
)

func TestReserve(t *testing.T) {
	f := newFixture(t)
	meja := f.table("VIP")
	waiter := f.staff("pelayan", models.RoleWaiter)
	malam := time.Now().Add(4 * time.Hour)

	res, err := f.svc.Reservations.Reserve(f.ctx, ReserveInput{TableID: meja.ID, StaffID: waiter.ID, Date: malam})
	require.NoError(t, err)
	assert.Equal(t, models.ReservationWaiting, res.Status)
	assert.Equal(t, models.TableReserved, f.tableStatus(meja.ID))
	assert.Equal(t, []realtime.Event{
		realtime.ReservationChanged(res.ID),
		realtime.TableStatusChanged(meja.ID),
	}, f.events.Events())

	_, err = f.svc.Reservations.Reserve(f.ctx, ReserveInput{TableID: meja.ID, StaffID: waiter.ID, Date: malam})
	assert.ErrorIs(t, err, ErrTableNotEmpty)
}

func TestReserve_Validation(t *testing.T) {
	f := newFixture(t)
	meja := f.table("1")
	waiter := f.staff("pelayan", models.RoleWaiter)
	rusak := f.table("2")
	_, err := f.svc.Tables.SetActive(f.ctx, rusak.ID, false)
	require.NoError(t, err)
	when := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		in      ReserveInput
		wantErr error
	}{
		{"unknown table", ReserveInput{TableID: 99, StaffID: waiter.ID, Date: when}, ErrTableNotFound},
		{"unknown staff", ReserveInput{TableID: meja.ID, StaffID: 99, Date: when}, ErrStaffNotFound},
		{"no date", ReserveInput{TableID: meja.ID, StaffID: waiter.ID}, ErrInvalidArgument},
		{"inactive table", ReserveInput{TableID: rusak.ID, StaffID: waiter.ID, Date: when}, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Reservations.Reserve(f.ctx, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, models.TableEmpty, f.tableStatus(meja.ID))
}

func TestReservation_ChangeStatusAndReassign(t *testing.T) {
	f := newFixture(t)
	satu := f.table("1")
	dua := f.table("2")
	waiter := f.staff("pelayan", models.RoleWaiter)
	other := f.staff("pelayan2", models.RoleWaiter)

	res, err := f.svc.Reservations.Reserve(f.ctx, ReserveInput{TableID: satu.ID, StaffID: waiter.ID, Date: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	got, err := f.svc.Reservations.ChangeStatus(f.ctx, res.ID, models.ReservationConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, got.Status)
	assert.Equal(t, models.TableReserved, f.tableStatus(satu.ID))

	got, err = f.svc.Reservations.ReassignStaff(f.ctx, res.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.StaffID)

	// The old table is freed; the new one keeps its own status.
	got, err = f.svc.Reservations.ReassignTable(f.ctx, res.ID, dua.ID)
	require.NoError(t, err)
	assert.Equal(t, dua.ID, got.TableID)
	assert.Equal(t, models.TableEmpty, f.tableStatus(satu.ID))
	assert.Equal(t, models.TableEmpty, f.tableStatus(dua.ID))

	_, err = f.svc.Reservations.ChangeStatus(f.ctx, res.ID, "Lost")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = f.svc.Reservations.ChangeStatus(f.ctx, 999, models.ReservationDone)
	assert.ErrorIs(t, err, ErrReservationNotFound)
	_, err = f.svc.Reservations.ReassignTable(f.ctx, res.ID, 999)
	assert.ErrorIs(t, err, ErrTableNotFound)
	_, err = f.svc.Reservations.ReassignStaff(f.ctx, res.ID, 999)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestReservation_ReassignTableKeepsHeldTableReserved(t *testing.T) {
	f := newFixture(t)
	a := f.table("A")
	b := f.table("B")
	c := f.table("C")
	waiter := f.staff("pelayan", models.RoleWaiter)
	at := time.Now().Add(time.Hour)

	first, err := f.svc.Reservations.Reserve(f.ctx, ReserveInput{TableID: a.ID, StaffID: waiter.ID, Date: at})
	require.NoError(t, err)
	second, err := f.svc.Reservations.Reserve(f.ctx, ReserveInput{TableID: b.ID, StaffID: waiter.ID, Date: at})
	require.NoError(t, err)

	// B loses its only reservation.
	f.events.Reset()
	_, err = f.svc.Reservations.ReassignTable(f.ctx, second.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableEmpty, f.tableStatus(b.ID))
	assert.Contains(t, f.events.Events(), realtime.TableStatusChanged(b.ID))

	// A is still held by the second reservation.
	_, err = f.svc.Reservations.ReassignTable(f.ctx, first.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableReserved, f.tableStatus(a.ID))
	assert.Equal(t, models.TableEmpty, f.tableStatus(c.ID))

	// Reassigning to the same table changes nothing.
	_, err = f.svc.Reservations.ReassignTable(f.ctx, second.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableReserved, f.tableStatus(a.ID))
}

func TestReservation_CancelFreesTable(t *testing.T) {
	f := newFixture(t)
	meja := f.table("1")
	waiter := f.staff("pelayan", models.RoleWaiter)

	res, err := f.svc.Reservations.Reserve(f.ctx, ReserveInput{TableID: meja.ID, StaffID: waiter.ID, Date: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	_, err = f.svc.Reservations.ChangeStatus(f.ctx, res.ID, models.ReservationCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.TableEmpty, f.tableStatus(meja.ID))
}

func TestReservation_Sweep(t *testing.T) {
	f := newFixture(t)
	lama := f.table("1")
	baru := f.table("2")
	waiter := f.staff("pelayan", models.RoleWaiter)
	at := time.Date(2024, 8, 17, 10, 0, 0, 0, time.Local)

	expired, err := f.svc.Reservations.Reserve(f.ctx, ReserveInput{TableID: lama.ID, StaffID: waiter.ID, Date: at.AddDate(0, 0, -1)})
	require.NoError(t, err)
	tonight, err := f.svc.Reservations.Reserve(f.ctx, ReserveInput{TableID: baru.ID, StaffID: waiter.ID, Date: at.Add(9 * time.Hour)})
	require.NoError(t, err)

	n, err := f.svc.Reservations.Sweep(f.ctx, at)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.svc.Reservations.GetReservation(f.ctx, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationCancelled, got.Status)
	assert.Equal(t, models.TableEmpty, f.tableStatus(lama.ID))

	got, err = f.svc.Reservations.GetReservation(f.ctx, tonight.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationWaiting, got.Status)
	assert.Equal(t, models.TableReserved, f.tableStatus(baru.ID))

	n, err = f.svc.Reservations.Sweep(f.ctx, at)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := f.svc.Reservations.ListReservations(f.ctx, at)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tonight.ID, list[0].ID)
}

func TestReservationSweeper_StartStop(t *testing.T) {
	f := newFixture(t)
	sw, err := NewReservationSweeper(f.svc.Reservations, time.Hour)
	require.NoError(t, err)
	sw.Start()
	assert.NoError(t, sw.Stop())
}
