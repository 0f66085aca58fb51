package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/yeremiapane/resto-pos/utils"
)

// ReservationSweeper runs ReservationService.Sweep on a fixed interval.
type ReservationSweeper struct {
	scheduler gocron.Scheduler
}

func NewReservationSweeper(reservations *ReservationService, interval time.Duration) (*ReservationSweeper, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if _, err := reservations.Sweep(context.Background(), now()); err != nil {
				utils.ErrorLogger.Errorf("Error sweeping reservations: %v", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, err
	}
	return &ReservationSweeper{scheduler: s}, nil
}

func (r *ReservationSweeper) Start() {
	r.scheduler.Start()
	utils.InfoLogger.Println("Reservation sweeper started")
}

func (r *ReservationSweeper) Stop() error {
	return r.scheduler.Shutdown()
}
