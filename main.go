package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/resto-pos/config"
	"github.com/yeremiapane/resto-pos/database"
	"github.com/yeremiapane/resto-pos/middlewares"
	"github.com/yeremiapane/resto-pos/realtime"
	"github.com/yeremiapane/resto-pos/router"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
	"golang.org/x/sync/errgroup"
)

func main() {
	utils.InitLogger()
	cfg := config.Load()

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	if cfg.SeedDevData {
		if err := database.SeedDevData(db); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed data: %v", err)
		}
	}

	hub := realtime.NewHub()
	notifiers := realtime.Fanout{hub}
	if cfg.AMQPURL != "" {
		publisher, err := realtime.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			// Broker opsional: aplikasi tetap jalan tanpa mirror event.
			utils.ErrorLogger.Errorf("AMQP disabled: %v", err)
		} else {
			defer publisher.Close()
			notifiers = append(notifiers, publisher)
			utils.InfoLogger.Printf("Mirroring events to exchange %s", cfg.AMQPExchange)
		}
	}

	svc := services.New(db, notifiers)

	sweeper, err := services.NewReservationSweeper(svc.Reservations, cfg.ReservationSweepInterval)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to create reservation sweeper: %v", err)
	}

	r := router.SetupRouter(router.Deps{
		Services:       svc,
		Tokens:         utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Hub:            hub,
		RateLimiter:    middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		CORSOrigin:     cfg.CORSOrigin,
		RestaurantName: cfg.RestaurantName,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sweeper.Start()
		<-gctx.Done()
		return sweeper.Stop()
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.InfoLogger.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		hub.Close()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		utils.ErrorLogger.Fatalf("Server error: %v", err)
	}
}
