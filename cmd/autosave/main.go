// Command autosave takes the scheduled deposits of automatic savings plans
// once and exits. It is meant to be run by an external scheduler; the exit
// code is 1 when the run could not complete and 2 when some plans failed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"isave/internal/autosave"
	"isave/internal/config"
	"isave/internal/database"
	"isave/internal/events"
	"isave/internal/logger"
	"isave/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Env)
	defer logger.Sync()
	log := logger.Get()

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		log.Errorw("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbManager.Close()

	var publisher events.Publisher
	if cfg.RedisURL != "" {
		redisPublisher, client, err := events.NewRedisPublisher(cfg.RedisURL)
		if err != nil {
			log.Errorw("redis configuration failed", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = redisPublisher
	}

	db := dbManager.DB()
	walletService := services.NewWalletService(db, cfg.MinDepositAmount)
	notificationService := services.NewNotificationService(db, publisher)
	savePlanService := services.NewSavePlanService(db, walletService, notificationService, cfg.MinDepositAmount)
	runner := autosave.NewRunner(db, savePlanService)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := runner.Run(ctx, time.Now())
	if err != nil {
		log.Errorw("autosave run failed", "error", err)
		os.Exit(1)
	}

	if len(result.Errors) > 0 {
		os.Exit(2)
	}
}
