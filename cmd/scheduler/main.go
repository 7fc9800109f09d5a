package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"rentalvoice_backend/internal/email"
	"rentalvoice_backend/internal/scheduler"
	"rentalvoice_backend/platform/config"
	"rentalvoice_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// The standalone worker never holds the in-process session store, so the
	// sweep task is a no-op here; memory deployments embed the worker in the
	// api process instead.
	worker, err := scheduler.NewWorker(cfg, cfg.SessionTTL, sender, nil, log, cfg.NotificationsEmail)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}
