package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"rentalvoice_backend/internal/booking"
	"rentalvoice_backend/internal/dialog"
	"rentalvoice_backend/internal/email"
	"rentalvoice_backend/internal/events"
	apphttp "rentalvoice_backend/internal/http"
	"rentalvoice_backend/internal/http/router"
	"rentalvoice_backend/internal/inventory"
	"rentalvoice_backend/internal/orders"
	"rentalvoice_backend/internal/reason"
	"rentalvoice_backend/internal/scheduler"
	"rentalvoice_backend/internal/session"
	"rentalvoice_backend/internal/speech"
	"rentalvoice_backend/internal/tenancy"
	"rentalvoice_backend/internal/tools"
	"rentalvoice_backend/platform/config"
	"rentalvoice_backend/platform/logger"
	"rentalvoice_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	registry := tenancy.NewRegistry(cfg.TenantsDir, log)
	log.Info("tenant registry loaded", "tenants", len(registry.List()))

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn("invalid timezone, using UTC", "timezone", cfg.Timezone, "error", err)
		loc = time.UTC
	}

	store, memStore, closeStore, err := initSessionStore(cfg)
	if err != nil {
		log.Error("failed to initialize session store", "error", err)
		panic("failed to initialize session store: " + err.Error())
	}
	if closeStore != nil {
		defer closeStore()
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	repo := orders.NewRepository()
	dispatcher := tools.NewDispatcher(repo, eventBus, loc)

	oracle, extractor, speechCache := initModelClients(ctx, cfg, log)

	followUps, closeFollowUps := initFollowUpScheduler(cfg, log)
	if closeFollowUps != nil {
		defer closeFollowUps()
	}
	subscribeLeadFollowUps(eventBus, followUps, cfg.LeadFollowUpDelay, log)

	// ========================================================================
	// Domain Modules
	// ========================================================================

	dialogModule := dialog.NewModule(store, extractor, oracle, dispatcher, sender, eventBus, speechCache, val, log, cfg.NotificationsEmail)
	bookingModule := booking.NewModule(dispatcher)
	inventoryModule := inventory.NewModule(val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Registry: registry,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			dialogModule,
			bookingModule,
			inventoryModule,
		},
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router.New(app),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Embedded task worker: only runs when Redis is configured.
	if cfg.RedisURL != "" {
		var sweeper scheduler.SessionSweeper
		if memStore != nil {
			sweeper = memStore
		}
		worker, err := scheduler.NewWorker(cfg, cfg.SessionTTL, sender, sweeper, log, cfg.NotificationsEmail)
		if err != nil {
			log.Error("failed to initialize task worker", "error", err)
			panic("failed to initialize task worker: " + err.Error())
		}
		g.Go(func() error {
			worker.Run(gctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

// initSessionStore returns the configured store. The memory sweeper is nil
// for the Redis backend, where expiry is native.
func initSessionStore(cfg config.SessionConfig) (session.Store, *session.MemoryStore, func(), error) {
	if cfg.GetSessionBackend() == "redis" {
		rs, err := session.NewRedisStore(cfg.GetRedisURL(), cfg.GetSessionTTL())
		if err != nil {
			return nil, nil, nil, err
		}
		return rs, nil, func() { _ = rs.Close() }, nil
	}
	ms := session.NewMemoryStore()
	return ms, ms, nil, nil
}

// initModelClients wires the Gemini oracle, extractor and speech cache.
// Without an API key the server stays up on deterministic fallbacks and
// speech is disabled.
func initModelClients(ctx context.Context, cfg *config.Config, log *logger.Logger) (reason.Oracle, reason.Extractor, *speech.Cache) {
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY not configured; reasoning and speech disabled")
		return reason.UnavailableOracle{}, reason.VerbatimExtractor{}, nil
	}

	oracle, err := reason.NewGeminiOracle(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Error("failed to initialize reasoning oracle", "error", err)
		panic("failed to initialize reasoning oracle: " + err.Error())
	}
	extractor, err := reason.NewGeminiExtractor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Error("failed to initialize slot extractor", "error", err)
		panic("failed to initialize slot extractor: " + err.Error())
	}

	synth, err := speech.NewGeminiSynthesizer(ctx, cfg.GeminiAPIKey, cfg.SpeechModel)
	if err != nil {
		log.Error("failed to initialize speech synthesizer", "error", err)
		panic("failed to initialize speech synthesizer: " + err.Error())
	}
	cache, err := speech.NewCache(synth, cfg.AudioDir)
	if err != nil {
		log.Error("failed to initialize speech cache", "error", err)
		panic("failed to initialize speech cache: " + err.Error())
	}

	return oracle, extractor, cache
}

func initFollowUpScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.FollowUpScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; lead follow-up reminders disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize follow-up scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

// subscribeLeadFollowUps schedules a delayed re-contact reminder for every
// stored lead.
func subscribeLeadFollowUps(bus events.Bus, followUps scheduler.FollowUpScheduler, delay time.Duration, log *logger.Logger) {
	if followUps == nil {
		return
	}
	bus.Subscribe("orders.lead.created", events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		lead, ok := event.(events.LeadCreated)
		if !ok {
			return nil
		}
		err := followUps.ScheduleLeadFollowUp(ctx, scheduler.LeadFollowUpPayload{
			Tenant:  lead.Tenant,
			LeadID:  lead.LeadID.String(),
			Name:    lead.Name,
			Phone:   lead.Phone,
			Email:   lead.Email,
			QuoteID: lead.QuoteID,
		}, time.Now().Add(delay))
		if err != nil {
			log.Warn("failed to schedule lead follow-up", "lead_id", lead.LeadID, "error", err)
		}
		return err
	}))
}
