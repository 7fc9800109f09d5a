package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"rentalvoice_backend/internal/email"
	"rentalvoice_backend/platform/config"
	"rentalvoice_backend/platform/logger"
)

// SessionSweeper removes sessions idle past the TTL and reports how many.
type SessionSweeper interface {
	SweepStale(ttl time.Duration) int
}

type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	sender    email.Sender
	sweeper   SessionSweeper
	log       *logger.Logger
	notifyTo  string
	ttl       time.Duration
}

// NewWorker builds the asynq server handling follow-up and sweep tasks.
// sweeper may be nil when sessions live in Redis and expire on their own.
func NewWorker(cfg config.SchedulerConfig, sessionTTL time.Duration, sender email.Sender, sweeper SessionSweeper, log *logger.Logger, notifyTo string) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		sender:   sender,
		sweeper:  sweeper,
		log:      log,
		notifyTo: notifyTo,
		ttl:      sessionTTL,
	}

	mux.HandleFunc(TaskLeadFollowUp, w.handleLeadFollowUp)
	mux.HandleFunc(TaskSessionSweep, w.handleSessionSweep)

	if sweeper != nil {
		sched := asynq.NewScheduler(opt, nil)
		if _, err := sched.Register("@every 10m", NewSessionSweepTask(), asynq.Queue(queue)); err != nil {
			return nil, err
		}
		w.scheduler = sched
	}

	return w, nil
}

func (w *Worker) handleLeadFollowUp(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadFollowUpPayload(task)
	if err != nil {
		return err
	}
	if w.notifyTo == "" {
		return nil
	}

	subject := fmt.Sprintf("Follow up with lead %s", payload.Name)
	body := fmt.Sprintf("Tenant: %s\nLead: %s\nName: %s\nPhone: %s\nEmail: %s\nQuote: %s\n\nThis lead has not been contacted since the call.",
		payload.Tenant, payload.LeadID, payload.Name, payload.Phone, payload.Email, payload.QuoteID)

	err = w.sender.Send(ctx, w.notifyTo, subject, body)
	w.log.EmailEvent(w.notifyTo, subject, err)
	return err
}

func (w *Worker) handleSessionSweep(_ context.Context, _ *asynq.Task) error {
	if w.sweeper == nil {
		return nil
	}
	removed := w.sweeper.SweepStale(w.ttl)
	if removed > 0 {
		w.log.Info("stale sessions swept", "removed", removed)
	}
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	if w.scheduler != nil {
		go func() {
			if err := w.scheduler.Run(); err != nil {
				w.log.Error("scheduler stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
