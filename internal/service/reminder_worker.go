package service

import (
	"context"
	"sync"
	"time"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/rs/zerolog"
)

// ReminderWorker periodically sends payment-due reminders for every active
// committee
type ReminderWorker struct {
	paymentService *PaymentService
	committeeRepo  domain.CommitteeRepository
	logger         zerolog.Logger
	interval       time.Duration
	stopCh         chan struct{}
	stopOnce       sync.Once
	doneCh         chan struct{}
	mu             sync.Mutex
	running        bool
}

// ReminderWorkerConfig holds configuration for the reminder worker
type ReminderWorkerConfig struct {
	Interval time.Duration // How often reminders go out
}

// DefaultReminderWorkerConfig returns sensible defaults
func DefaultReminderWorkerConfig() ReminderWorkerConfig {
	return ReminderWorkerConfig{
		Interval: 24 * time.Hour,
	}
}

// NewReminderWorker creates a new reminder worker
func NewReminderWorker(
	paymentService *PaymentService,
	committeeRepo domain.CommitteeRepository,
	logger zerolog.Logger,
	config ReminderWorkerConfig,
) *ReminderWorker {
	if config.Interval <= 0 {
		config.Interval = DefaultReminderWorkerConfig().Interval
	}

	return &ReminderWorker{
		paymentService: paymentService,
		committeeRepo:  committeeRepo,
		logger:         logger.With().Str("component", "reminder_worker").Logger(),
		interval:       config.Interval,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start begins sending reminders in the background. The first round goes out
// after one interval, not on startup, so restarts do not re-notify members.
func (w *ReminderWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().Dur("interval", w.interval).Msg("Starting reminder worker")

	go w.run(ctx)
}

// Stop gracefully stops the reminder worker. Concurrent callers all wait
// for the worker to exit.
func (w *ReminderWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.stopOnce.Do(func() {
		w.logger.Info().Msg("Stopping reminder worker")
		close(w.stopCh)
	})
	<-w.doneCh
	w.logger.Info().Msg("Reminder worker stopped")
}

func (w *ReminderWorker) run(ctx context.Context) {
	defer close(w.doneCh)
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RemindAll(ctx)
		}
	}
}

// RemindAll sends due reminders for every active committee and returns the
// number of notifications sent. Failures on one committee do not stop the rest.
func (w *ReminderWorker) RemindAll(ctx context.Context) int {
	startTime := time.Now()

	committees, err := w.committeeRepo.GetAll()
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to get committees for reminders")
		return 0
	}

	totalSent := 0
	totalErrors := 0
	for _, committee := range committees {
		if committee.Status != domain.CommitteeStatusActive {
			continue
		}

		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Context cancelled, stopping reminders")
			return totalSent
		case <-w.stopCh:
			w.logger.Info().Msg("Stop signal received, stopping reminders")
			return totalSent
		default:
		}

		sent, err := w.paymentService.SendDueReminders(committee.ID)
		if err != nil {
			w.logger.Error().
				Err(err).
				Str("committee_id", committee.ID.String()).
				Msg("Failed to send reminders for committee")
			totalErrors++
			continue
		}
		totalSent += sent
	}

	w.logger.Info().
		Int("committees", len(committees)).
		Int("sent", totalSent).
		Int("errors", totalErrors).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed payment reminders")
	return totalSent
}

// IsRunning returns whether the worker is currently running
func (w *ReminderWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
