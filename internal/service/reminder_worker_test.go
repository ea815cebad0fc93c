package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func setupReminderWorker() (*ReminderWorker, *testutil.MockCommitteeRepository, *testutil.MockPaymentRepository, *testutil.MockNotificationRepository) {
	committees := testutil.NewMockCommitteeRepository()
	payments := testutil.NewMockPaymentRepository()
	notifications := testutil.NewMockNotificationRepository()

	paymentService := NewPaymentService(payments, committees, NewNotificationService(notifications, testutil.NewMockUserRepository()))
	paymentService.SetClock(func() time.Time { return time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC) })

	config := ReminderWorkerConfig{
		Interval: 100 * time.Millisecond,
	}

	worker := NewReminderWorker(paymentService, committees, zerolog.Nop(), config)
	return worker, committees, payments, notifications
}

func TestReminderWorker_NewReminderWorker(t *testing.T) {
	worker, _, _, _ := setupReminderWorker()

	assert.NotNil(t, worker)
	assert.Equal(t, 100*time.Millisecond, worker.interval)
	assert.False(t, worker.IsRunning())
}

func TestReminderWorker_DefaultsForInvalidConfig(t *testing.T) {
	worker := NewReminderWorker(nil, testutil.NewMockCommitteeRepository(), zerolog.Nop(), ReminderWorkerConfig{Interval: 0})
	assert.Equal(t, 24*time.Hour, worker.interval)
}

func TestReminderWorker_StartStop(t *testing.T) {
	worker, _, _, _ := setupReminderWorker()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker.Start(ctx)
	worker.Start(ctx) // second start is a no-op
	assert.True(t, worker.IsRunning())

	worker.Stop()
	assert.False(t, worker.IsRunning())
}

func TestReminderWorker_ConcurrentStop(t *testing.T) {
	worker, _, _, _ := setupReminderWorker()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotPanics(t, worker.Stop)
		}()
	}
	wg.Wait()

	assert.False(t, worker.IsRunning())
	worker.Stop()
}

func TestReminderWorker_StopWithoutStart(t *testing.T) {
	worker, _, _, _ := setupReminderWorker()

	worker.Stop()
	assert.False(t, worker.IsRunning())
}

func TestReminderWorker_ContextCancellation(t *testing.T) {
	worker, _, _, _ := setupReminderWorker()

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)
	assert.True(t, worker.IsRunning())

	cancel()
	assert.Eventually(t, func() bool { return !worker.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestReminderWorker_RemindAll(t *testing.T) {
	worker, committees, payments, notifications := setupReminderWorker()

	paid := uuid.New()
	late := uuid.New()
	active := newTestCommittee(5)
	active.Members = []uuid.UUID{paid, late}
	committees.AddCommittee(active)
	payments.AddPayment(&domain.Payment{
		ID:          uuid.New(),
		CommitteeID: active.ID,
		UserID:      paid,
		Round:       2,
		Status:      domain.PaymentStatusApproved,
	})

	pending := newTestCommittee(5)
	pending.Status = domain.CommitteeStatusPending
	pending.Members = []uuid.UUID{uuid.New()}
	committees.AddCommittee(pending)

	sent := worker.RemindAll(context.Background())

	assert.Equal(t, 1, sent)
	assert.Empty(t, notifications.ForUser(paid))
	if assert.Len(t, notifications.ForUser(late), 1) {
		assert.Equal(t, domain.NotificationPaymentDue, notifications.ForUser(late)[0].Type)
	}
}

func TestReminderWorker_RemindAllKeepsGoingAfterFailure(t *testing.T) {
	worker, committees, _, notifications := setupReminderWorker()

	first := newTestCommittee(5)
	first.Members = []uuid.UUID{uuid.New()}
	second := newTestCommittee(5)
	second.Members = []uuid.UUID{uuid.New()}
	committees.AddCommittee(first)
	committees.AddCommittee(second)

	calls := 0
	notifications.CreateFn = func(n *domain.Notification) (*domain.Notification, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("db down")
		}
		return n, nil
	}

	sent := worker.RemindAll(context.Background())

	assert.Equal(t, 1, sent)
	assert.Equal(t, 2, calls)
}
