package service

import (
	"testing"
	"time"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	svc           *PaymentService
	payments      *testutil.MockPaymentRepository
	notifications *testutil.MockNotificationRepository
	publisher     *testutil.MockEventPublisher
	committee     *domain.Committee
	member        uuid.UUID
	adminID       uuid.UUID
	now           time.Time
}

func newPaymentFixture() *paymentFixture {
	committees := testutil.NewMockCommitteeRepository()
	payments := testutil.NewMockPaymentRepository()
	notifications := testutil.NewMockNotificationRepository()
	publisher := testutil.NewMockEventPublisher()

	committee := newTestCommittee(5)
	member := uuid.New()
	committee.Members = []uuid.UUID{member}
	committees.AddCommittee(committee)

	svc := NewPaymentService(payments, committees, NewNotificationService(notifications, testutil.NewMockUserRepository()))
	svc.SetEventPublisher(publisher)

	f := &paymentFixture{
		svc:           svc,
		payments:      payments,
		notifications: notifications,
		publisher:     publisher,
		committee:     committee,
		member:        member,
		adminID:       committee.AdminID,
		// second month of a committee starting 2026-01-01
		now: time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
	}
	svc.SetClock(func() time.Time { return f.now })
	return f
}

func (f *paymentFixture) submit(t *testing.T) *domain.Payment {
	t.Helper()
	p, err := f.svc.SubmitPayment(f.member, SubmitPaymentInput{CommitteeID: f.committee.ID, Amount: decimal.NewFromInt(20000)})
	require.NoError(t, err)
	return p
}

func TestSubmitPayment(t *testing.T) {
	f := newPaymentFixture()

	p := f.submit(t)
	assert.Equal(t, domain.PaymentStatusPending, p.Status)
	assert.Equal(t, int32(2), p.Round)

	_, err := f.svc.SubmitPayment(f.member, SubmitPaymentInput{CommitteeID: f.committee.ID, Amount: decimal.NewFromInt(-5)})
	assert.ErrorIs(t, err, domain.ErrPaymentAmountInvalid)

	_, err = f.svc.SubmitPayment(uuid.New(), SubmitPaymentInput{CommitteeID: f.committee.ID, Amount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrNotMember)

	_, err = f.svc.SubmitPayment(f.member, SubmitPaymentInput{CommitteeID: uuid.New(), Amount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrCommitteeNotFound)
}

func TestApprovePayment(t *testing.T) {
	f := newPaymentFixture()
	p := f.submit(t)

	approved, err := f.svc.ApprovePayment(f.adminID, p.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusApproved, approved.Status)
	assert.Equal(t, f.adminID, *approved.ReviewedBy)
	assert.Nil(t, approved.Remarks)

	notes := f.notifications.ForUser(f.member)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationPaymentApproved, notes[0].Type)
	assert.Equal(t, []string{"payment.approved"}, f.publisher.Types())

	_, err = f.svc.RejectPayment(f.adminID, p.ID, strPtr("late"))
	assert.ErrorIs(t, err, domain.ErrPaymentNotPending)
}

func TestRejectPayment(t *testing.T) {
	f := newPaymentFixture()
	p := f.submit(t)

	_, err := f.svc.RejectPayment(f.adminID, p.ID, nil)
	assert.ErrorIs(t, err, domain.ErrRemarksRequired)

	long := make([]byte, domain.MaxRemarksLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = f.svc.RejectPayment(f.adminID, p.ID, strPtr(string(long)))
	assert.ErrorIs(t, err, domain.ErrRemarksTooLong)

	rejected, err := f.svc.RejectPayment(f.adminID, p.ID, strPtr(" receipt unreadable "))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusRejected, rejected.Status)
	assert.Equal(t, "receipt unreadable", *rejected.Remarks)

	notes := f.notifications.ForUser(f.member)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "receipt unreadable")
}

func TestListPendingPayments(t *testing.T) {
	f := newPaymentFixture()
	first := f.submit(t)
	f.submit(t)
	_, err := f.svc.ApprovePayment(f.adminID, first.ID, nil)
	require.NoError(t, err)

	pending, err := f.svc.ListPending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	mine, err := f.svc.ListForUser(f.member)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	require.NoError(t, f.svc.DeletePayment(first.ID))
	assert.ErrorIs(t, f.svc.DeletePayment(first.ID), domain.ErrPaymentNotFound)
}

func TestSendDueReminders(t *testing.T) {
	f := newPaymentFixture()
	late, rejectedMember := uuid.New(), uuid.New()
	f.committee.Members = append(f.committee.Members, late, rejectedMember)

	f.submit(t)
	f.payments.AddPayment(&domain.Payment{ID: uuid.New(), CommitteeID: f.committee.ID, UserID: rejectedMember, Round: 2, Status: domain.PaymentStatusRejected})
	f.payments.AddPayment(&domain.Payment{ID: uuid.New(), CommitteeID: f.committee.ID, UserID: late, Round: 1, Status: domain.PaymentStatusApproved})

	sent, err := f.svc.SendDueReminders(f.committee.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	assert.Empty(t, f.notifications.ForUser(f.member))
	require.Len(t, f.notifications.ForUser(late), 1)
	assert.Equal(t, domain.NotificationPaymentDue, f.notifications.ForUser(late)[0].Type)
	assert.Len(t, f.notifications.ForUser(rejectedMember), 1)
}

func TestSubmitPayment_RoundFollowsCalendar(t *testing.T) {
	f := newPaymentFixture()

	f.now = time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)
	first := f.submit(t)
	assert.Equal(t, int32(1), first.Round)

	f.now = time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	second := f.submit(t)
	assert.Equal(t, int32(2), second.Round)

	f.now = time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC)
	last := f.submit(t)
	assert.Equal(t, int32(5), last.Round)
}

func TestSendDueReminders_NewRoundNeedsNewPayment(t *testing.T) {
	f := newPaymentFixture()

	f.now = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	f.submit(t)
	sent, err := f.svc.SendDueReminders(f.committee.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	f.now = time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC)
	sent, err = f.svc.SendDueReminders(f.committee.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, f.notifications.ForUser(f.member), 1)
	assert.Contains(t, f.notifications.ForUser(f.member)[0].Message, "round 2")
}
