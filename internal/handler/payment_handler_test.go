package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitPayment_Success(t *testing.T) {
	f := newWorkflowFixture(10)
	f.holdSlot(f.member.ID, 1)
	f.now = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	body := `{"committeeId":"` + f.committee.ID.String() + `","amount":"10000","receiptPath":"receipts/r1.jpg"}`
	c, rec := f.context(jsonRequest(http.MethodPost, body), f.member)

	require.NoError(t, f.paymentHandler.SubmitPayment(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var payment domain.Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payment))
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
	assert.Equal(t, int32(3), payment.Round)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(10000)))
}

func TestSubmitPayment_NotMember(t *testing.T) {
	f := newWorkflowFixture(10)

	body := `{"committeeId":"` + f.committee.ID.String() + `","amount":"10000"}`
	c, rec := f.context(jsonRequest(http.MethodPost, body), f.member)

	require.NoError(t, f.paymentHandler.SubmitPayment(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApproveAndRejectPayment(t *testing.T) {
	f := newWorkflowFixture(10)
	f.holdSlot(f.member.ID, 1)

	approved, err := f.payments.Create(&domain.Payment{CommitteeID: f.committee.ID, UserID: f.member.ID, Amount: decimal.NewFromInt(10000), Round: 1})
	require.NoError(t, err)
	rejected, err := f.payments.Create(&domain.Payment{CommitteeID: f.committee.ID, UserID: f.member.ID, Amount: decimal.NewFromInt(10), Round: 1})
	require.NoError(t, err)

	c, rec := f.context(httptest.NewRequest(http.MethodPost, "/", nil), f.admin)
	c.SetParamNames("id")
	c.SetParamValues(approved.ID.String())
	require.NoError(t, f.paymentHandler.Approve(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	c, rec = f.context(jsonRequest(http.MethodPost, `{"remarks":"Amount does not match"}`), f.admin)
	c.SetParamNames("id")
	c.SetParamValues(rejected.ID.String())
	require.NoError(t, f.paymentHandler.Reject(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, domain.PaymentStatusApproved, f.payments.Payments[approved.ID].Status)
	assert.Equal(t, domain.PaymentStatusRejected, f.payments.Payments[rejected.ID].Status)
	assert.Len(t, f.notifications.ForUser(f.member.ID), 2)

	// reviewing again conflicts
	c, rec = f.context(httptest.NewRequest(http.MethodPost, "/", nil), f.admin)
	c.SetParamNames("id")
	c.SetParamValues(approved.ID.String())
	require.NoError(t, f.paymentHandler.Approve(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSendReminders(t *testing.T) {
	f := newWorkflowFixture(10)
	paid := uuid.New()
	f.holdSlot(paid, 1)
	f.holdSlot(f.member.ID, 2)
	_, err := f.payments.Create(&domain.Payment{CommitteeID: f.committee.ID, UserID: paid, Amount: decimal.NewFromInt(10000), Round: 1})
	require.NoError(t, err)

	c, rec := f.context(httptest.NewRequest(http.MethodPost, "/", nil), f.admin)
	c.SetParamNames("id")
	c.SetParamValues(f.committee.ID.String())

	require.NoError(t, f.paymentHandler.SendReminders(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response RemindersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Sent)
	require.Len(t, f.notifications.ForUser(f.member.ID), 1)
	assert.Equal(t, domain.NotificationPaymentDue, f.notifications.ForUser(f.member.ID)[0].Type)
}
