package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePayout_NextAvailableSlot(t *testing.T) {
	f := newWorkflowFixture(10)
	f.holdSlot(uuid.New(), 1)
	f.committee.Members = append(f.committee.Members, f.member.ID)

	body := `{"committeeId":"` + f.committee.ID.String() + `","userId":"` + f.member.ID.String() + `","amount":"50000"}`
	c, rec := f.context(jsonRequest(http.MethodPost, body), f.admin)

	require.NoError(t, f.payoutHandler.CreatePayout(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.Payout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int32(2), created.SlotNumber)
	assert.Equal(t, int32(2), created.Round)
	assert.True(t, created.FeeAmount.Equal(decimal.NewFromInt(5000)))
	assert.True(t, created.NetAmount.Equal(decimal.NewFromInt(45000)))
	assert.Equal(t, f.admin.ID, created.InitiatedBy)
	assert.Equal(t, "2026-02-01", created.ScheduledDate.Format("2006-01-02"))
}

func TestCreatePayout_SlotTaken(t *testing.T) {
	f := newWorkflowFixture(10)
	f.holdSlot(uuid.New(), 5)
	f.committee.Members = append(f.committee.Members, f.member.ID)

	body := `{"committeeId":"` + f.committee.ID.String() + `","userId":"` + f.member.ID.String() + `","amount":"50000","slot":5}`
	c, rec := f.context(jsonRequest(http.MethodPost, body), f.admin)

	require.NoError(t, f.payoutHandler.CreatePayout(c))
	require.Equal(t, http.StatusConflict, rec.Code)

	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, 1, problem.SuggestedSlot)
}

func TestCreatePayout_Validation(t *testing.T) {
	f := newWorkflowFixture(10)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad committee id", `{"committeeId":"x","userId":"` + f.member.ID.String() + `","amount":"1"}`, http.StatusBadRequest},
		{"bad user id", `{"committeeId":"` + f.committee.ID.String() + `","userId":"x","amount":"1"}`, http.StatusBadRequest},
		{"zero amount", `{"committeeId":"` + f.committee.ID.String() + `","userId":"` + f.member.ID.String() + `","amount":"0"}`, http.StatusBadRequest},
		{"not a member", `{"committeeId":"` + f.committee.ID.String() + `","userId":"` + f.member.ID.String() + `","amount":"10"}`, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := f.context(jsonRequest(http.MethodPost, tt.body), f.admin)
			require.NoError(t, f.payoutHandler.CreatePayout(c))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestPreviewPayout(t *testing.T) {
	f := newWorkflowFixture(5)
	f.holdSlot(uuid.New(), 1)

	url := "/api/v1/payouts/preview?committeeId=" + f.committee.ID.String() + "&amount=20000"
	c, rec := f.context(httptest.NewRequest(http.MethodGet, url, nil), f.member)

	require.NoError(t, f.payoutHandler.PreviewPayout(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var preview service.PayoutPreview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preview))
	assert.Equal(t, 2, preview.Slot)
	assert.True(t, preview.Amounts.FeeAmount.Equal(decimal.NewFromInt(2000)))
	require.NotNil(t, preview.Amounts.Details)
	assert.Contains(t, preview.Amounts.Details.Reason, "slot 2")
}

func TestCompletePayout_Twice(t *testing.T) {
	f := newWorkflowFixture(10)
	f.holdSlot(f.member.ID, 1)
	held, err := f.payouts.GetByUser(f.member.ID)
	require.NoError(t, err)
	payoutID := held[0].ID

	c, rec := f.context(httptest.NewRequest(http.MethodPost, "/", nil), f.admin)
	c.SetParamNames("id")
	c.SetParamValues(payoutID.String())
	require.NoError(t, f.payoutHandler.Complete(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	c, rec = f.context(httptest.NewRequest(http.MethodPost, "/", nil), f.admin)
	c.SetParamNames("id")
	c.SetParamValues(payoutID.String())
	require.NoError(t, f.payoutHandler.Complete(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListAllPayouts_FilterByCommittee(t *testing.T) {
	f := newWorkflowFixture(10)
	f.holdSlot(uuid.New(), 1)
	f.payouts.AddPayout(&domain.Payout{ID: uuid.New(), CommitteeID: uuid.New(), UserID: uuid.New(), SlotNumber: 1})

	c, rec := f.context(httptest.NewRequest(http.MethodGet, "/?committeeId="+f.committee.ID.String(), nil), f.admin)
	require.NoError(t, f.payoutHandler.ListAll(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var payouts []domain.Payout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payouts))
	assert.Len(t, payouts, 1)

	c, rec = f.context(httptest.NewRequest(http.MethodGet, "/", nil), f.admin)
	require.NoError(t, f.payoutHandler.ListAll(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payouts))
	assert.Len(t, payouts, 2)
}
