package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/payout"
	"github.com/dafibh/committee/committee-backend/internal/service"
	"github.com/dafibh/committee/committee-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type committeeFixture struct {
	handler    *CommitteeHandler
	committees *testutil.MockCommitteeRepository
	payouts    *testutil.MockPayoutRepository
	admin      *domain.User
}

func newCommitteeFixture() *committeeFixture {
	committees := testutil.NewMockCommitteeRepository()
	payouts := testutil.NewMockPayoutRepository()
	return &committeeFixture{
		handler:    NewCommitteeHandler(service.NewCommitteeService(&testutil.MockTransactor{}, committees, payouts)),
		committees: committees,
		payouts:    payouts,
		admin:      &domain.User{ID: uuid.New(), Auth0ID: "auth0|admin", Role: domain.RoleAdmin},
	}
}

func (f *committeeFixture) addCommittee(duration int32) *domain.Committee {
	committee := &domain.Committee{
		ID:          uuid.New(),
		Name:        "Office Committee",
		Amount:      decimal.NewFromInt(100000),
		MemberCount: duration,
		Duration:    duration,
		StartDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:      domain.CommitteeStatusActive,
		AdminID:     f.admin.ID,
	}
	f.committees.AddCommittee(committee)
	return committee
}

func (f *committeeFixture) hold(committee *domain.Committee, userID uuid.UUID, slot int32) {
	committee.Members = append(committee.Members, userID)
	f.payouts.AddPayout(&domain.Payout{
		ID:          uuid.New(),
		CommitteeID: committee.ID,
		UserID:      userID,
		SlotNumber:  slot,
		Status:      domain.PayoutStatusPending,
	})
}

func jsonRequest(method, body string) *http.Request {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestCreateCommittee_Success(t *testing.T) {
	f := newCommitteeFixture()
	e := echo.New()

	body := `{"name":"Office Committee","amount":"100000","memberCount":10,"duration":10,"startDate":"2026-01-01"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, body), rec)
	setupUserContext(c, f.admin)

	require.NoError(t, f.handler.CreateCommittee(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.Committee
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, domain.CommitteeStatusActive, created.Status)
	assert.Equal(t, f.admin.ID, created.AdminID)
	assert.Equal(t, created.RoundAt(time.Now()), created.CurrentRound)
}

func TestCreateCommittee_InvalidStartDate(t *testing.T) {
	f := newCommitteeFixture()
	e := echo.New()

	body := `{"name":"Office Committee","amount":"100000","memberCount":10,"duration":10,"startDate":"next month"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, body), rec)
	setupUserContext(c, f.admin)

	require.NoError(t, f.handler.CreateCommittee(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "startDate", problem.Errors[0].Field)
}

func TestCreateCommittee_TooFewMembers(t *testing.T) {
	f := newCommitteeFixture()
	e := echo.New()

	body := `{"name":"Tiny","amount":"100000","memberCount":2,"duration":10,"startDate":"2026-01-01"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, body), rec)
	setupUserContext(c, f.admin)

	require.NoError(t, f.handler.CreateCommittee(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCommittee_WithPayouts(t *testing.T) {
	f := newCommitteeFixture()
	committee := f.addCommittee(10)
	f.hold(committee, uuid.New(), 1)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(committee.ID.String())
	setupUserContext(c, f.admin)

	require.NoError(t, f.handler.DeleteCommittee(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetCommittee_NotFound(t *testing.T) {
	f := newCommitteeFixture()
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	setupUserContext(c, f.admin)

	require.NoError(t, f.handler.GetCommittee(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckSlot_TakenSuggestsNext(t *testing.T) {
	f := newCommitteeFixture()
	committee := f.addCommittee(10)
	f.hold(committee, uuid.New(), 1)
	f.hold(committee, uuid.New(), 2)
	user := &domain.User{ID: uuid.New(), Auth0ID: "auth0|member"}
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id", "slot")
	c.SetParamValues(committee.ID.String(), "2")
	setupUserContext(c, user)

	require.NoError(t, f.handler.CheckSlot(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var check payout.PreferredSlot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &check))
	assert.False(t, check.Valid)
	assert.Equal(t, 3, check.SuggestedSlot)
}

func TestGetSlots_Report(t *testing.T) {
	f := newCommitteeFixture()
	committee := f.addCommittee(10)
	f.hold(committee, uuid.New(), 1)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(committee.ID.String())
	setupUserContext(c, f.admin)

	require.NoError(t, f.handler.GetSlots(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"occupiedSlots":1`)
}

func TestGetFees(t *testing.T) {
	f := newCommitteeFixture()
	committee := f.addCommittee(10)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(committee.ID.String())
	setupUserContext(c, f.admin)

	require.NoError(t, f.handler.GetFees(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response FeeTableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Len(t, response.Fees, 10)
	assert.True(t, response.Fees[3].Equal(decimal.RequireFromString("0.075")))
	assert.True(t, response.Fees[10].IsZero())
}

func TestEstimateFees(t *testing.T) {
	e := echo.New()
	handler := newCommitteeFixture().handler

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/fees/estimate?amount=100000&duration=10&slot=3", nil)
	c := e.NewContext(req, rec)

	require.NoError(t, handler.EstimateFees(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var estimate service.FeeEstimate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &estimate))
	assert.True(t, estimate.FeeAmount.Equal(decimal.NewFromInt(7500)))
	assert.True(t, estimate.NetPayout.Equal(decimal.NewFromInt(92500)))
}

func TestEstimateFees_BadQuery(t *testing.T) {
	e := echo.New()
	handler := newCommitteeFixture().handler

	for _, query := range []string{
		"amount=abc&duration=10&slot=3",
		"amount=100&duration=x&slot=3",
		"amount=100&duration=10",
		"amount=-5&duration=10&slot=3",
	} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/fees/estimate?"+query, nil), rec)
		require.NoError(t, handler.EstimateFees(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}
