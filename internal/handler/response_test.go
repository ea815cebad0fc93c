package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		errType string
		detail  string
	}{
		{"not found", domain.ErrCommitteeNotFound, http.StatusNotFound, ErrorTypeNotFound, domain.ErrCommitteeNotFound.Error()},
		{"wrapped not found", fmt.Errorf("lookup: %w", domain.ErrPayoutNotFound), http.StatusNotFound, ErrorTypeNotFound, ""},
		{"conflict", domain.ErrCommitteeFull, http.StatusConflict, ErrorTypeConflict, domain.ErrCommitteeFull.Error()},
		{"schedule locked", domain.ErrCommitteeScheduleLocked, http.StatusConflict, ErrorTypeConflict, ""},
		{"forbidden", domain.ErrVerificationRequired, http.StatusForbidden, ErrorTypeForbidden, ""},
		{"validation", domain.ErrSlotOutOfRange, http.StatusBadRequest, ErrorTypeValidation, ""},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, ErrorTypeInternal, "Failed to do thing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, respondServiceError(c, tt.err, "Failed to do thing"))
			assert.Equal(t, tt.status, rec.Code)

			var problem ProblemDetails
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tt.errType, problem.Type)
			if tt.detail != "" {
				assert.Equal(t, tt.detail, problem.Detail)
			}
		})
	}
}

func TestRespondServiceError_SlotUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/join-requests", nil), rec)

	err := fmt.Errorf("reserve: %w", domain.SlotUnavailableError{Slot: 2, Reason: "Slot is already taken", Suggested: 4})
	require.NoError(t, respondServiceError(c, err, "Failed"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, ErrorTypeSlotUnavailable, problem.Type)
	assert.Equal(t, 4, problem.SuggestedSlot)
	assert.Equal(t, "/api/v1/join-requests", problem.Instance)
}
