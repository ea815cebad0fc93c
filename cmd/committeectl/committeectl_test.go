package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/service"
	"github.com/dafibh/committee/committee-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintFeeTable(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printFeeTable(&out, 10, decimal.Zero))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, []string{"1", "10"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"3", "7.5"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"5", "0"}, strings.Fields(lines[5]))
}

func TestPrintFeeTable_WithAmount(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printFeeTable(&out, 5, decimal.NewFromInt(50000)))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"1", "10", "5000.00", "45000.00"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"3", "0", "0.00", "50000.00"}, strings.Fields(lines[3]))
}

func TestPrintFeeTable_InvalidDuration(t *testing.T) {
	assert.Error(t, printFeeTable(&bytes.Buffer{}, 0, decimal.Zero))
}

func TestAuditCommittees(t *testing.T) {
	committees := testutil.NewMockCommitteeRepository()
	payouts := testutil.NewMockPayoutRepository()
	svc := service.NewCommitteeService(&testutil.MockTransactor{}, committees, payouts)

	clean := &domain.Committee{ID: uuid.New(), Name: "Clean", Duration: 5, MemberCount: 5, StartDate: time.Now()}
	broken := &domain.Committee{ID: uuid.New(), Name: "Broken", Duration: 5, MemberCount: 5, StartDate: time.Now()}
	committees.AddCommittee(clean)
	committees.AddCommittee(broken)

	payouts.AddPayout(&domain.Payout{ID: uuid.New(), CommitteeID: clean.ID, UserID: uuid.New(), SlotNumber: 1})
	payouts.AddPayout(&domain.Payout{ID: uuid.New(), CommitteeID: broken.ID, UserID: uuid.New(), SlotNumber: 2})
	payouts.AddPayout(&domain.Payout{ID: uuid.New(), CommitteeID: broken.ID, UserID: uuid.New(), SlotNumber: 2})

	var out bytes.Buffer
	conflicted, err := auditCommittees(&out, committees, svc)
	require.NoError(t, err)
	assert.Equal(t, 1, conflicted)
	assert.Contains(t, out.String(), "CONFLICT")
	assert.Contains(t, out.String(), "2 committees audited, 1 with conflicts")
}
