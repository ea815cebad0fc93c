package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validCommittee() *Committee {
	return &Committee{
		Name:        "Family Pool",
		Amount:      decimal.NewFromInt(100000),
		MemberCount: 10,
		Duration:    10,
		StartDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCommitteeValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Committee)
		want   error
	}{
		{"valid", func(c *Committee) {}, nil},
		{"blank name", func(c *Committee) { c.Name = "   " }, ErrNameRequired},
		{"long name", func(c *Committee) { c.Name = strings.Repeat("a", MaxCommitteeNameLength+1) }, ErrNameTooLong},
		{"zero amount", func(c *Committee) { c.Amount = decimal.Zero }, ErrCommitteeAmountInvalid},
		{"too few members", func(c *Committee) { c.MemberCount = 4 }, ErrCommitteeMembersInvalid},
		{"too many members", func(c *Committee) { c.MemberCount = 101 }, ErrCommitteeMembersInvalid},
		{"zero duration", func(c *Committee) { c.Duration = 0 }, ErrCommitteeDurationInvalid},
		{"no start date", func(c *Committee) { c.StartDate = time.Time{} }, ErrCommitteeStartRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCommittee()
			tt.mutate(c)
			assert.Equal(t, tt.want, c.Validate())
		})
	}
}

func TestCommitteeMembership(t *testing.T) {
	c := validCommittee()
	c.MemberCount = 5
	member := uuid.New()
	c.Members = []uuid.UUID{member, uuid.New(), uuid.New(), uuid.New()}

	assert.True(t, c.HasMember(member))
	assert.False(t, c.HasMember(uuid.New()))
	assert.False(t, c.IsFull())

	c.Members = append(c.Members, uuid.New())
	assert.True(t, c.IsFull())
}

func TestScheduledDateForSlot(t *testing.T) {
	c := validCommittee()
	assert.Equal(t, c.StartDate, c.ScheduledDateForSlot(1))
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), c.ScheduledDateForSlot(4))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), c.ScheduledDateForSlot(13))

	c.StartDate = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), c.ScheduledDateForSlot(2))
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), c.ScheduledDateForSlot(3))
}

func TestRoundAt(t *testing.T) {
	c := validCommittee()
	c.StartDate = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	c.Duration = 10

	tests := []struct {
		name string
		now  time.Time
		want int32
	}{
		{"before start", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), 1},
		{"start day", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), 1},
		{"end of first month", time.Date(2026, 2, 14, 23, 0, 0, 0, time.UTC), 1},
		{"second month", time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), 2},
		{"fourth month", time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC), 4},
		{"last round", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), 10},
		{"after the end", time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.RoundAt(tt.now))
		})
	}
}

func TestRoundAt_MonthEndStart(t *testing.T) {
	c := validCommittee()
	c.StartDate = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	c.Duration = 5

	// slot 2 pays on Feb 28, so round 2 starts there
	assert.Equal(t, int32(1), c.RoundAt(time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int32(2), c.RoundAt(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int32(2), c.RoundAt(time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int32(3), c.RoundAt(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
}
