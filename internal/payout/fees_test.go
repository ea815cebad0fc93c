package payout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFeePercentage_Table(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		slot     int
		expected string
	}{
		{"5 month slot 1", 5, 1, "0.10"},
		{"5 month slot 2", 5, 2, "0.10"},
		{"5 month slot 3", 5, 3, "0"},
		{"5 month slot 4", 5, 4, "0"},
		{"5 month slot 5", 5, 5, "0"},
		{"10 month slot 1", 10, 1, "0.10"},
		{"10 month slot 2", 10, 2, "0.10"},
		{"10 month slot 3", 10, 3, "0.075"},
		{"10 month slot 4", 10, 4, "0.075"},
		{"10 month slot 5", 10, 5, "0"},
		{"10 month slot 10", 10, 10, "0"},
		{"unsupported duration", 7, 1, "0"},
		{"zero slot", 10, 0, "0"},
		{"negative slot", 5, -1, "0"},
		{"slot beyond duration", 5, 12, "0"},
		{"zero duration", 0, 1, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FeePercentage(tt.duration, tt.slot)
			assert.True(t, dec(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestFeePercentage_AlwaysBelowOne(t *testing.T) {
	one := decimal.NewFromInt(1)
	for duration := -2; duration <= 24; duration++ {
		for slot := -2; slot <= 30; slot++ {
			pct := FeePercentage(duration, slot)
			assert.False(t, pct.IsNegative(), "duration %d slot %d negative", duration, slot)
			assert.True(t, pct.LessThan(one), "duration %d slot %d >= 1", duration, slot)
		}
	}
}

func TestFeeDetailsFor(t *testing.T) {
	t.Run("nil when no fee", func(t *testing.T) {
		assert.Nil(t, FeeDetailsFor(5, 3))
		assert.Nil(t, FeeDetailsFor(7, 1))
		assert.Nil(t, FeeDetailsFor(10, 5))
	})

	t.Run("reason embeds slot and duration", func(t *testing.T) {
		details := FeeDetailsFor(10, 3)
		require.NotNil(t, details)
		assert.True(t, dec("0.075").Equal(details.Percentage))
		assert.Equal(t, "Early payout fee for slot 3 in a 10-month committee.", details.Reason)
	})

	t.Run("matches FeePercentage whenever non-nil", func(t *testing.T) {
		for _, duration := range []int{1, 5, 6, 10, 12} {
			for slot := 0; slot <= duration+1; slot++ {
				pct := FeePercentage(duration, slot)
				details := FeeDetailsFor(duration, slot)
				if pct.IsZero() {
					assert.Nil(t, details)
					continue
				}
				require.NotNil(t, details)
				assert.True(t, pct.Equal(details.Percentage))
			}
		}
	})
}

func TestBreakdown(t *testing.T) {
	t.Run("fee applied", func(t *testing.T) {
		b := Breakdown(dec("50000"), 5, 1)
		assert.True(t, dec("5000").Equal(b.FeeAmount))
		assert.True(t, dec("45000").Equal(b.NetAmount))
		assert.True(t, dec("50000").Equal(b.OriginalAmount))
		require.NotNil(t, b.Details)
	})

	t.Run("seven and a half percent", func(t *testing.T) {
		b := Breakdown(dec("100000"), 10, 4)
		assert.True(t, dec("7500").Equal(b.FeeAmount))
		assert.True(t, dec("92500").Equal(b.NetAmount))
	})

	t.Run("no fee", func(t *testing.T) {
		b := Breakdown(dec("100000"), 10, 5)
		assert.True(t, b.FeeAmount.IsZero())
		assert.True(t, dec("100000").Equal(b.NetAmount))
		assert.Nil(t, b.Details)
	})

	t.Run("net is original minus fee", func(t *testing.T) {
		for slot := 1; slot <= 10; slot++ {
			b := Breakdown(dec("12345.67"), 10, slot)
			assert.True(t, b.OriginalAmount.Sub(b.FeeAmount).Equal(b.NetAmount))
			assert.True(t, b.OriginalAmount.Mul(b.FeePercentage).Round(AmountScale).Equal(b.FeeAmount))
		}
	})

	t.Run("fee rounded to storage scale", func(t *testing.T) {
		b := Breakdown(dec("100.01"), 10, 3)
		assert.Equal(t, "7.5008", b.FeeAmount.String())
		assert.Equal(t, "92.5092", b.NetAmount.String())
		assert.True(t, dec("100.01").Equal(b.FeeAmount.Add(b.NetAmount)))

		// what the numeric(14,4) columns keep is exactly what was computed
		assert.True(t, b.FeeAmount.Equal(b.FeeAmount.Round(AmountScale)))
		assert.True(t, b.NetAmount.Equal(b.NetAmount.Round(AmountScale)))
	})
}

func TestFeeTable(t *testing.T) {
	table := FeeTable(10)
	assert.Len(t, table, 10)
	assert.True(t, dec("0.10").Equal(table[1]))
	assert.True(t, dec("0.075").Equal(table[4]))
	assert.True(t, table[10].IsZero())

	assert.Empty(t, FeeTable(0))
}

func TestOriginationFee(t *testing.T) {
	assert.True(t, dec("1000").Equal(OriginationFee(dec("100000"), 5)))
	assert.True(t, dec("1000").Equal(OriginationFee(dec("100000"), 3)))
	assert.True(t, dec("2000").Equal(OriginationFee(dec("100000"), 6)))
	assert.True(t, dec("2000").Equal(OriginationFee(dec("100000"), 10)))
}

func TestMonthlyContribution(t *testing.T) {
	// base 10000 + early fee 10000 + origination 2000
	assert.True(t, dec("22000").Equal(MonthlyContribution(dec("100000"), 10, 1)))
	// base 10000 + no early fee + origination 2000
	assert.True(t, dec("12000").Equal(MonthlyContribution(dec("100000"), 10, 8)))
	assert.True(t, MonthlyContribution(dec("100000"), 0, 1).IsZero())
}

func TestTotalPayable(t *testing.T) {
	assert.True(t, dec("120000").Equal(TotalPayable(dec("100000"), 10, 8)))
	// (10000 + 5000 + 500) * 5
	assert.True(t, dec("77500").Equal(TotalPayable(dec("50000"), 5, 2)))
}

func TestPercentString(t *testing.T) {
	assert.Equal(t, "7.5", PercentString(dec("0.075")))
	assert.Equal(t, "10", PercentString(dec("0.10")))
	assert.Equal(t, "0", PercentString(decimal.Zero))
}
