// Package payout holds the early-payout fee schedule and the slot allocator.
//
// Everything here is pure: callers pass in the committee shape and the current
// payout holdings, and get a fresh answer computed from scratch. Nothing is
// cached and nothing returns an error; invalid input is reported through the
// returned values.
package payout

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	feeTenPercent    = decimal.RequireFromString("0.10")
	feeSevenAndAHalf = decimal.RequireFromString("0.075")
	originationLow   = decimal.RequireFromString("0.01")
	originationHigh  = decimal.RequireFromString("0.02")
	oneHundred       = decimal.NewFromInt(100)
)

// AmountScale is the number of decimal places fee and net amounts are stored
// with. The fee is rounded once and the net derived from it, so the two always
// add back up to the original amount.
const AmountScale = 4

// Durations that carry an early-payout fee. Any other duration is fee free.
const (
	ShortCommitteeDuration = 5
	LongCommitteeDuration  = 10
)

// FeeDetails explains a non-zero early-payout fee
type FeeDetails struct {
	Percentage decimal.Decimal `json:"percentage"`
	Reason     string          `json:"reason"`
}

// Amounts is the fee breakdown persisted on a payout
type Amounts struct {
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	FeePercentage  decimal.Decimal `json:"feePercentage"`
	FeeAmount      decimal.Decimal `json:"feeAmount"`
	NetAmount      decimal.Decimal `json:"netAmount"`
	Details        *FeeDetails     `json:"feeDetails,omitempty"`
}

// FeePercentage returns the fraction withheld from a payout at the given slot.
// Unsupported durations and out-of-range slots are not errors, they are no fee.
func FeePercentage(duration, slot int) decimal.Decimal {
	switch duration {
	case ShortCommitteeDuration:
		if slot == 1 || slot == 2 {
			return feeTenPercent
		}
	case LongCommitteeDuration:
		switch slot {
		case 1, 2:
			return feeTenPercent
		case 3, 4:
			return feeSevenAndAHalf
		}
	}
	return decimal.Zero
}

// FeeDetailsFor returns nil when no fee applies
func FeeDetailsFor(duration, slot int) *FeeDetails {
	pct := FeePercentage(duration, slot)
	if !pct.IsPositive() {
		return nil
	}
	return &FeeDetails{
		Percentage: pct,
		Reason:     fmt.Sprintf("Early payout fee for slot %d in a %d-month committee.", slot, duration),
	}
}

// Breakdown applies the early-payout fee for (duration, slot) to an amount.
func Breakdown(original decimal.Decimal, duration, slot int) Amounts {
	pct := FeePercentage(duration, slot)
	fee := original.Mul(pct).Round(AmountScale)
	return Amounts{
		OriginalAmount: original,
		FeePercentage:  pct,
		FeeAmount:      fee,
		NetAmount:      original.Sub(fee),
		Details:        FeeDetailsFor(duration, slot),
	}
}

// FeeTable returns the fee for every slot of a committee, keyed by slot number
func FeeTable(duration int) map[int]decimal.Decimal {
	table := make(map[int]decimal.Decimal)
	for slot := 1; slot <= duration; slot++ {
		table[slot] = FeePercentage(duration, slot)
	}
	return table
}

// OriginationFee is the flat committee fee on the total pool value:
// 1% up to five months, 2% beyond.
func OriginationFee(totalAmount decimal.Decimal, duration int) decimal.Decimal {
	if duration <= ShortCommitteeDuration {
		return totalAmount.Mul(originationLow)
	}
	return totalAmount.Mul(originationHigh)
}

// MonthlyContribution estimates what a member holding slot pays each month.
func MonthlyContribution(totalAmount decimal.Decimal, duration, slot int) decimal.Decimal {
	if duration <= 0 {
		return decimal.Zero
	}
	base := totalAmount.Div(decimal.NewFromInt(int64(duration)))
	early := totalAmount.Mul(FeePercentage(duration, slot))
	return base.Add(early).Add(OriginationFee(totalAmount, duration))
}

// TotalPayable is MonthlyContribution over the whole committee
func TotalPayable(totalAmount decimal.Decimal, duration, slot int) decimal.Decimal {
	return MonthlyContribution(totalAmount, duration, slot).Mul(decimal.NewFromInt(int64(duration)))
}

// PercentString renders a fee fraction as a percentage, e.g. 0.075 -> "7.5"
func PercentString(pct decimal.Decimal) string {
	return pct.Mul(oneHundred).String()
}
