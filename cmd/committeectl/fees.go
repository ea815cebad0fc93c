package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dafibh/committee/committee-backend/internal/payout"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// printFeeTable writes one row per slot. When amount is positive the fee and
// net payout are included.
func printFeeTable(w io.Writer, duration int, amount decimal.Decimal) error {
	if duration < 1 {
		return fmt.Errorf("duration must be at least 1, got %d", duration)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	withAmount := amount.IsPositive()
	if withAmount {
		fmt.Fprintln(tw, "SLOT\tFEE %\tFEE\tNET")
	} else {
		fmt.Fprintln(tw, "SLOT\tFEE %")
	}
	for slot := 1; slot <= duration; slot++ {
		b := payout.Breakdown(amount, duration, slot)
		if withAmount {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", slot,
				payout.PercentString(b.FeePercentage), b.FeeAmount.StringFixed(2), b.NetAmount.StringFixed(2))
		} else {
			fmt.Fprintf(tw, "%d\t%s\n", slot, payout.PercentString(b.FeePercentage))
		}
	}
	return tw.Flush()
}

func feesCommand() *cobra.Command {
	var duration int
	var amount string

	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Print the early-payout fee of every slot for a committee duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			value := decimal.Zero
			if amount != "" {
				var err error
				if value, err = decimal.NewFromString(amount); err != nil {
					return fmt.Errorf("invalid amount %q: %w", amount, err)
				}
			}
			return printFeeTable(cmd.OutOrStdout(), duration, value)
		},
	}
	cmd.Flags().IntVar(&duration, "duration", payout.LongCommitteeDuration, "committee duration in months")
	cmd.Flags().StringVar(&amount, "amount", "", "payout amount to break down")
	return cmd
}
