package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/repository/postgres"
	"github.com/dafibh/committee/committee-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// errConflictsFound makes the audit exit non-zero
var errConflictsFound = errors.New("slot conflicts found")

// auditCommittees validates the slot allocation of every committee and
// returns how many have conflicts.
func auditCommittees(w io.Writer, committeeRepo domain.CommitteeRepository, committees *service.CommitteeService) (int, error) {
	all, err := committeeRepo.GetAll()
	if err != nil {
		return 0, fmt.Errorf("list committees: %w", err)
	}

	conflicted := 0
	for _, c := range all {
		report, err := committees.SlotReport(c.ID)
		if err != nil {
			return conflicted, fmt.Errorf("audit committee %s: %w", c.ID, err)
		}
		status := "ok"
		if !report.Validation.IsValid {
			conflicted++
			status = "CONFLICT"
		}
		fmt.Fprintf(w, "%-8s %s %q occupied=%d/%d\n",
			status, c.ID, c.Name, report.Summary.OccupiedSlots, report.Summary.TotalSlots)
		for _, conflict := range report.Validation.Conflicts {
			fmt.Fprintf(w, "         %s\n", conflict)
		}
	}

	fmt.Fprintf(w, "%d committees audited, %d with conflicts\n", len(all), conflicted)
	return conflicted, nil
}

func auditCommand() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check every committee's payouts for slot conflicts (exit 1 on conflict)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(databaseURL) == "" {
				return errors.New("database url required (--database-url or DATABASE_URL)")
			}

			pool, err := postgres.NewPool(cmd.Context(), databaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			committeeRepo := postgres.NewCommitteeRepository(pool)
			committees := service.NewCommitteeService(postgres.NewTransactor(pool), committeeRepo, postgres.NewPayoutRepository(pool))

			conflicted, err := auditCommittees(cmd.OutOrStdout(), committeeRepo, committees)
			if err != nil {
				return err
			}
			if conflicted > 0 {
				log.Warn().Int("committees", conflicted).Msg("Slot conflicts detected")
				return errConflictsFound
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "postgres connection string")
	return cmd
}
