package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const programName = "committeectl"

var globalFlags = struct {
	debug bool
}{}

func commonRun() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if globalFlags.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Operator tools for the committee backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonRun()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.AddCommand(
		feesCommand(),
		auditCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg(programName + " failed")
		os.Exit(1)
	}
}
