// Command contratosctl reúne as tarefas administrativas do serviço de contratos.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "contratosctl",
		Short:         "Ferramentas administrativas do gerador de contratos TV Doutor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newCreateAdminCmd(), newQuoteCmd())
	return root
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	if err := newRootCmd().Execute(); err != nil {
		zlog.Error().Err(err).Msg("comando falhou")
		os.Exit(1)
	}
}
