package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tvdoutor/contratos/internal/infra/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica as migrações SQL pendentes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.Migrate(cmd.Context(), db)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nenhuma migração pendente")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "aplicada: %s\n", name)
			}
			return nil
		},
	}
}
