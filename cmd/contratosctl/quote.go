package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tvdoutor/contratos/internal/pricing"
)

func newQuoteCmd() *cobra.Command {
	var in pricing.QuoteInput
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Calcula os valores de um contrato",
		Example: `  contratosctl quote --e43 2 --e55 1 --players 3 --unit "R$ 100,00" --monthly "R$ 199,00"`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := pricing.NewQuote(in)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Equipamentos\t%d\n", q.TotalEquipmentQuantity)
			fmt.Fprintf(tw, "Valor por equipamento\t%s\n", q.FormattedImplementationValuePerUnit)
			fmt.Fprintf(tw, "Subtotal 43\"\t%s\n", q.FormattedSubtotal43)
			fmt.Fprintf(tw, "Subtotal 55\"\t%s\n", q.FormattedSubtotal55)
			fmt.Fprintf(tw, "Subtotal players\t%s\n", q.FormattedSubtotalPlayers)
			fmt.Fprintf(tw, "Implantação\t%s\n", q.FormattedImplementationValue)
			fmt.Fprintf(tw, "Mensalidade\t%s\n", q.FormattedMonthlyValue)
			fmt.Fprintf(tw, "Total\t%s\n", q.FormattedContractTotal)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&in.Equipment43, "e43", "0", "quantidade de TVs 43\"")
	cmd.Flags().StringVar(&in.Equipment55, "e55", "0", "quantidade de TVs 55\"")
	cmd.Flags().StringVar(&in.Players, "players", "0", "quantidade de players")
	cmd.Flags().StringVar(&in.ImplementationValue, "unit", "", "valor de implantação por equipamento")
	cmd.Flags().StringVar(&in.MonthlyValue, "monthly", "", "mensalidade")
	return cmd
}
