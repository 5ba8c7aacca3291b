package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/comptaflow/comptaflow/internal/model"
)

func newTrialBalanceCommand() *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Print the trial balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var r model.DateRange
			var err error
			if fromStr != "" {
				if r.From, err = time.Parse("2006-01-02", fromStr); err != nil {
					return fmt.Errorf("parsing --from: %w", err)
				}
			}
			if toStr != "" {
				if r.To, err = time.Parse("2006-01-02", toStr); err != nil {
					return fmt.Errorf("parsing --to: %w", err)
				}
			}

			_, _, store, err := setup(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.TrialBalance(cmd.Context(), r)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tACCOUNT\tOPENING\tDEBIT\tCREDIT\tCLOSING")
			totalDebit, totalCredit := decimal.Zero, decimal.Zero
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					row.AccountCode, row.AccountName,
					row.OpeningSolde.StringFixed(2),
					row.Debit.StringFixed(2), row.Credit.StringFixed(2),
					row.ClosingSolde.StringFixed(2))
				totalDebit = totalDebit.Add(row.Debit)
				totalCredit = totalCredit.Add(row.Credit)
			}
			fmt.Fprintf(w, "\tTOTAL\t\t%s\t%s\t\n", totalDebit.StringFixed(2), totalCredit.StringFixed(2))
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "period end (YYYY-MM-DD)")

	return cmd
}
