package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/comptaflow/comptaflow/internal/model"
)

func newEntryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Work with journal entries",
	}
	cmd.AddCommand(newEntryAddCommand())
	return cmd
}

func newEntryAddCommand() *cobra.Command {
	var (
		journal   string
		dateStr   string
		label     string
		reference string
		debitAcct string
		credAcct  string
		amountStr string
		actor     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a balanced two-line journal entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("parsing date: %w", err)
			}
			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("parsing amount: %w", err)
			}

			_, log, store, err := setup(cmd)
			if err != nil {
				return err
			}
			defer store.Close()
			defer log.Sync()

			entry := &model.JournalEntry{
				JournalCode: journal,
				Date:        date,
				Label:       label,
				Reference:   reference,
				Status:      model.StatusDraft,
				Lines: []model.JournalLine{
					{AccountCode: debitAcct, Label: label, Debit: amount},
					{AccountCode: credAcct, Label: label, Credit: amount},
				},
			}

			saved, err := store.SaveJournalEntry(cmd.Context(), entry, actor)
			if err != nil {
				return err
			}
			fmt.Printf("Saved entry %s (%s)\n", saved.EntryNumber, saved.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&journal, "journal", "OD", "journal code")
	cmd.Flags().StringVar(&dateStr, "date", time.Now().Format("2006-01-02"), "entry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&label, "label", "", "entry label (required)")
	_ = cmd.MarkFlagRequired("label")
	cmd.Flags().StringVar(&reference, "reference", "", "external reference")
	cmd.Flags().StringVar(&debitAcct, "debit", "", "debited account code (required)")
	_ = cmd.MarkFlagRequired("debit")
	cmd.Flags().StringVar(&credAcct, "credit", "", "credited account code (required)")
	_ = cmd.MarkFlagRequired("credit")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&actor, "actor", "cli", "acting party recorded in the audit trail")

	return cmd
}
