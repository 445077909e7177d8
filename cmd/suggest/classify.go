package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/model"
)

func classifyCmd() *cobra.Command {
	var (
		txnID    string
		userID   string
		merchant string
		name     string
		txnType  string
		dateStr  string
		amount   float64
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Suggest a category for one transaction",
		Long: `Run the full decision path for a single transaction described by flags
and print the resulting suggestion, including which path served it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			date := time.Now()
			if dateStr != "" {
				parsed, err := time.Parse("2006-01-02", dateStr)
				if err != nil {
					return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", dateStr, err)
				}
				date = parsed
			}

			txn := model.Transaction{
				ID:           txnID,
				UserID:       userID,
				MerchantName: merchant,
				Name:         name,
				Type:         txnType,
				Amount:       amount,
				Date:         date,
			}
			if txn.ID == "" {
				txn.ID = txn.GenerateHash()
			}

			svc, _, cleanup, err := buildService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			decision := svc.Suggest(ctx, txn)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()
			fmt.Fprintf(w, "Category:\t%s\n", decision.Label)
			fmt.Fprintf(w, "Confidence:\t%.2f\n", decision.Confidence)
			fmt.Fprintf(w, "Source:\t%s\n", decision.Source)
			fmt.Fprintf(w, "Shadow agreement:\t%s\n", decision.ShadowAgreement)
			if decision.ModelVersion != "" {
				fmt.Fprintf(w, "Model version:\t%s\n", decision.ModelVersion)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&txnID, "id", "", "transaction id (derived from fields when empty)")
	cmd.Flags().StringVar(&userID, "user", "", "user id used for canary cohort assignment")
	cmd.Flags().StringVar(&merchant, "merchant", "", "cleaned merchant name")
	cmd.Flags().StringVar(&name, "name", "", "raw transaction description")
	cmd.Flags().StringVar(&txnType, "type", "", "transaction type (DEBIT, CHECK, ...)")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "signed transaction amount")

	return cmd
}
