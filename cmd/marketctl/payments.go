package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/config"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
)

func paymentsCmd(cfg *config.Config, open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Inspect the payment ledger",
	}
	cmd.AddCommand(paymentStatusCmd(cfg, open))
	cmd.AddCommand(stalePaymentsCmd(cfg, open))
	return cmd
}

func paymentStatusCmd(cfg *config.Config, open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [provider-ref]",
		Short: "Show the ledger row for a checkout session or order id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, _ := cmd.Flags().GetString("provider")
			db, err := open(cfg)
			if err != nil {
				return err
			}

			p, err := repository.NewLedger(db).FindPaymentByRef(cmd.Context(), provider, args[0])
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("no %s payment with reference %q", provider, args[0])
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "id:\t%s\n", p.ID)
			fmt.Fprintf(w, "status:\t%s\n", p.Status)
			fmt.Fprintf(w, "listing:\t%s\n", p.ListingID)
			fmt.Fprintf(w, "owner:\t%s\n", p.OwnerID)
			fmt.Fprintf(w, "renter:\t%s\n", p.RenterID)
			fmt.Fprintf(w, "amount:\t%s %s\n", p.Amount.StringFixed(2), p.Currency)
			fmt.Fprintf(w, "created:\t%s\n", p.CreatedAt.UTC().Format(time.RFC3339))
			if p.PaidAt != nil {
				fmt.Fprintf(w, "paid:\t%s\n", p.PaidAt.UTC().Format(time.RFC3339))
				fmt.Fprintf(w, "settlement:\t%s\n", p.PaymentIntentRef)
			}
			return w.Flush()
		},
	}
	cmd.Flags().String("provider", cfg.PaymentProvider, "Provider that issued the reference (stripe, razorpay)")
	return cmd
}

func stalePaymentsCmd(cfg *config.Config, open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stale",
		Short: "List payments still awaiting confirmation",
		RunE: func(cmd *cobra.Command, args []string) error {
			olderThan, _ := cmd.Flags().GetDuration("older-than")
			limit, _ := cmd.Flags().GetInt("limit")
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			db, err := open(cfg)
			if err != nil {
				return err
			}

			stale, err := repository.NewLedger(db).ListStalePayments(cmd.Context(), time.Now().Add(-olderThan), limit)
			if err != nil {
				return err
			}
			if len(stale) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no stale payments")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "REF\tPROVIDER\tAMOUNT\tRENTER\tCREATED")
			for _, p := range stale {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					p.ProviderRef(), providerOf(&p), p.Amount.StringFixed(2), p.RenterID,
					p.CreatedAt.UTC().Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
	cmd.Flags().Duration("older-than", 24*time.Hour, "Minimum age of an unconfirmed payment")
	cmd.Flags().IntP("limit", "n", 100, "Maximum rows")
	return cmd
}

func providerOf(p *models.Payment) string {
	if p.StripeSessionID != nil {
		return models.ProviderStripe
	}
	return models.ProviderRazorpay
}
