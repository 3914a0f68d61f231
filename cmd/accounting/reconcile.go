package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rozsagyenelaw/accounting-app/internal/reconcile"
	"github.com/rozsagyenelaw/accounting-app/pkg/money"
)

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile <file>...",
		Short: "Check the accounting balance identity over parsed statements",
		Long: `Parse the given statements and verify that opening balances plus
receipts and gains equal disbursements, losses, and closing balances.
Balance figures come from the schedule, not the statements, so they are
supplied as flags.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runReconcile,
	}

	cmd.Flags().String("opening-cash", "0", "Opening cash balance")
	cmd.Flags().String("opening-noncash", "0", "Opening non-cash asset value")
	cmd.Flags().String("closing-cash", "0", "Closing cash balance")
	cmd.Flags().String("closing-noncash", "0", "Closing non-cash asset value")
	cmd.Flags().String("gains", "0", "Gains on sales and other charges")
	cmd.Flags().String("losses", "0", "Losses on sales")

	return cmd
}

func runReconcile(cmd *cobra.Command, args []string) error {
	balances, err := balancesFromFlags(cmd)
	if err != nil {
		return err
	}

	batch, err := parseFiles(cmd, args)
	if err != nil {
		return err
	}

	report := reconcile.Run(batch.Transactions, balances)

	fmt.Printf("charges    %14s\n", money.FormatUSD(report.Charges))
	fmt.Printf("credits    %14s\n", money.FormatUSD(report.Credits))
	fmt.Printf("difference %14s\n", money.FormatUSD(report.Difference))
	if !report.IsBalanced {
		return fmt.Errorf("accounting does not balance: difference %s", report.Difference.StringFixed(2))
	}
	fmt.Println("balanced")
	return nil
}

func balancesFromFlags(cmd *cobra.Command) (reconcile.Balances, error) {
	var b reconcile.Balances
	for _, f := range []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"opening-cash", &b.OpeningCash},
		{"opening-noncash", &b.OpeningNonCash},
		{"closing-cash", &b.ClosingCash},
		{"closing-noncash", &b.ClosingNonCash},
		{"gains", &b.Gains},
		{"losses", &b.Losses},
	} {
		raw, _ := cmd.Flags().GetString(f.name)
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return b, fmt.Errorf("invalid --%s value %q", f.name, raw)
		}
		*f.dst = v
	}
	return b, nil
}
