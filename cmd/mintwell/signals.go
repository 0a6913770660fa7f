package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mintwell/mintwell/internal/model"
	"github.com/spf13/cobra"
)

func signalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signals <user-id>",
		Short: "Compute behavioral signals for a user",
		Long: `Compute the full signal set for a user over a trailing window.

Signals are derived from the stored transaction, account, and liability
snapshot. Missing data yields zero values, never errors.`,
		Args: cobra.ExactArgs(1),
		RunE: runSignals,
	}

	cmd.Flags().IntP("window", "w", model.WindowShort, "signal window in days (30 or 180)")
	cmd.Flags().Bool("json", false, "emit JSON instead of a summary")

	return cmd
}

func runSignals(cmd *cobra.Command, args []string) error {
	userID := args[0]
	window, _ := cmd.Flags().GetInt("window")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	eng, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	sig, err := eng.ComputeSignals(ctx, userID, window)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sig)
	}

	printSignals(&sig)
	return nil
}

func printSignals(sig *model.SignalSet) {
	fmt.Printf("Signals for %s (%d-day window, as of %s)\n\n", sig.UserID, sig.WindowDays, sig.ComputedAt.Format("2006-01-02"))

	fmt.Println("Subscriptions:")
	fmt.Printf("  count: %d   monthly spend: $%.2f   share of spend: %.1f%%\n",
		sig.SubscriptionCount, sig.SubscriptionSpend, sig.SubscriptionShare*100)

	fmt.Println("Savings:")
	fmt.Printf("  net inflow: $%.2f   growth rate: %.1f%%   emergency fund: %.1f months\n",
		sig.SavingsNetInflow, sig.SavingsGrowthRate*100, sig.EmergencyFundMonths)

	fmt.Println("Credit:")
	if sig.MaxUtilization == nil {
		fmt.Println("  no credit accounts with known limits")
	} else {
		fmt.Printf("  max utilization: %.1f%%   interest charges: $%.2f   minimum-payment only: %v\n",
			*sig.MaxUtilization*100, sig.InterestCharges, sig.MinimumPaymentOnly)
	}

	fmt.Println("Income:")
	fmt.Printf("  payroll detected: %v   median pay gap: %.0f days   avg monthly income: $%.2f\n",
		sig.PayrollDetected, sig.MedianPayGapDays, sig.AvgMonthlyIncome)

	fmt.Println("Cash flow:")
	if sig.HasUnboundedBuffer() {
		fmt.Printf("  buffer: unbounded (no expenses in window)   liquid balance: $%.2f\n", sig.LiquidBalance)
	} else {
		fmt.Printf("  buffer: %.1f months   liquid balance: $%.2f   avg monthly expense: $%.2f\n",
			sig.CashFlowBufferMonths, sig.LiquidBalance, sig.AvgMonthlyExpense)
	}
}
