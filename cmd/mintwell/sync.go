package main

import (
	"fmt"

	"github.com/mintwell/mintwell/internal/plaid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync <user-id>",
		Short: "Refresh a user's snapshot from Plaid",
		Long: `Pull transactions, account balances, and credit liabilities from Plaid
and persist them. Transactions dedupe by hash, so repeated syncs over
overlapping windows are safe.`,
		Args: cobra.ExactArgs(1),
		RunE: runSync,
	}

	cmd.Flags().Int("lookback", 180, "days of transaction history to pull")

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	userID := args[0]
	lookback, _ := cmd.Flags().GetInt("lookback")

	cfg := plaid.Config{
		ClientID:    viper.GetString("plaid.client_id"),
		Secret:      viper.GetString("plaid.secret"),
		Environment: viper.GetString("plaid.environment"),
		AccessToken: viper.GetString("plaid.access_token"),
		UserID:      userID,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("plaid configuration: %w", err)
	}

	client, err := plaid.NewClient(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	syncer := plaid.NewSyncer(client, store, nil)
	result, err := syncer.Sync(ctx, userID, lookback)
	if err != nil {
		return err
	}

	fmt.Printf("Synced %d transactions, %d accounts, %d liabilities for %s\n",
		result.Transactions, result.Accounts, result.Liabilities, userID)
	return nil
}
