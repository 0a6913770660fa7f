package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mintwell/mintwell/internal/model"
	"github.com/mintwell/mintwell/internal/ofx"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx <user-id> [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions and account balances from OFX or QFX files exported
from a bank, for users without a linked aggregator.

Examples:
  # Import a single file
  mintwell import-ofx user-123 ~/Downloads/checking_jan.qfx

  # Import everything a bank exported
  mintwell import-ofx user-123 ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(2),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "preview import without saving")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	userID := args[0]
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	var allFiles []string
	for _, pattern := range args[1:] {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}
	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	parser := ofx.NewParser()
	ctx := cmd.Context()

	var allTransactions []model.Transaction
	var allAccounts []model.Account
	seenTxn := make(map[string]bool)
	seenAcct := make(map[string]bool)

	for _, filePath := range allFiles {
		slog.Info("Processing file", "file", filepath.Base(filePath))

		transactions, accounts, err := parseOFXFile(ctx, parser, filePath, userID)
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", filePath, "error", err)
			continue
		}

		for _, tx := range transactions {
			if !seenTxn[tx.Hash] {
				seenTxn[tx.Hash] = true
				allTransactions = append(allTransactions, tx)
			}
		}
		for _, acct := range accounts {
			if !seenAcct[acct.ID] {
				seenAcct[acct.ID] = true
				allAccounts = append(allAccounts, acct)
			}
		}
	}

	fmt.Printf("Parsed %d transactions across %d accounts from %d files\n",
		len(allTransactions), len(allAccounts), len(allFiles))

	if dryRun {
		fmt.Println("Dry run: nothing saved")
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveTransactions(ctx, allTransactions); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	if err := store.SaveAccounts(ctx, allAccounts); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}

	fmt.Println("Import complete")
	return nil
}

func parseOFXFile(ctx context.Context, parser *ofx.Parser, path, userID string) ([]model.Transaction, []model.Account, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from operator args
	if err != nil {
		return nil, nil, err
	}
	transactions, err := parser.ParseFile(ctx, f, userID)
	_ = f.Close()
	if err != nil {
		return nil, nil, err
	}

	// Accounts need a second pass over the file.
	f, err = os.Open(path) // #nosec G304
	if err != nil {
		return nil, nil, err
	}
	accounts, err := parser.ParseAccounts(ctx, f, userID)
	_ = f.Close()
	if err != nil {
		return nil, nil, err
	}

	return transactions, accounts, nil
}
