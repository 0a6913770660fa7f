package main

import (
	"fmt"
	"time"

	"github.com/mintwell/mintwell/internal/model"
	"github.com/spf13/cobra"
)

func consentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consent <user-id>",
		Short: "Show or change a user's personalization consent",
		Long: `Show or change a user's data-use consent.

Without consent, every pipeline run still executes but all candidate
recommendations are blocked by the guardrail engine.`,
		Args: cobra.ExactArgs(1),
		RunE: runConsent,
	}

	cmd.Flags().Bool("grant", false, "record consent")
	cmd.Flags().Bool("revoke", false, "withdraw consent")

	return cmd
}

func runConsent(cmd *cobra.Command, args []string) error {
	userID := args[0]
	grant, _ := cmd.Flags().GetBool("grant")
	revoke, _ := cmd.Flags().GetBool("revoke")

	if grant && revoke {
		return fmt.Errorf("--grant and --revoke are mutually exclusive")
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if grant || revoke {
		record := &model.ConsentRecord{
			UserID:    userID,
			Consented: grant,
			UpdatedAt: time.Now().UTC(),
		}
		if err := store.SaveConsent(ctx, record); err != nil {
			return fmt.Errorf("failed to save consent: %w", err)
		}
		fmt.Printf("Consent for %s: %v\n", userID, grant)
		return nil
	}

	record, err := store.GetConsent(ctx, userID)
	if err != nil {
		return err
	}
	if record == nil {
		fmt.Printf("No consent on record for %s (recommendations are blocked)\n", userID)
		return nil
	}
	fmt.Printf("Consent for %s: %v (updated %s)\n", userID, record.Consented, formatTime(record.UpdatedAt))
	return nil
}
