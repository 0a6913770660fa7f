package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mintwell/mintwell/internal/model"
	"github.com/spf13/cobra"
)

func personasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "personas <user-id>",
		Short: "Assign financial personas to a user",
		Long: `Evaluate the persona rule-sets against a user's behavioral signals.

Prints the persona distribution (percentages sum to exactly 100), the
primary and secondary personas, and the risk level. Pass --explain to see
every criterion evaluation behind the scores.`,
		Args: cobra.ExactArgs(1),
		RunE: runPersonas,
	}

	cmd.Flags().IntP("window", "w", model.WindowShort, "signal window in days (30 or 180)")
	cmd.Flags().Bool("explain", false, "show per-criterion evaluations")
	cmd.Flags().Bool("json", false, "emit JSON instead of a summary")

	return cmd
}

func runPersonas(cmd *cobra.Command, args []string) error {
	userID := args[0]
	window, _ := cmd.Flags().GetInt("window")
	explain, _ := cmd.Flags().GetBool("explain")
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
	dist := eng.AssignPersonas(&sig)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dist)
	}

	fmt.Printf("Persona distribution for %s (%d-day window)\n\n", userID, window)
	for _, match := range dist.Matches {
		marker := " "
		if match.Persona == dist.Primary {
			marker = "*"
		}
		fmt.Printf("%s %-26s %3d%%  (%d pts, %d/%d criteria)\n",
			marker, match.Persona.DisplayName(), match.ContributionPct, match.Score, match.MatchedCount, match.TotalCount)
	}
	fmt.Printf("\nPrimary: %s", dist.Primary.DisplayName())
	if dist.Secondary != "" {
		fmt.Printf("   Secondary: %s", dist.Secondary.DisplayName())
	}
	fmt.Printf("\nRisk: %s (%d points)\n", dist.Risk, dist.TotalRiskPoints)

	if explain {
		fmt.Println("\nCriterion evaluations:")
		for _, match := range dist.Matches {
			fmt.Printf("  %s:\n", match.Persona)
			for _, c := range match.Criteria {
				status := "miss"
				if c.Satisfied {
					status = "hit "
				}
				fmt.Printf("    [%s] %-28s %s\n", status, c.Name, c.Reason)
			}
		}
	}

	return nil
}
