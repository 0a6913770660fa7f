package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mintwell/mintwell/internal/cli"
	"github.com/mintwell/mintwell/internal/model"
	"github.com/spf13/cobra"
)

func traceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <user-id>",
		Short: "Show decision traces for a user",
		Long: `Show the most recent decision trace: the signals, persona evaluations,
composer decisions, and guardrail verdicts behind a pipeline run.

Traces answer "why did this user get this recommendation" without re-running
anything.`,
		Args: cobra.ExactArgs(1),
		RunE: runTrace,
	}

	cmd.Flags().Bool("all", false, "list every stored trace, newest first")
	cmd.Flags().Bool("json", false, "emit JSON instead of a summary")

	return cmd
}

func runTrace(cmd *cobra.Command, args []string) error {
	userID := args[0]
	all, _ := cmd.Flags().GetBool("all")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if all {
		traces, err := store.GetDecisionTraces(ctx, userID)
		if err != nil {
			return err
		}
		if len(traces) == 0 {
			fmt.Println(cli.InfoStyle.Render("No decision traces for " + userID))
			return nil
		}
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(traces)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer func() { _ = w.Flush() }()

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			cli.HeaderStyle.Render("Run"),
			cli.HeaderStyle.Render("At"),
			cli.HeaderStyle.Render("Blocked"),
			cli.HeaderStyle.Render("Risk"))
		for _, tr := range traces {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				tr.RunID, formatTime(tr.RunAt), tr.BlockedCount(), cli.RenderRisk(tr.Personas.Risk))
		}
		return nil
	}

	tr, err := store.GetLatestDecisionTrace(ctx, userID)
	if err != nil {
		return err
	}
	if tr == nil {
		fmt.Println(cli.InfoStyle.Render("No decision traces for " + userID))
		return nil
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tr)
	}

	printTrace(tr)
	return nil
}

func printTrace(tr *model.DecisionTrace) {
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Run %s for %s at %s", tr.RunID, tr.UserID, formatTime(tr.RunAt))))
	fmt.Println()

	fmt.Printf("Signals: %d-day window, computed %s\n",
		tr.Signals.WindowDays, tr.Signals.ComputedAt.Format("2006-01-02"))

	fmt.Println("\n" + cli.HeaderStyle.Render("Personas:"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, m := range tr.Personas.Matches {
		if m.Score == 0 && m.ContributionPct == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s\t%d%%\t(%d pts)\n", m.Persona.DisplayName(), m.ContributionPct, m.Score)
	}
	_ = w.Flush()
	fmt.Printf("  Risk: %s (%d points)\n", cli.RenderRisk(tr.Personas.Risk), tr.Personas.TotalRiskPoints)

	if len(tr.Composer) > 0 {
		fmt.Println("\n" + cli.HeaderStyle.Render("Composer decisions:"))
		for _, ev := range tr.Composer {
			fmt.Printf("  [%s] %s: %s\n", ev.Persona, ev.Event, ev.Detail)
		}
	}

	if len(tr.Verdicts) > 0 {
		fmt.Println("\n" + cli.HeaderStyle.Render("Guardrail verdicts:"))
		vw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, v := range tr.Verdicts {
			reason := ""
			if v.Reason != "" {
				reason = cli.SubtleStyle.Render("(" + v.Reason + ")")
			}
			fmt.Fprintf(vw, "  %s\t%s\t%s\t%s\n", v.Check, cli.RenderVerdict(v.Outcome), v.RecommendationID, reason)
		}
		_ = vw.Flush()
	}
}
