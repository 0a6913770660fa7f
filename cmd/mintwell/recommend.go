package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mintwell/mintwell/internal/guardrail"
	"github.com/mintwell/mintwell/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend [user-id]",
		Short: "Run the recommendation pipeline",
		Long: `Run the full pipeline for one user, or for many with --batch:
signals, personas, composition, guardrails, and trace persistence.

Allowed recommendations are saved in pending state for review. Blocked
candidates appear only in the decision trace.

Examples:
  # Single user
  mintwell recommend user-123

  # Every user listed in a file, one ID per line
  mintwell recommend --batch users.txt --concurrency 8`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRecommend,
	}

	cmd.Flags().IntP("window", "w", 0, "signal window in days (default from config)")
	cmd.Flags().String("batch", "", "file of user IDs, one per line")
	cmd.Flags().Int("concurrency", 4, "parallel runs in batch mode")

	return cmd
}

func runRecommend(cmd *cobra.Command, args []string) error {
	window, _ := cmd.Flags().GetInt("window")
	batchFile, _ := cmd.Flags().GetString("batch")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	if batchFile == "" && len(args) == 0 {
		return fmt.Errorf("either a user ID or --batch is required")
	}

	ctx := cmd.Context()
	eng, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if batchFile != "" {
		userIDs, err := readUserIDs(batchFile)
		if err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return fmt.Errorf("no user IDs found in %s", batchFile)
		}

		bar := progressbar.NewOptions(len(userIDs),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Running pipeline..."),
		)

		stats := eng.RunBatch(ctx, userIDs, window, concurrency, func(_ string, _ error) {
			_ = bar.Add(1)
		})
		fmt.Fprintln(os.Stderr)

		fmt.Printf("Processed %d users (%d failed) in %s\n",
			stats.UsersProcessed, stats.UsersFailed, stats.Duration.Round(10*time.Millisecond))
		fmt.Printf("Recommendations saved: %d   candidates blocked: %d\n",
			stats.Recommendations, stats.Blocked)
		return nil
	}

	result, err := eng.Run(ctx, args[0], window)
	if err != nil {
		return err
	}

	printRunResult(result.Results)
	slog.Info("decision trace saved", "run_id", result.Trace.RunID)
	return nil
}

func printRunResult(results []guardrail.Result) {
	allowed := 0
	for _, r := range results {
		if r.Allowed {
			allowed++
		}
	}
	fmt.Printf("%d of %d recommendations passed guardrails\n\n", allowed, len(results))

	for _, r := range results {
		rec := r.Recommendation
		if !r.Allowed {
			fmt.Printf("BLOCKED  %s (%s)\n", rec.Title, rec.Kind)
			for _, v := range r.Verdicts {
				if v.Outcome == model.VerdictBlocked {
					fmt.Printf("         %s: %s\n", v.Check, v.Reason)
				}
			}
			continue
		}
		fmt.Printf("[%s] %s (%s, persona %s)\n", rec.Status, rec.Title, rec.Kind, rec.SourcePersona)
		fmt.Printf("  %s\n", firstLine(rec.Rationale))
		for _, item := range rec.ActionItems {
			fmt.Printf("  - %s\n", item)
		}
		fmt.Println()
	}
}

func firstLine(s string) string {
	if idx := strings.Index(s, "\n"); idx >= 0 {
		return s[:idx]
	}
	return s
}

func readUserIDs(path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from operator flag
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ids, nil
}
