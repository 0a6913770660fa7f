package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mintwell/mintwell/internal/cli"
	"github.com/mintwell/mintwell/internal/model"
	"github.com/spf13/cobra"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review <user-id>",
		Short: "List or resolve pending recommendations",
		Long: `List a user's recommendations, or resolve one with --approve, --reject,
or --flag. Approved, rejected, and flagged are terminal states.`,
		Args: cobra.ExactArgs(1),
		RunE: runReview,
	}

	cmd.Flags().String("approve", "", "recommendation ID to approve")
	cmd.Flags().String("reject", "", "recommendation ID to reject")
	cmd.Flags().String("flag", "", "recommendation ID to flag for follow-up")

	return cmd
}

func runReview(cmd *cobra.Command, args []string) error {
	userID := args[0]
	approve, _ := cmd.Flags().GetString("approve")
	reject, _ := cmd.Flags().GetString("reject")
	flag, _ := cmd.Flags().GetString("flag")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var recID string
	var target model.ApprovalStatus
	switch {
	case approve != "":
		recID, target = approve, model.StatusApproved
	case reject != "":
		recID, target = reject, model.StatusRejected
	case flag != "":
		recID, target = flag, model.StatusFlagged
	}

	if recID != "" {
		if err := store.UpdateRecommendationStatus(ctx, recID, target); err != nil {
			return err
		}
		fmt.Printf("Recommendation %s: %s\n", recID, cli.RenderStatus(target))
		return nil
	}

	recs, err := store.GetRecommendationsByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println(cli.InfoStyle.Render("No recommendations for " + userID))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("ID"),
		cli.HeaderStyle.Render("Status"),
		cli.HeaderStyle.Render("Kind"),
		cli.HeaderStyle.Render("Title"))
	for _, rec := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.ID, cli.RenderStatus(rec.Status), rec.Kind, rec.Title)
	}
	return nil
}
