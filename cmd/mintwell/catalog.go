package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mintwell/mintwell/internal/catalog"
	"github.com/mintwell/mintwell/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the recommendation catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		RunE: func(_ *cobra.Command, _ []string) error {
			cat, err := catalog.Load(expandPath(viper.GetString("catalog.path")))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Kind"),
				cli.HeaderStyle.Render("Personas"),
				cli.HeaderStyle.Render("Triggers"),
				cli.HeaderStyle.Render("Templates"))
			for _, entry := range cat.Entries() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
					entry.ID, entry.Kind, len(entry.Personas), len(entry.Trigger), len(entry.RationaleTemplates))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a catalog file",
		Long: `Validate a catalog YAML file against the catalog rules: known trigger
signals, 3-5 action items, at least one rationale template, unique IDs.
With no argument, validates the configured catalog.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := expandPath(viper.GetString("catalog.path"))
			if len(args) == 1 {
				path = args[0]
			}
			cat, err := catalog.Load(path)
			if err != nil {
				return err
			}
			fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("Catalog valid: %d entries", cat.Len())))
			return nil
		},
	})

	return cmd
}
