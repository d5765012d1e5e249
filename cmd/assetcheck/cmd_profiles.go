package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/assetcheck/internal/core"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List registered rule profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadProfiles(); err != nil {
				return err
			}

			t := newTable()
			t.AppendHeader(table.Row{"Key", "Label", "Reasons", "Asset Statuses", "Capacity Units", "Description"})
			for _, p := range core.All() {
				v := p.Vocabularies
				t.AppendRow(table.Row{
					p.Key,
					p.Label,
					v.ReasonNotTagged.Len(),
					v.AssetStatus.Len(),
					v.CapacityUnit.Len(),
					p.Description,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}
