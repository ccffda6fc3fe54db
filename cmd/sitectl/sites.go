package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/repository/postgres"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/service"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/util"
)

func newSitesCmd() *cobra.Command {
	sitesCmd := &cobra.Command{
		Use:   "sites",
		Short: "Inspect construction sites",
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List the sites of a workspace",
		Example: `  sitectl sites list --workspace 1`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workspaceID, err := workspaceFlag(cmd)
			if err != nil {
				return err
			}

			pool, err := openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			sites, err := service.NewSiteService(postgres.NewSiteRepository(pool)).GetSites(cmd.Context(), workspaceID)
			if err != nil {
				return err
			}
			return writeSites(cmd.OutOrStdout(), sites)
		},
	}
	listCmd.Flags().Int32("workspace", 0, "Workspace ID (required)")
	_ = listCmd.MarkFlagRequired("workspace")

	sitesCmd.AddCommand(listCmd)
	return sitesCmd
}

func writeSites(w io.Writer, sites []*domain.Site) error {
	if len(sites) == 0 {
		_, err := fmt.Fprintln(w, "no sites")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tCREATED")
	for _, s := range sites {
		location := "-"
		if s.Location != nil && *s.Location != "" {
			location = *s.Location
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Name, location, util.FormatDate(s.CreatedAt))
	}
	return tw.Flush()
}
