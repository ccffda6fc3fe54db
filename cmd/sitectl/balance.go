package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/repository/postgres"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/service"
)

func newBalanceCmd() *cobra.Command {
	balanceCmd := &cobra.Command{
		Use:   "balance <siteId>",
		Short: "Print the balance summary of a site",
		Example: `  sitectl balance 12 --workspace 1
  sitectl balance 12 --workspace 1 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			siteID, err := parsePositiveID(args[0], "site ID")
			if err != nil {
				return err
			}
			workspaceID, err := workspaceFlag(cmd)
			if err != nil {
				return err
			}
			asJSON, _ := cmd.Flags().GetBool("json")

			pool, err := openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			balances := service.NewBalanceService(
				postgres.NewSiteRepository(pool),
				postgres.NewExpenseRepository(pool),
				postgres.NewAdvanceRepository(pool),
				postgres.NewFundsRepository(pool),
				postgres.NewInvoiceRepository(pool),
			)
			sb, err := balances.GetSiteSummary(cmd.Context(), workspaceID, siteID)
			if err != nil {
				return err
			}

			if asJSON {
				return writeSummaryJSON(cmd.OutOrStdout(), sb)
			}
			return writeSummary(cmd.OutOrStdout(), sb)
		},
	}
	balanceCmd.Flags().Int32("workspace", 0, "Workspace ID (required)")
	balanceCmd.Flags().Bool("json", false, "Print the summary as JSON")
	_ = balanceCmd.MarkFlagRequired("workspace")
	return balanceCmd
}

func writeSummary(w io.Writer, sb *domain.SiteBalance) error {
	fmt.Fprintf(w, "Site %d: %s\n", sb.Site.ID, sb.Site.Name)

	s := sb.Summary
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	rows := []struct {
		label string
		value string
	}{
		{"Funds received", s.FundsReceived.StringFixed(2)},
		{"Total expenditure", s.TotalExpenditure.StringFixed(2)},
		{"Total advances", s.TotalAdvances.StringFixed(2)},
		{"Debits to worker", s.DebitsToWorker.StringFixed(2)},
		{"Invoices paid", s.InvoicesPaid.StringFixed(2)},
		{"Pending invoices", s.PendingInvoices.StringFixed(2)},
		{"Total balance", s.TotalBalance.StringFixed(2)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t\n", r.label, r.value)
	}
	return tw.Flush()
}

func writeSummaryJSON(w io.Writer, sb *domain.SiteBalance) error {
	s := sb.Summary
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"siteId":   sb.Site.ID,
		"siteName": sb.Site.Name,
		"summary": map[string]string{
			"fundsReceived":    s.FundsReceived.StringFixed(2),
			"totalExpenditure": s.TotalExpenditure.StringFixed(2),
			"totalAdvances":    s.TotalAdvances.StringFixed(2),
			"debitsToWorker":   s.DebitsToWorker.StringFixed(2),
			"invoicesPaid":     s.InvoicesPaid.StringFixed(2),
			"pendingInvoices":  s.PendingInvoices.StringFixed(2),
			"totalBalance":     s.TotalBalance.StringFixed(2),
		},
	})
}
