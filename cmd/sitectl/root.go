package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/config"
)

var version = "1.0.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sitectl",
		Short: "Sitebooks operator tool",
		Long: `sitectl manages the Sitebooks database and inspects site ledgers.

Required environment variables (a .env file is read when present):
  DATABASE_URL - PostgreSQL connection string`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	root.AddCommand(newMigrateCmd(), newSitesCmd(), newBalanceCmd())
	return root
}

// openPool connects to DATABASE_URL and verifies the connection
func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	url, err := config.LoadDatabaseURL()
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// workspaceFlag reads the required --workspace flag
func workspaceFlag(cmd *cobra.Command) (int32, error) {
	id, _ := cmd.Flags().GetInt32("workspace")
	if id <= 0 {
		return 0, fmt.Errorf("--workspace must be a positive workspace ID")
	}
	return id, nil
}

func parsePositiveID(s, what string) (int32, error) {
	id, err := strconv.ParseInt(s, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return int32(id), nil
}
