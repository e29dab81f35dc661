package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/powderline/resort-cli/internal/store"
)

var statusFlags struct {
	limit int
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List persisted pipeline runs",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVarP(&statusFlags.limit, "limit", "n", 20, "maximum runs to list")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	runs, err := st.ListRuns(ctx, statusFlags.limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	fmt.Printf("%-36s  %-20s  %8s  %12s\n", "RUN", "CREATED", "RESORTS", "ASSOCIATIONS")
	for _, run := range runs {
		fmt.Printf("%-36s  %-20s  %8d  %12d\n",
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.ResortCount,
			run.AssociationCount,
		)
	}
	return nil
}
