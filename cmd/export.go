package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/powderline/resort-cli/internal/export"
	"github.com/powderline/resort-cli/internal/store"
)

var exportFlags struct {
	runID    string
	outPath  string
	xlsxPath string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Re-export a stored run",
	Long:  "Reads a persisted run's metrics from the store and writes CSV (and optionally XLSX). Without --run, the latest run is exported.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.runID, "run", "", "run ID (default: latest run)")
	exportCmd.Flags().StringVarP(&exportFlags.outPath, "out", "o", "-", "output CSV path (\"-\" for stdout)")
	exportCmd.Flags().StringVar(&exportFlags.xlsxPath, "xlsx", "", "also write an XLSX workbook to this path")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	runID := exportFlags.runID
	if runID == "" {
		run, err := st.LatestRun(ctx)
		if err != nil {
			return eris.Wrap(err, "export: resolve latest run")
		}
		runID = run.ID
	}

	metrics, err := st.ListMetrics(ctx, runID)
	if err != nil {
		return err
	}

	profile, err := loadProfile("")
	if err != nil {
		return err
	}

	out := os.Stdout
	if exportFlags.outPath != "-" {
		f, err := os.Create(exportFlags.outPath)
		if err != nil {
			return eris.Wrapf(err, "export: create output %s", exportFlags.outPath)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	if err := export.WriteCSV(out, metrics, profile); err != nil {
		return err
	}

	if exportFlags.xlsxPath != "" {
		return export.WriteXLSX(exportFlags.xlsxPath, metrics, profile)
	}
	return nil
}
