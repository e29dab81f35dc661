package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/powderline/resort-cli/internal/associate"
	"github.com/powderline/resort-cli/internal/attribution"
	"github.com/powderline/resort-cli/internal/boundary"
	"github.com/powderline/resort-cli/internal/export"
	"github.com/powderline/resort-cli/internal/loader"
	"github.com/powderline/resort-cli/internal/pipeline"
	"github.com/powderline/resort-cli/internal/rules"
	"github.com/powderline/resort-cli/internal/store"
)

var analyzeFlags struct {
	boundariesDir string
	radiusM       float64
	linkDistM     float64
	outPath       string
	xlsxPath      string
	rulesPath     string
	save          bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resorts> <features>",
	Short: "Run the full metrics pipeline",
	Long:  "Clusters resorts, associates nearby features, attributes admin boundaries, aggregates per-resort metrics, and writes CSV (and optionally XLSX) output.",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFlags.boundariesDir, "boundaries", "b", "", "Natural Earth boundaries directory (default from config)")
	analyzeCmd.Flags().Float64VarP(&analyzeFlags.radiusM, "radius", "r", 0, "association radius in meters (default from config)")
	analyzeCmd.Flags().Float64Var(&analyzeFlags.linkDistM, "link-distance", 0, "cluster link distance in meters (default from config)")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.outPath, "out", "o", "resorts_analyzed.csv", "output CSV path (\"-\" for stdout)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.xlsxPath, "xlsx", "", "also write an XLSX workbook to this path")
	analyzeCmd.Flags().StringVar(&analyzeFlags.rulesPath, "rules", "", "YAML rules profile overriding lift/difficulty vocabularies")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.save, "save", false, "persist the run to the configured store")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	resorts, err := loader.LoadResorts(args[0])
	if err != nil {
		return err
	}
	features, err := loader.LoadFeatures(args[1])
	if err != nil {
		return err
	}

	profile, err := loadProfile(analyzeFlags.rulesPath)
	if err != nil {
		return err
	}

	params := pipeline.Params{
		AssociationRadiusM: flagOrConfig(analyzeFlags.radiusM, cfg.Pipeline.AssociationRadiusM),
		ClusterLinkDistM:   flagOrConfig(analyzeFlags.linkDistM, cfg.Pipeline.ClusterLinkDistM),
		Profile:            profile,
	}

	boundariesDir := analyzeFlags.boundariesDir
	if boundariesDir == "" {
		boundariesDir = cfg.Attribution.BoundariesDir
	}
	if boundariesDir != "" {
		countries, states, err := boundary.LoadAdmin(boundariesDir)
		if err != nil {
			return err
		}
		level := attribution.WithCellLevel(cfg.Attribution.CellLevel)
		params.CountryIndex = attribution.NewIndex(countries, level)
		params.StateIndex = attribution.NewIndex(states, level)
	}

	result, err := pipeline.Run(ctx, resorts, associate.SliceSource(features), params)
	if err != nil {
		return err
	}

	if err := writeCSV(analyzeFlags.outPath, result, profile); err != nil {
		return err
	}
	if analyzeFlags.xlsxPath != "" {
		if err := export.WriteXLSX(analyzeFlags.xlsxPath, result.Metrics, profile); err != nil {
			return err
		}
	}

	if analyzeFlags.save {
		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		run, err := st.SaveRun(ctx, result.Metrics, result.Associations)
		if err != nil {
			return err
		}
		zap.L().Info("saved run", zap.String("run_id", run.ID))
	}

	zap.L().Info("analyze complete",
		zap.Int("resorts", len(result.Metrics)),
		zap.String("out", analyzeFlags.outPath),
	)
	return nil
}

func loadProfile(path string) (*rules.Profile, error) {
	if path == "" {
		path = cfg.Pipeline.RulesPath
	}
	if path == "" {
		return rules.Default(), nil
	}
	return rules.Load(path)
}

func flagOrConfig(flag, fallback float64) float64 {
	if flag > 0 {
		return flag
	}
	return fallback
}

func writeCSV(path string, result *pipeline.Result, profile *rules.Profile) error {
	if path == "-" {
		return export.WriteCSV(os.Stdout, result.Metrics, profile)
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "analyze: create output %s", path)
	}
	defer func() { _ = f.Close() }()
	return export.WriteCSV(f, result.Metrics, profile)
}
