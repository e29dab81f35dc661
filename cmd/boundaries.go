package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/powderline/resort-cli/internal/attribution"
	"github.com/powderline/resort-cli/internal/boundary"
	"github.com/powderline/resort-cli/internal/model"
)

var boundariesFlags struct {
	probeLat float64
	probeLon float64
}

var boundariesCmd = &cobra.Command{
	Use:   "boundaries <dir>",
	Short: "Inspect a Natural Earth boundaries directory",
	Long:  "Loads admin-0/admin-1 shapefiles, builds the attribution index, and reports polygon counts. With --probe, resolves a single point.",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoundaries,
}

func init() {
	boundariesCmd.Flags().Float64Var(&boundariesFlags.probeLat, "lat", 0, "probe latitude")
	boundariesCmd.Flags().Float64Var(&boundariesFlags.probeLon, "lon", 0, "probe longitude")
	rootCmd.AddCommand(boundariesCmd)
}

func runBoundaries(cmd *cobra.Command, args []string) error {
	countries, states, err := boundary.LoadAdmin(args[0])
	if err != nil {
		return err
	}

	level := attribution.WithCellLevel(cfg.Attribution.CellLevel)
	countryIdx := attribution.NewIndex(countries, level)
	stateIdx := attribution.NewIndex(states, level)

	fmt.Printf("countries: %d polygons indexed\n", countryIdx.Len())
	fmt.Printf("states:    %d polygons indexed\n", stateIdx.Len())

	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
		p := model.LatLng{Lat: boundariesFlags.probeLat, Lon: boundariesFlags.probeLon}
		country, state := "-", "-"
		if meta := countryIdx.Query(p); meta != nil {
			country = meta.Name
		}
		if meta := stateIdx.Query(p); meta != nil {
			state = meta.Name
		}
		fmt.Printf("probe (%.6f, %.6f): country=%s state=%s\n", p.Lat, p.Lon, country, state)
	}
	return nil
}
