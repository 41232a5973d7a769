package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/adtree/api"
	"github.com/agentic-research/adtree/internal/config"
	"github.com/agentic-research/adtree/internal/facade"
	"github.com/agentic-research/adtree/internal/sidecar"
)

var (
	mineLMax       int
	mineTAlpha     int64
	mineFirstsN    int
	mineProminence float64
	mineMinDist    int
	mineOut        string
)

var mineCmd = &cobra.Command{
	Use:   "mine <dataset.db>",
	Short: "Build the AD-tree, score co-occurring pairs, and emit a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, mapping, err := sidecar.Load(args[0])
		if err != nil {
			return err
		}

		cfg := config.Default()
		if cmd.Flags().Changed("l-max") {
			cfg.LMax = mineLMax
		}
		if cmd.Flags().Changed("t-alpha") {
			cfg.TAlpha = mineTAlpha
		}
		if cmd.Flags().Changed("firsts-n") {
			cfg.FirstsN = mineFirstsN
		}
		if cmd.Flags().Changed("elbow-prominence") {
			cfg.Prominence = mineProminence
		}
		if cmd.Flags().Changed("elbow-min-distance") {
			cfg.MinDist = mineMinDist
		}

		f, err := facade.Run(table, mapping, cfg)
		if err != nil {
			return fmt.Errorf("mine: %w", err)
		}

		fields := []string{}
		if mapping != nil {
			fields = mapping.Names
		}
		report := f.Report("", args[0], api.Query{Fields: fields}, fields)

		if mineOut != "" {
			if err := facade.SaveReport(mineOut, report); err != nil {
				return err
			}
			fmt.Printf("Wrote report %s (run %s).\n", mineOut, report.RunID)
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	mineCmd.Flags().IntVar(&mineLMax, "l-max", 3, "Maximum attribute-subset arity to cache")
	mineCmd.Flags().Int64Var(&mineTAlpha, "t-alpha", 1, "Minimum marginal support for a pairing score")
	mineCmd.Flags().IntVar(&mineFirstsN, "firsts-n", 25, "Top pairings kept per level")
	mineCmd.Flags().Float64Var(&mineProminence, "elbow-prominence", config.Default().Prominence, "Minimum prominence for the mutual-information elbow")
	mineCmd.Flags().IntVar(&mineMinDist, "elbow-min-distance", config.Default().MinDist, "Minimum distance from the mutual-information curve's endpoints")
	mineCmd.Flags().StringVar(&mineOut, "out", "", "Write the report to a file instead of stdout")
	rootCmd.AddCommand(mineCmd)
}
