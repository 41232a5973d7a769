package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/adtree/internal/config"
	"github.com/agentic-research/adtree/internal/facade"
	"github.com/agentic-research/adtree/internal/mcpserver"
	"github.com/agentic-research/adtree/internal/sidecar"
)

var serveDataset string

var serveCmd = &cobra.Command{
	Use:   "serve <report.json>",
	Short: "Start an MCP stdio server exposing list_pairings, contingency_table, and rows_for_pairing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveDataset == "" {
			return fmt.Errorf("--dataset is required (the sidecar the report was mined from)")
		}
		table, mapping, err := sidecar.Load(serveDataset)
		if err != nil {
			return err
		}
		report, err := facade.LoadReport(args[0])
		if err != nil {
			return err
		}

		cfg := config.Default()
		cfg.TAlpha = report.TAlpha
		cfg.LMax = report.LMax
		cfg.FirstsN = report.FirstsN

		f, err := facade.Run(table, mapping, cfg)
		if err != nil {
			return err
		}

		s := mcpserver.New(f)
		return mcpserver.Serve(context.Background(), s)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveDataset, "dataset", "", "Path to the sidecar dataset the report was mined from")
	rootCmd.AddCommand(serveCmd)
}
