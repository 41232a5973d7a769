package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentic-research/adtree/internal/config"
	"github.com/agentic-research/adtree/internal/facade"
	"github.com/agentic-research/adtree/internal/record"
	"github.com/agentic-research/adtree/internal/sidecar"
)

var querySubset string

var queryCmd = &cobra.Command{
	Use:   "query <dataset.db> <report.json>",
	Short: "Print the contingency table for an arbitrary attribute subset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if querySubset == "" {
			return fmt.Errorf("--subset is required")
		}
		table, mapping, err := sidecar.Load(args[0])
		if err != nil {
			return err
		}
		report, err := facade.LoadReport(args[1])
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

		subset, err := parseSubset(querySubset, mapping)
		if err != nil {
			return err
		}

		ct, err := f.Contingency(subset)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ct.Entries())
	},
}

// parseSubset accepts a comma-separated list of either 1-indexed attribute
// numbers or attribute names resolved through mapping.
func parseSubset(raw string, mapping *record.ColumnMapping) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if v, err := strconv.Atoi(p); err == nil {
			out = append(out, v)
			continue
		}
		if mapping == nil {
			return nil, fmt.Errorf("query: %q is not numeric and no column mapping is available", p)
		}
		found := -1
		for i, name := range mapping.Names {
			if name == p {
				found = i + 1
				break
			}
		}
		if found == -1 {
			return nil, fmt.Errorf("query: unknown attribute %q", p)
		}
		out = append(out, found)
	}
	return out, nil
}

func init() {
	queryCmd.Flags().StringVar(&querySubset, "subset", "", "Comma-separated attribute indices or names")
	rootCmd.AddCommand(queryCmd)
}
