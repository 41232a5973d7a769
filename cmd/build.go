package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-research/adtree/internal/eventstore"
	"github.com/agentic-research/adtree/internal/record"
	"github.com/agentic-research/adtree/internal/sidecar"
)

var fromEventstore string

var buildCmd = &cobra.Command{
	Use:   "build <csv> <out.db>",
	Short: "Ingest a CSV (or --from-eventstore a SQLite event log) into an AD-tree sidecar",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		output := args[1]

		var table *record.Table
		var mapping *record.ColumnMapping

		if fromEventstore != "" {
			src, err := eventstore.Load(fromEventstore)
			if err != nil {
				return fmt.Errorf("load event store %s: %w", fromEventstore, err)
			}
			t, err := record.New(aritiesOf(src), rowsOf(src))
			if err != nil {
				return err
			}
			table, mapping = t, src.Mapping()
		} else {
			t, m, err := record.LoadCSV(input)
			if err != nil {
				return fmt.Errorf("load csv %s: %w", input, err)
			}
			table, mapping = t, m
		}

		_ = os.Remove(output)
		start := time.Now()
		if err := sidecar.Save(output, table, mapping); err != nil {
			return err
		}
		fmt.Printf("Built %s (%d records, %d attributes) in %v.\n", output, table.N(), table.D(), time.Since(start))
		return nil
	},
}

func aritiesOf(src *eventstore.Source) []int {
	out := make([]int, src.D())
	for j := 1; j <= src.D(); j++ {
		out[j-1] = src.Arity(j)
	}
	return out
}

func rowsOf(src *eventstore.Source) [][]int {
	out := make([][]int, src.N())
	for i := 0; i < src.N(); i++ {
		row := make([]int, src.D())
		for j := 1; j <= src.D(); j++ {
			row[j-1] = src.Value(i, j)
		}
		out[i] = row
	}
	return out
}

func init() {
	buildCmd.Flags().StringVar(&fromEventstore, "from-eventstore", "", "Load from a SQLite Windows-event-log database instead of the CSV argument")
	rootCmd.AddCommand(buildCmd)
}
