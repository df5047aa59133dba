package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/batch"
)

var (
	batchOutputDir string
	batchWorkers   int
)

var batchCmd = &cobra.Command{
	Use:   "batch [inputs...]",
	Short: "Convert many table files concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "d", "", "directory for converted files")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "concurrent pipelines")
	batchCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "output format: auto, markdown, html")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	outDir := batchOutputDir
	workers := batchWorkers
	if cfg != nil {
		if outDir == "" {
			outDir = cfg.OutputDir
		}
		if workers == 0 {
			workers = cfg.MaxWorkers
		}
	}
	if outDir == "" {
		outDir = "output"
	}

	runner := &batch.Runner{Parser: newParser(), Workers: workers}
	report, err := runner.Run(cmd.Context(), args, outDir, convertOptions())
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	fmt.Println(string(data))
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", report.Failed, report.Total)
	}
	return nil
}
