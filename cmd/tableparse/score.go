package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [input]",
	Short: "Analyze a table's complexity without converting",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	analysis, err := newParser().ScoreFile(args[0])
	if err != nil {
		return err
	}

	view := map[string]any{
		"total":       analysis.Total,
		"level":       analysis.Level(),
		"profile":     analysis.Profile,
		"recommended": analysis.Recommended,
		"breakdown":   analysis.Breakdown,
	}
	if analysis.OverrideReason != "" {
		view["override_reason"] = analysis.OverrideReason
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal score: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
