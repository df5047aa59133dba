package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji3/tableparse-go/pkg/tableparse"
)

var (
	previewRows int
	previewCols int
)

var previewCmd = &cobra.Command{
	Use:   "preview [input]",
	Short: "Show the top-left corner of each sheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().IntVar(&previewRows, "rows", 10, "rows shown per sheet")
	previewCmd.Flags().IntVar(&previewCols, "cols", 10, "columns shown per sheet")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	if err := tableparse.ValidatePath(args[0]); err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	pv, err := newParser().Preview(data, args[0], previewRows, previewCols)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(pv, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preview: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
