package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/tableparse-go/pkg/tableparse"
)

var (
	convertOutput      string
	convertFormat      string
	convertChunkRows   int
	convertStyles      bool
	convertImages      bool
	convertImagesDir   string
	convertEmptyRows   bool
	convertKeepIllegal bool
	convertEncoding    string
	convertJSON        bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [input]",
	Short: "Convert a table file to Markdown or HTML",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (default: stdout)")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "output format: auto, markdown, html")
	convertCmd.Flags().IntVar(&convertChunkRows, "chunk-rows", 0, "data rows per HTML table fragment")
	convertCmd.Flags().BoolVar(&convertStyles, "preserve-styles", false, "serialize cell styling as inline HTML attributes")
	convertCmd.Flags().BoolVar(&convertImages, "extract-images", false, "write embedded pictures to the images dir")
	convertCmd.Flags().StringVar(&convertImagesDir, "images-dir", "", "directory for extracted images")
	convertCmd.Flags().BoolVar(&convertEmptyRows, "include-empty-rows", false, "keep rows whose cells are all empty")
	convertCmd.Flags().BoolVar(&convertKeepIllegal, "keep-illegal-chars", false, "keep control characters in cell text")
	convertCmd.Flags().StringVar(&convertEncoding, "encoding", "", "force a CSV text encoding instead of detection")
	convertCmd.Flags().BoolVar(&convertJSON, "json", false, "emit the full result as JSON, metadata included")

	rootCmd.AddCommand(convertCmd)
}

func convertOptions() tableparse.Options {
	opts := tableparse.DefaultOptions()
	if cfg != nil {
		opts.Format = tableparse.OutputFormat(cfg.OutputFormat)
		opts.ChunkRows = cfg.ChunkRows
		opts.PreserveStyles = cfg.PreserveStyles
		opts.ImagesDir = cfg.ImagesDir
		clean := cfg.CleanIllegalChars
		opts.CleanIllegalChars = &clean
	}
	if convertFormat != "" {
		opts.Format = tableparse.OutputFormat(convertFormat)
	}
	if convertChunkRows > 0 {
		opts.ChunkRows = convertChunkRows
	}
	if convertStyles {
		opts.PreserveStyles = true
	}
	if convertImages {
		opts.ExtractImages = true
	}
	if convertImagesDir != "" {
		opts.ImagesDir = convertImagesDir
	}
	if convertEmptyRows {
		opts.IncludeEmptyRows = true
	}
	if convertKeepIllegal {
		keep := false
		opts.CleanIllegalChars = &keep
	}
	opts.Encoding = convertEncoding
	return opts
}

func runConvert(cmd *cobra.Command, args []string) error {
	res, err := newParser().ParseFile(args[0], convertOptions())
	if err != nil {
		return err
	}

	var out string
	if convertJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		out = string(data)
	} else if res.Format == tableparse.FormatHTML {
		out = strings.Join(res.Fragments, "\n")
	} else {
		out = res.Content
	}

	if convertOutput != "" {
		return os.WriteFile(convertOutput, []byte(out), 0o644)
	}
	fmt.Println(out)
	return nil
}
