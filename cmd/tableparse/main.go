// Package main provides the tableparse command line tool.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji3/tableparse-go/internal/config"
	"github.com/ukaji3/tableparse-go/pkg/tableparse"
	"github.com/ukaji3/tableparse-go/pkg/tableparse/convert"
	"github.com/ukaji3/tableparse-go/pkg/tableparse/score"
)

var (
	cfgFile  string
	logLevel string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tableparse",
	Short: "Convert Excel and CSV tables to Markdown or HTML",
	Long: `tableparse loads spreadsheet documents through a resilient engine
chain, scores their structural complexity and converts them to the
representation that loses the least: Markdown for simple grids, chunked
HTML for merged, styled or feature-heavy workbooks.`,
}

func main() {
	cobra.OnInitialize(initialize)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.tableparse/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initialize() {
	c, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		c = &config.Config{}
	}
	cfg = c

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	})))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newParser builds a parser from the loaded configuration.
func newParser() *tableparse.Parser {
	p := tableparse.NewParser()
	if cfg == nil {
		return p
	}
	th := score.DefaultThresholds()
	if cfg.HeaderScanRows > 0 {
		th.HeaderScanRows = cfg.HeaderScanRows
	}
	if cfg.HeaderFillRatio > 0 {
		th.HeaderFillRatio = cfg.HeaderFillRatio
	}
	if cfg.SimpleMax > 0 {
		th.SimpleMax = cfg.SimpleMax
	}
	if cfg.MediumMax > 0 {
		th.MediumMax = cfg.MediumMax
	}
	if cfg.RichnessOverride > 0 {
		th.RichnessOverride = cfg.RichnessOverride
	}
	p.Thresholds = th

	if cfg.HighlightMinRed > 0 || cfg.HighlightMinGreen > 0 || cfg.HighlightMaxBlue > 0 {
		p.Highlight = convert.HighlightBounds{
			MinRed:   cfg.HighlightMinRed,
			MinGreen: cfg.HighlightMinGreen,
			MaxBlue:  cfg.HighlightMaxBlue,
		}
	}
	return p
}
