// Package batch runs the parse pipeline over many files concurrently.
// Each document's pipeline is independent, so the runner is a plain
// worker pool with no shared state beyond the result slots.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ukaji3/tableparse-go/pkg/tableparse"
)

// DefaultWorkers is the worker count when none is configured.
const DefaultWorkers = 4

// Status values of one file's run.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// FileResult is the outcome for a single input file.
type FileResult struct {
	File       string                  `json:"file"`
	Status     string                  `json:"status"`
	Error      string                  `json:"error,omitempty"`
	Format     tableparse.OutputFormat `json:"format,omitempty"`
	OutputPath string                  `json:"output_path,omitempty"`
	Fragments  int                     `json:"fragments,omitempty"`
}

// Report summarizes one batch run.
type Report struct {
	ID        string        `json:"id"`
	Started   time.Time     `json:"started"`
	Duration  time.Duration `json:"duration"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Results   []FileResult  `json:"results"`
}

// Runner distributes files over a pool of parse workers.
type Runner struct {
	// Parser runs each file's pipeline. Nil means a default parser.
	Parser *tableparse.Parser
	// Workers caps concurrent pipelines. < 1 means DefaultWorkers.
	Workers int
	// Logger receives per-file progress. Nil means slog.Default.
	Logger *slog.Logger
}

func (r *Runner) parser() *tableparse.Parser {
	if r.Parser != nil {
		return r.Parser
	}
	return tableparse.NewParser()
}

func (r *Runner) workers() int {
	if r.Workers < 1 {
		return DefaultWorkers
	}
	return r.Workers
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Run parses every path and writes each converted document under
// outputDir. One failing file never stops the rest; cancellation via ctx
// stops picking up new files.
func (r *Runner) Run(ctx context.Context, paths []string, outputDir string, opts tableparse.Options) (*Report, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	report := &Report{
		ID:      uuid.NewString(),
		Started: time.Now(),
		Total:   len(paths),
		Results: make([]FileResult, len(paths)),
	}
	log := r.logger().With("batch_id", report.ID)
	log.Info("batch started", "files", len(paths), "workers", r.workers())

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				report.Results[i] = r.runOne(paths[i], outputDir, opts, log)
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	cause := context.Cause(ctx)
	if cause == nil {
		cause = context.Canceled
	}
	for i := range report.Results {
		switch report.Results[i].Status {
		case StatusOK:
			report.Succeeded++
		case StatusFailed:
			report.Failed++
		default:
			// Cancelled before a worker picked it up.
			report.Results[i] = FileResult{
				File:   paths[i],
				Status: StatusFailed,
				Error:  cause.Error(),
			}
			report.Failed++
		}
	}
	report.Duration = time.Since(report.Started)
	log.Info("batch finished",
		"succeeded", report.Succeeded, "failed", report.Failed, "duration", report.Duration)
	return report, nil
}

func (r *Runner) runOne(path, outputDir string, opts tableparse.Options, log *slog.Logger) FileResult {
	res, err := r.parser().ParseFile(path, opts)
	if err != nil {
		log.Warn("file failed", "file", path, "error", err)
		return FileResult{File: path, Status: StatusFailed, Error: err.Error()}
	}

	outPath := filepath.Join(outputDir, outputName(path, res.Format))
	content := res.Content
	if res.Format == tableparse.FormatHTML {
		content = strings.Join(res.Fragments, "\n")
	}
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		log.Warn("writing output failed", "file", path, "error", err)
		return FileResult{File: path, Status: StatusFailed, Error: err.Error()}
	}

	log.Debug("file converted", "file", path, "format", res.Format, "output", outPath)
	return FileResult{
		File:       path,
		Status:     StatusOK,
		Format:     res.Format,
		OutputPath: outPath,
		Fragments:  len(res.Fragments),
	}
}

func outputName(path string, format tableparse.OutputFormat) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if format == tableparse.FormatHTML {
		return base + ".html"
	}
	return base + ".md"
}
