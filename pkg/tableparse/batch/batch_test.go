package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ukaji3/tableparse-go/pkg/tableparse"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunConvertsAllFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeCSV(t, dir, "a.csv", "x,y\n1,2\n"),
		writeCSV(t, dir, "b.csv", "name\nvalue\n"),
	}
	outDir := filepath.Join(dir, "out")

	report, err := (&Runner{Workers: 2}).Run(context.Background(), paths, outDir, tableparse.DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.ID == "" {
		t.Error("report has no id")
	}
	if report.Total != 2 || report.Succeeded != 2 || report.Failed != 0 {
		t.Fatalf("report = %+v, expected 2 succeeded", report)
	}
	for _, r := range report.Results {
		if r.Status != StatusOK {
			t.Errorf("result %+v, expected ok", r)
			continue
		}
		data, err := os.ReadFile(r.OutputPath)
		if err != nil {
			t.Errorf("output missing: %v", err)
			continue
		}
		if !strings.Contains(string(data), "|") {
			t.Errorf("output %q is not a markdown table", r.OutputPath)
		}
	}
}

func TestRunToleratesFailures(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeCSV(t, dir, "good.csv", "a,b\n1,2\n"),
		filepath.Join(dir, "missing.xlsx"),
		filepath.Join(dir, "wrong.docx"),
	}

	report, err := (&Runner{}).Run(context.Background(), paths, filepath.Join(dir, "out"), tableparse.DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Succeeded != 1 || report.Failed != 2 {
		t.Fatalf("report = %+v, expected 1 ok / 2 failed", report)
	}
	for _, r := range report.Results[1:] {
		if r.Status != StatusFailed || r.Error == "" {
			t.Errorf("result %+v, expected failure with message", r)
		}
	}
}

func TestRunCancelledContext(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 8; i++ {
		paths = append(paths, writeCSV(t, dir, filepath.Base(dir)+string(rune('a'+i))+".csv", "a\n1\n"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := (&Runner{Workers: 1}).Run(ctx, paths, filepath.Join(dir, "out"), tableparse.DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Succeeded+report.Failed != report.Total {
		t.Errorf("report = %+v, every file needs a terminal status", report)
	}
	if report.Failed == 0 {
		t.Error("expected cancelled files to be reported as failed")
	}
}
