package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.OutputFormat != "auto" || c.ChunkRows != 256 {
		t.Errorf("defaults = %+v", c)
	}
	if !c.CleanIllegalChars {
		t.Error("clean_illegal_chars default should be true")
	}
	if c.HeaderFillRatio != 0.6 || c.SimpleMax != 30 || c.MediumMax != 60 {
		t.Errorf("scoring defaults = %+v", c)
	}
	if c.HighlightMinRed != 200 || c.HighlightMaxBlue != 150 {
		t.Errorf("highlight defaults = %+v", c)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "output_format: html\nchunk_rows: 64\nmax_workers: 8\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.OutputFormat != "html" || c.ChunkRows != 64 || c.MaxWorkers != 8 {
		t.Errorf("config = %+v", c)
	}
	// Untouched keys keep defaults.
	if c.ImagesDir != "images" {
		t.Errorf("images_dir = %q, expected default", c.ImagesDir)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := &Config{OutputFormat: "markdown", ChunkRows: 128}
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.OutputFormat != "markdown" || got.ChunkRows != 128 {
		t.Errorf("round trip = %+v", got)
	}
}
