package mcp

import (
	"flag"
	"io"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Engine != "xelatex" || cfg.Format != "tex" || cfg.LogMode != "dev" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("WORKSHEET_ARCHIVE_PATH", "/tmp/env.sqlite")
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg, err := ParseConfig(fs, []string{"-out", "/tmp/out", "-format", "pdf"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.ArchivePath != "/tmp/env.sqlite" || cfg.OutDir != "/tmp/out" || cfg.Format != "pdf" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
