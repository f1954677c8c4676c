package app

import (
	"context"
	"errors"
	"flag"
	"path/filepath"
	"testing"

	"github.com/louisbranch/tenfacts/internal/platform/config"
	apperrors "github.com/louisbranch/tenfacts/internal/platform/errors"
	"github.com/louisbranch/tenfacts/internal/typeset"
	"github.com/louisbranch/tenfacts/internal/worksheet"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	if err := config.ParseEnvFrom(&cfg, map[string]string{}); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.OutDir != "." || cfg.Engine != "xelatex" || cfg.EnginePasses != 1 || cfg.Locale != "zh-CN" || cfg.Format != "tex" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ArchivePath != "" {
		t.Fatalf("archive must be disabled by default, got %q", cfg.ArchivePath)
	}
}

func TestBindFlagsOverridesEnv(t *testing.T) {
	cfg := Config{OutDir: "env-out", Engine: "xelatex"}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	BindFlags(fs, &cfg)
	if err := fs.Parse([]string{"-out", "flag-out", "-engine", "none", "-format", "pdf"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.OutDir != "flag-out" || cfg.Engine != "none" || cfg.Format != "pdf" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestBuildWiresService(t *testing.T) {
	dir := t.TempDir()
	rt, err := Build(Config{
		OutDir:       dir,
		Engine:       typeset.EngineNone,
		EnginePasses: 2,
		Locale:       "en-US",
		Format:       "tex",
		ArchivePath:  filepath.Join(dir, "archive.sqlite"),
		LogMode:      "prod",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	if rt.Archive == nil {
		t.Fatal("expected archive to be enabled")
	}
	if rt.Service.Format != worksheet.FormatTeX || rt.Service.Locale != "en-US" {
		t.Fatalf("unexpected service: %+v", rt.Service)
	}

	result, err := rt.Service.Multi(context.Background(), worksheet.MultiRequest{Start: 1, Pages: 1, Count: 5})
	if err != nil {
		t.Fatalf("multi: %v", err)
	}
	run, err := rt.Archive.GetRun(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if len(run.PageRecords) != 1 || len(run.PageRecords[0].Keys) != 5 {
		t.Fatalf("unexpected archived run: %+v", run)
	}
}

func TestBuildWithoutArchive(t *testing.T) {
	rt, err := Build(Config{OutDir: t.TempDir(), Engine: typeset.EngineNone, Format: "pdf"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer rt.Close()
	if rt.Archive != nil {
		t.Fatal("expected archive to be disabled")
	}
	if rt.Service.Archive != nil {
		t.Fatal("service must not see a typed nil archive")
	}
}

func TestBuildRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "format", cfg: Config{Format: "docx"}},
		{name: "passes", cfg: Config{Format: "tex", EnginePasses: -1}},
		{name: "concurrency", cfg: Config{Format: "tex", Concurrency: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.cfg)
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestBuildReportsArchiveFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "archive.sqlite")
	_, err := Build(Config{Format: "tex", Engine: typeset.EngineNone, ArchivePath: path})
	if apperrors.CodeOf(err) != apperrors.CodeStorageFailed {
		t.Fatalf("expected storage failure, got %v", err)
	}
}

func TestCloseNilRuntime(t *testing.T) {
	var rt *Runtime
	if err := rt.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
