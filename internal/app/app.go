// Package app assembles the worksheet runtime shared by every command:
// logger, typesetter, optional run archive and the worksheet service.
package app

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/tenfacts/internal/platform/errors"
	"github.com/louisbranch/tenfacts/internal/platform/i18n/catalog"
	"github.com/louisbranch/tenfacts/internal/platform/logging"
	"github.com/louisbranch/tenfacts/internal/storage"
	"github.com/louisbranch/tenfacts/internal/storage/sqlite"
	"github.com/louisbranch/tenfacts/internal/typeset"
	"github.com/louisbranch/tenfacts/internal/worksheet"
)

// Config holds the settings every worksheet command shares.
type Config struct {
	OutDir       string `env:"WORKSHEET_OUT_DIR"       envDefault:"."`
	Engine       string `env:"WORKSHEET_ENGINE"        envDefault:"xelatex"`
	EnginePasses int    `env:"WORKSHEET_ENGINE_PASSES" envDefault:"1"`
	Locale       string `env:"WORKSHEET_LOCALE"        envDefault:"zh-CN"`
	Format       string `env:"WORKSHEET_FORMAT"        envDefault:"tex"`
	PDFFont      string `env:"WORKSHEET_PDF_FONT"`
	ArchivePath  string `env:"WORKSHEET_ARCHIVE_PATH"`
	LogMode      string `env:"WORKSHEET_LOG_MODE"      envDefault:"dev"`
	Concurrency  int    `env:"WORKSHEET_CONCURRENCY"   envDefault:"0"`
}

// BindFlags registers the shared flags with env-derived defaults.
func BindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "output directory for generated documents")
	fs.StringVar(&cfg.Engine, "engine", cfg.Engine, "TeX engine binary, or \"none\" to only write sources")
	fs.IntVar(&cfg.EnginePasses, "passes", cfg.EnginePasses, "TeX engine passes per document")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "label locale (zh-CN, en-US)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: tex or pdf")
	fs.StringVar(&cfg.PDFFont, "pdf-font", cfg.PDFFont, "UTF-8 TrueType font for pdf output")
	fs.StringVar(&cfg.ArchivePath, "archive", cfg.ArchivePath, "SQLite run archive path (empty disables)")
	fs.StringVar(&cfg.LogMode, "log-mode", cfg.LogMode, "log mode: dev or prod")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "parallel page generation limit (0 uses GOMAXPROCS)")
}

// Runtime is the assembled command runtime.
type Runtime struct {
	Service *worksheet.Service
	// Archive is nil when no archive path is configured.
	Archive storage.RunStore
	Logger  *logging.Logger
	Bundle  *catalog.Bundle

	store *sqlite.Store
}

// Build assembles a Runtime from cfg. Callers must Close it.
func Build(cfg Config) (*Runtime, error) {
	format, err := worksheet.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	if cfg.EnginePasses < 0 {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidInput,
			"engine passes must not be negative", map[string]string{"passes": strconv.Itoa(cfg.EnginePasses)})
	}
	if cfg.Concurrency < 0 {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidInput,
			"concurrency must not be negative", map[string]string{"concurrency": strconv.Itoa(cfg.Concurrency)})
	}
	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	bundle := catalog.Default()
	locale := strings.TrimSpace(cfg.Locale)
	if locale != "" && !bundle.HasLocale(locale) {
		logger.Warn("unknown locale, falling back", "locale", locale, "fallback", bundle.Resolve(locale))
	}

	rt := &Runtime{Logger: logger, Bundle: bundle}
	if path := strings.TrimSpace(cfg.ArchivePath); path != "" {
		store, err := sqlite.Open(path)
		if err != nil {
			logger.Sync()
			return nil, apperrors.Wrap(apperrors.CodeStorageFailed, "open run archive", err)
		}
		rt.store = store
		rt.Archive = store
		logger.Debug("run archive enabled", "path", path)
	}

	rt.Service = &worksheet.Service{
		OutDir:      cfg.OutDir,
		Locale:      locale,
		Format:      format,
		FontPath:    cfg.PDFFont,
		Concurrency: cfg.Concurrency,
		Typesetter: typeset.Runner{
			Engine: cfg.Engine,
			Passes: cfg.EnginePasses,
			Logger: logger,
		},
		Archive: rt.Archive,
		Bundle:  bundle,
		Logger:  logger,
	}
	return rt, nil
}

// Close releases the archive and flushes the logger.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	r.Logger.Sync()
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}
