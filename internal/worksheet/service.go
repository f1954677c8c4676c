// Package worksheet turns generation requests into question and answer
// documents on disk.
//
// A Service builds the pages, renders both views in the requested format,
// hands TeX sources to the typesetter, and records the run in the archive
// when one is configured. Any failure aborts the whole request.
package worksheet

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/louisbranch/tenfacts/internal/platform/errors"
	"github.com/louisbranch/tenfacts/internal/platform/i18n/catalog"
	"github.com/louisbranch/tenfacts/internal/platform/id"
	"github.com/louisbranch/tenfacts/internal/platform/logging"
	"github.com/louisbranch/tenfacts/internal/platform/otel"
	"github.com/louisbranch/tenfacts/internal/random"
	"github.com/louisbranch/tenfacts/internal/render/latex"
	"github.com/louisbranch/tenfacts/internal/render/pdf"
	"github.com/louisbranch/tenfacts/internal/sheet"
	"github.com/louisbranch/tenfacts/internal/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DateLayout is the default date label format.
const DateLayout = "2006-01-02"

// Typesetter compiles a written TeX document. typeset.Runner satisfies it.
type Typesetter interface {
	Enabled() bool
	Run(ctx context.Context, texPath string) error
}

// Service generates worksheets into OutDir.
type Service struct {
	OutDir string
	// Locale is the default label locale; requests may override it.
	Locale string
	// Format is the default output format; requests may override it.
	Format      Format
	FontPath    string
	Concurrency int

	Typesetter Typesetter
	// Archive is optional.
	Archive storage.RunStore
	Bundle  *catalog.Bundle
	Logger  *logging.Logger
	Clock   random.Clock
	NewID   func() (string, error)
}

// SingleRequest asks for one dated page.
type SingleRequest struct {
	Count int
	// Seed is derived from the clock when nil.
	Seed *int64
	// Date defaults to today.
	Date   string
	Locale string
	Format Format
}

// MultiRequest asks for pages numbered Start..Start+Pages-1, each seeded by
// its own number.
type MultiRequest struct {
	Start  int
	Pages  int
	Count  int
	Locale string
	Format Format
}

// Result describes the written documents.
type Result struct {
	QuestionFile string
	AnswerFile   string
	Seed         int64
	Pages        []sheet.Page
	// RunID is empty when no archive is configured.
	RunID string
}

// Files returns the written paths in question, answer order.
func (r Result) Files() []string {
	return []string{r.QuestionFile, r.AnswerFile}
}

// Summary is the line printed after a successful run.
func (r Result) Summary() string {
	return fmt.Sprintf("Generated: %s, %s", filepath.Base(r.QuestionFile), filepath.Base(r.AnswerFile))
}

type document struct {
	header latex.HeaderKind
	date   string
	locale string
	format Format
	stem   string
}

// Single generates one page with a date header.
func (s *Service) Single(ctx context.Context, req SingleRequest) (Result, error) {
	ctx, span := otel.Tracer("worksheet").Start(ctx, "worksheet.single")
	defer span.End()

	seed, derived := random.Resolve(req.Seed, s.clock())
	if derived {
		s.Logger.Info("using time-derived seed", "seed", seed)
	}
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = s.clock()().Format(DateLayout)
	}
	span.SetAttributes(attribute.Int64("worksheet.seed", seed), attribute.Int("worksheet.count", req.Count))

	page, err := sheet.BuildPage(1, seed, req.Count)
	if err != nil {
		return Result{}, s.fail(span, err)
	}
	pages := []sheet.Page{page}
	s.Logger.Debug("built page", "seed", seed, "count", req.Count, "zeros", page.Set.ZeroCount())

	doc := document{
		header: latex.HeaderDate,
		date:   date,
		locale: s.locale(req.Locale),
		format: s.format(req.Format),
		stem:   SingleBase(date, seed),
	}
	result, err := s.write(ctx, pages, doc)
	if err != nil {
		return Result{}, s.fail(span, err)
	}
	result.Seed = seed

	result.RunID, err = s.archive(ctx, storage.Run{
		Mode:   storage.ModeSingle,
		Start:  1,
		Pages:  1,
		Count:  req.Count,
		Seed:   seed,
		Date:   date,
		Locale: doc.locale,
		Format: string(doc.format),
	}, result)
	if err != nil {
		return Result{}, s.fail(span, err)
	}
	return result, nil
}

// Multi generates a numbered page range into one question and one answer
// document.
func (s *Service) Multi(ctx context.Context, req MultiRequest) (Result, error) {
	ctx, span := otel.Tracer("worksheet").Start(ctx, "worksheet.multi")
	defer span.End()
	span.SetAttributes(
		attribute.Int("worksheet.start", req.Start),
		attribute.Int("worksheet.pages", req.Pages),
		attribute.Int("worksheet.count", req.Count),
	)

	pages, err := sheet.BuildPages(ctx, req.Start, req.Pages, req.Count, sheet.PagesOptions{Concurrency: s.Concurrency})
	if err != nil {
		return Result{}, s.fail(span, err)
	}
	s.Logger.Debug("built pages", "start", req.Start, "pages", len(pages), "count", req.Count)

	doc := document{
		header: latex.HeaderNumber,
		locale: s.locale(req.Locale),
		format: s.format(req.Format),
		stem:   MultiBase(req.Start, req.Pages, req.Count),
	}
	result, err := s.write(ctx, pages, doc)
	if err != nil {
		return Result{}, s.fail(span, err)
	}
	result.Seed = int64(req.Start)

	result.RunID, err = s.archive(ctx, storage.Run{
		Mode:   storage.ModeMulti,
		Start:  req.Start,
		Pages:  req.Pages,
		Count:  req.Count,
		Seed:   int64(req.Start),
		Locale: doc.locale,
		Format: string(doc.format),
	}, result)
	if err != nil {
		return Result{}, s.fail(span, err)
	}
	return result, nil
}

func (s *Service) write(ctx context.Context, pages []sheet.Page, doc document) (Result, error) {
	if doc.format != FormatTeX && doc.format != FormatPDF {
		return Result{}, apperrors.WithMetadata(apperrors.CodeInvalidInput,
			"unknown output format", map[string]string{"format": string(doc.format)})
	}
	outDir := strings.TrimSpace(s.OutDir)
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeRenderFailed, "create output dir", err)
	}
	questionName, answerName := FileNames(doc.stem, doc.format)
	result := Result{
		QuestionFile: filepath.Join(outDir, questionName),
		AnswerFile:   filepath.Join(outDir, answerName),
		Pages:        pages,
	}

	views := []struct {
		path string
		view sheet.View
	}{
		{path: result.QuestionFile, view: sheet.ViewQuestion},
		{path: result.AnswerFile, view: sheet.ViewAnswer},
	}
	for _, v := range views {
		if err := writeFile(v.path, func(w io.Writer) error {
			return s.render(w, pages, doc, v.view)
		}); err != nil {
			return Result{}, apperrors.Wrap(apperrors.CodeRenderFailed, "write "+filepath.Base(v.path), err)
		}
		s.Logger.Info("wrote document", "path", v.path, "view", v.view.String())
	}

	if doc.format == FormatTeX && s.Typesetter != nil && s.Typesetter.Enabled() {
		for _, v := range views {
			if err := s.Typesetter.Run(ctx, v.path); err != nil {
				return Result{}, err
			}
		}
	}
	return result, nil
}

func (s *Service) render(w io.Writer, pages []sheet.Page, doc document, view sheet.View) error {
	if doc.format == FormatPDF {
		header := pdf.HeaderNumber
		if doc.header == latex.HeaderDate {
			header = pdf.HeaderDate
		}
		return pdf.Render(w, pages, pdf.Options{
			View:     view,
			Header:   header,
			Date:     doc.date,
			Locale:   doc.locale,
			FontPath: s.FontPath,
			Bundle:   s.Bundle,
		})
	}
	return latex.Render(w, pages, latex.Options{
		View:   view,
		Header: doc.header,
		Date:   doc.date,
		Locale: doc.locale,
		Bundle: s.Bundle,
	})
}

func (s *Service) archive(ctx context.Context, run storage.Run, result Result) (string, error) {
	if s.Archive == nil {
		return "", nil
	}
	newID := s.NewID
	if newID == nil {
		newID = id.NewID
	}
	runID, err := newID()
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeStorageFailed, "assign run id", err)
	}
	run.ID = runID
	run.QuestionFile = filepath.Base(result.QuestionFile)
	run.AnswerFile = filepath.Base(result.AnswerFile)
	run.CreatedAt = s.clock()()
	for _, page := range result.Pages {
		run.PageRecords = append(run.PageRecords, storage.RunPage{
			Number: page.Number,
			Seed:   page.Seed,
			Keys:   page.Set.Keys(),
		})
	}
	if err := s.Archive.PutRun(ctx, run); err != nil {
		return "", apperrors.Wrap(apperrors.CodeStorageFailed, "archive run", err)
	}
	s.Logger.Info("archived run", "run_id", runID, "mode", string(run.Mode))
	return runID, nil
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(apperrors.CodeOf(err)))
	s.Logger.Error("worksheet failed", "code", string(apperrors.CodeOf(err)), "error", err)
	return err
}

func (s *Service) clock() random.Clock {
	if s.Clock == nil {
		return time.Now
	}
	return s.Clock
}

func (s *Service) locale(requested string) string {
	if v := strings.TrimSpace(requested); v != "" {
		return v
	}
	if v := strings.TrimSpace(s.Locale); v != "" {
		return v
	}
	return catalog.BaseLocale
}

func (s *Service) format(requested Format) Format {
	if requested != "" {
		return requested
	}
	if s.Format != "" {
		return s.Format
	}
	return FormatTeX
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
