package domain

import (
	"context"
	"errors"
	"slices"
	"testing"

	apperrors "github.com/louisbranch/tenfacts/internal/platform/errors"
	"github.com/louisbranch/tenfacts/internal/sheet"
	"github.com/louisbranch/tenfacts/internal/worksheet"
)

type fakeGenerator struct {
	requests []worksheet.MultiRequest
	result   worksheet.Result
	err      error
}

func (f *fakeGenerator) Multi(_ context.Context, req worksheet.MultiRequest) (worksheet.Result, error) {
	f.requests = append(f.requests, req)
	return f.result, f.err
}

func TestPageHandlerMatchesSeededPage(t *testing.T) {
	_, result, err := PageHandler()(context.Background(), nil, PageInput{Number: 12})
	if err != nil {
		t.Fatalf("page handler: %v", err)
	}
	want, err := sheet.BuildPage(12, 12, sheet.DefaultCount)
	if err != nil {
		t.Fatalf("build page: %v", err)
	}
	if result.Seed != 12 || result.Count != sheet.DefaultCount {
		t.Fatalf("unexpected result header: %+v", result)
	}
	if len(result.Questions) != 7 || len(result.Answers) != 7 {
		t.Fatalf("expected 7 rows, got %d/%d", len(result.Questions), len(result.Answers))
	}
	if !slices.Equal(result.Questions[0], sheet.TextRows(want.Questions)[0]) {
		t.Fatalf("row 0 = %v", result.Questions[0])
	}
	if result.ZeroCount > sheet.ZeroLimit(sheet.DefaultCount) {
		t.Fatalf("zero count %d over limit", result.ZeroCount)
	}
}

func TestPageHandlerReportsExhaustion(t *testing.T) {
	_, _, err := PageHandler()(context.Background(), nil, PageInput{Number: 1, Count: 100})
	if !errors.Is(err, apperrors.ErrGenerationExhausted) {
		t.Fatalf("expected exhaustion, got %v", err)
	}
}

func TestPageHandlerRejectsOversizedCount(t *testing.T) {
	for _, count := range []int{sheet.MaxDistinctFacts + 1, 1 << 45, -1} {
		if _, _, err := PageHandler()(context.Background(), nil, PageInput{Number: 1, Count: count}); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("count %d: expected invalid input, got %v", count, err)
		}
	}
}

func TestGenerateHandlerRejectsOversizedCount(t *testing.T) {
	gen := &fakeGenerator{}
	_, _, err := GenerateHandler(gen)(context.Background(), nil, GenerateInput{Start: 1, Pages: 1, Count: 1 << 45})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if len(gen.requests) != 0 {
		t.Fatal("generator must not run for an oversized count")
	}
}

func TestGenerateHandlerDefaultsCount(t *testing.T) {
	gen := &fakeGenerator{result: worksheet.Result{
		QuestionFile: "/out/worksheet_no1-pages2-count20.tex",
		AnswerFile:   "/out/worksheet_no1-pages2-count20_ans.tex",
		Pages:        make([]sheet.Page, 2),
		RunID:        "abc",
	}}

	_, result, err := GenerateHandler(gen)(context.Background(), nil, GenerateInput{Start: 1, Pages: 2, Format: "pdf"})
	if err != nil {
		t.Fatalf("generate handler: %v", err)
	}
	if len(gen.requests) != 1 || gen.requests[0].Count != sheet.DefaultCount || gen.requests[0].Format != worksheet.FormatPDF {
		t.Fatalf("unexpected request: %+v", gen.requests)
	}
	if result.QuestionFile != "worksheet_no1-pages2-count20.tex" || result.Pages != 2 || result.RunID != "abc" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestGenerateHandlerRejectsFormat(t *testing.T) {
	gen := &fakeGenerator{}
	_, _, err := GenerateHandler(gen)(context.Background(), nil, GenerateInput{Start: 1, Pages: 1, Format: "docx"})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if len(gen.requests) != 0 {
		t.Fatal("generator must not run for an invalid format")
	}
}

func TestGenerateHandlerPropagatesErrors(t *testing.T) {
	gen := &fakeGenerator{err: apperrors.New(apperrors.CodeRenderFailed, "xelatex failed")}
	_, _, err := GenerateHandler(gen)(context.Background(), nil, GenerateInput{Start: 1, Pages: 1})
	if !errors.Is(err, apperrors.ErrRenderFailed) {
		t.Fatalf("expected render failure, got %v", err)
	}
}

func TestGenerateHandlerRequiresGenerator(t *testing.T) {
	if _, _, err := GenerateHandler(nil)(context.Background(), nil, GenerateInput{}); err == nil {
		t.Fatal("expected error without generator")
	}
}
