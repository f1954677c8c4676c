package domain

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/louisbranch/tenfacts/internal/sheet"
	"github.com/louisbranch/tenfacts/internal/worksheet"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Generator writes multi page worksheets. *worksheet.Service satisfies it.
type Generator interface {
	Multi(ctx context.Context, req worksheet.MultiRequest) (worksheet.Result, error)
}

// PageInput represents the MCP tool input for previewing one page.
type PageInput struct {
	Number int `json:"number" jsonschema:"page number; also the generator seed"`
	Count  int `json:"count,omitempty" jsonschema:"questions on the page (default 20)"`
}

// PageResult represents the MCP tool output for one page.
type PageResult struct {
	Number    int        `json:"number" jsonschema:"page number"`
	Seed      int64      `json:"seed" jsonschema:"seed the page was generated from"`
	Count     int        `json:"count" jsonschema:"number of questions"`
	ZeroCount int        `json:"zero_count" jsonschema:"questions involving a zero term"`
	Questions [][]string `json:"questions" jsonschema:"question rows, three cells each, blanks shown as __"`
	Answers   [][]string `json:"answers" jsonschema:"answer rows with every blank filled in"`
}

// PageTool defines the MCP tool schema for previewing a page.
func PageTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "worksheet_page",
		Description: "Generates one worksheet page of single-digit addition and subtraction facts within 10. The page number is the seed, so the same number always yields the same page.",
	}
}

// PageHandler executes a page preview request.
func PageHandler() mcp.ToolHandlerFor[PageInput, PageResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PageInput) (*mcp.CallToolResult, PageResult, error) {
		if err := ctx.Err(); err != nil {
			return nil, PageResult{}, err
		}
		count := input.Count
		if count == 0 {
			count = sheet.DefaultCount
		}
		if err := sheet.CheckRequestCount(count); err != nil {
			return nil, PageResult{}, err
		}
		page, err := sheet.BuildPage(input.Number, int64(input.Number), count)
		if err != nil {
			return nil, PageResult{}, fmt.Errorf("worksheet page failed: %w", err)
		}
		return nil, PageResult{
			Number:    page.Number,
			Seed:      page.Seed,
			Count:     page.Total,
			ZeroCount: page.Set.ZeroCount(),
			Questions: sheet.TextRows(page.Questions),
			Answers:   sheet.TextRows(page.Answers),
		}, nil
	}
}

// GenerateInput represents the MCP tool input for writing worksheets.
type GenerateInput struct {
	Start  int    `json:"start" jsonschema:"first page number"`
	Pages  int    `json:"pages" jsonschema:"number of consecutive pages"`
	Count  int    `json:"count,omitempty" jsonschema:"questions per page (default 20)"`
	Locale string `json:"locale,omitempty" jsonschema:"label locale such as zh-CN or en-US"`
	Format string `json:"format,omitempty" jsonschema:"output format: tex (default) or pdf"`
}

// GenerateResult represents the MCP tool output for written worksheets.
type GenerateResult struct {
	QuestionFile string `json:"question_file" jsonschema:"question document file name"`
	AnswerFile   string `json:"answer_file" jsonschema:"answer document file name"`
	Pages        int    `json:"pages" jsonschema:"pages written"`
	RunID        string `json:"run_id,omitempty" jsonschema:"archive run identifier when archiving is enabled"`
}

// GenerateTool defines the MCP tool schema for writing worksheets.
func GenerateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "worksheet_generate",
		Description: "Writes question and answer documents for a range of numbered worksheet pages into the server output directory.",
	}
}

// GenerateHandler executes a worksheet generation request.
func GenerateHandler(gen Generator) mcp.ToolHandlerFor[GenerateInput, GenerateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, GenerateResult, error) {
		if gen == nil {
			return nil, GenerateResult{}, fmt.Errorf("worksheet generator is not configured")
		}
		format, err := worksheet.ParseFormat(input.Format)
		if err != nil {
			return nil, GenerateResult{}, err
		}
		count := input.Count
		if count == 0 {
			count = sheet.DefaultCount
		}
		if err := sheet.CheckRequestCount(count); err != nil {
			return nil, GenerateResult{}, err
		}
		result, err := gen.Multi(ctx, worksheet.MultiRequest{
			Start:  input.Start,
			Pages:  input.Pages,
			Count:  count,
			Locale: input.Locale,
			Format: format,
		})
		if err != nil {
			return nil, GenerateResult{}, fmt.Errorf("worksheet generate failed: %w", err)
		}
		return nil, GenerateResult{
			QuestionFile: filepath.Base(result.QuestionFile),
			AnswerFile:   filepath.Base(result.AnswerFile),
			Pages:        len(result.Pages),
			RunID:        result.RunID,
		}, nil
	}
}
