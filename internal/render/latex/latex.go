// Package latex renders worksheet pages into LaTeX documents for an
// external TeX engine.
package latex

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/louisbranch/tenfacts/internal/platform/i18n/catalog"
	"github.com/louisbranch/tenfacts/internal/sheet"
)

// Layout constants of the printed sheet.
const (
	ArrayStretch = "1.1"
	RowGap       = "0.6em"
	Geometry     = "left=0.4in,right=0.7in,top=0.5in,bottom=0.5in"
	ColumnSpec   = `@{}Q@{\hspace{0.6em}}r@{$=$}l@{\hspace{0.8em}}Q@{\hspace{0.6em}}r@{$=$}l@{\hspace{0.8em}}Q@{\hspace{0.6em}}r@{$=$}l@{}`

	// EmptySlot fills the three columns of a missing question.
	EmptySlot = `\multicolumn{3}{@{}l@{}}{}`
)

//go:embed document.tex.tmpl
var documentSource string

var documentTemplate = template.Must(template.New("document").Parse(documentSource))

// FormatExpr renders an expression in math mode.
func FormatExpr(expr sheet.Expr) string {
	var b strings.Builder
	for _, tok := range expr {
		switch tok.Kind {
		case sheet.TokenOperator:
			b.WriteString(tok.Op.Symbol())
		case sheet.TokenBlank:
			b.WriteString(`\blank`)
		case sheet.TokenRevealed:
			b.WriteString(`\ans{` + strconv.Itoa(tok.Value) + `}`)
		default:
			b.WriteString(strconv.Itoa(tok.Value))
		}
	}
	return b.String()
}

// Rows renders a grouping as tabular lines.
func Rows(g sheet.Grouping) string {
	lines := make([]string, 0, len(g.Rows))
	for _, row := range g.Rows {
		cells := make([]string, 0, sheet.Columns*sheet.FieldsPerSlot)
		fields := row.Fields(g.View)
		for i := 0; i < len(fields); i += sheet.FieldsPerSlot {
			if fields[i].Kind == sheet.FieldEmpty {
				cells = append(cells, EmptySlot)
				continue
			}
			for _, f := range fields[i : i+sheet.FieldsPerSlot] {
				cells = append(cells, formatField(f))
			}
		}
		line := strings.Join(cells, " & ")
		if row.Last {
			line += ` \\`
		} else {
			line += ` \\[` + RowGap + `]`
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatField(f sheet.Field) string {
	switch f.Kind {
	case sheet.FieldNumber:
		return `\qnum{` + strconv.Itoa(f.Number) + `}`
	case sheet.FieldLHS:
		return `\lhs{` + FormatExpr(f.Expr) + `}`
	case sheet.FieldRHS:
		return `\rhs{` + FormatExpr(f.Expr) + `}`
	default:
		return ""
	}
}

var textEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`_`, `\_`,
	`%`, `\%`,
	`^`, `\textasciicircum{}`,
	`~`, `\textasciitilde{}`,
)

// EscapeText escapes characters with special meaning in LaTeX text.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// HeaderKind selects the label printed above the score line.
type HeaderKind int

const (
	// HeaderDate prints a free-text date label (single page sheets).
	HeaderDate HeaderKind = iota
	// HeaderNumber prints the page number (multi page sheets).
	HeaderNumber
)

// Options controls document rendering.
type Options struct {
	View   sheet.View
	Header HeaderKind
	// Date is printed by HeaderDate documents.
	Date   string
	Locale string
	Bundle *catalog.Bundle
}

type documentData struct {
	Answer       bool
	Title        string
	Geometry     string
	ArrayStretch string
	ColumnSpec   string
	Pages        []pageData
}

type pageData struct {
	Header string
	Score  string
	Rows   string
}

// Render writes the document for pages in opts.View to w.
func Render(w io.Writer, pages []sheet.Page, opts Options) error {
	if w == nil {
		return fmt.Errorf("output is required")
	}
	if len(pages) == 0 {
		return fmt.Errorf("at least one page is required")
	}
	bundle := opts.Bundle
	if bundle == nil {
		bundle = catalog.Default()
	}
	p := bundle.Printer(opts.Locale)

	data := documentData{
		Answer:       opts.View == sheet.ViewAnswer,
		Title:        p.Sprintf(catalog.KeyTitleQuestion),
		Geometry:     Geometry,
		ArrayStretch: ArrayStretch,
		ColumnSpec:   ColumnSpec,
	}
	if data.Answer {
		data.Title = p.Sprintf(catalog.KeyTitleAnswer)
	}
	for _, page := range pages {
		grouping := page.Questions
		if data.Answer {
			grouping = page.Answers
		}
		header := p.Sprintf(catalog.KeyHeaderNumber, strconv.Itoa(page.Number))
		if opts.Header == HeaderDate {
			header = p.Sprintf(catalog.KeyHeaderDate, EscapeText(opts.Date))
		}
		data.Pages = append(data.Pages, pageData{
			Header: header,
			Score:  p.Sprintf(catalog.KeyHeaderScore, `\scoreblank`, strconv.Itoa(page.Total)),
			Rows:   Rows(grouping),
		})
	}
	return documentTemplate.Execute(w, data)
}

// Document renders pages to a string.
func Document(pages []sheet.Page, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, pages, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}
