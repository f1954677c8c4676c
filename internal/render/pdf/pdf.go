// Package pdf renders worksheet pages straight to PDF without a TeX engine.
package pdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/louisbranch/tenfacts/internal/platform/i18n/catalog"
	"github.com/louisbranch/tenfacts/internal/sheet"
)

const (
	// FallbackLocale is used when no UTF-8 font is configured; the core
	// Helvetica font cannot draw CJK glyphs.
	FallbackLocale = "en-US"

	fontFamily    = "worksheet"
	coreFont      = "Helvetica"
	marginLeft    = 10.0
	marginTop     = 12.7
	marginRight   = 17.8
	rowHeight     = 11.0
	rowGap        = 4.0
	blankWidth    = 9.0
	numberWidth   = 12.0
	expressionPts = 18.0
)

// Options controls PDF rendering.
type Options struct {
	View   sheet.View
	Header HeaderKind
	Date   string
	Locale string
	// FontPath is a UTF-8 TrueType font; empty uses core Helvetica.
	FontPath string
	Bundle   *catalog.Bundle
}

// HeaderKind selects the label printed above the score line.
type HeaderKind int

const (
	HeaderDate HeaderKind = iota
	HeaderNumber
)

// LabelLocale returns the locale labels are printed in for opts.
func LabelLocale(opts Options) string {
	if strings.TrimSpace(opts.FontPath) == "" {
		return FallbackLocale
	}
	return opts.Locale
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
	p := bundle.Printer(LabelLocale(opts))

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(marginLeft, marginTop, marginRight)
	doc.SetAutoPageBreak(false, marginTop)
	family := coreFont
	if path := strings.TrimSpace(opts.FontPath); path != "" {
		doc.AddUTF8Font(fontFamily, "", path)
		doc.AddUTF8Font(fontFamily, "B", path)
		family = fontFamily
	}

	title := p.Sprintf(catalog.KeyTitleQuestion)
	if opts.View == sheet.ViewAnswer {
		title = p.Sprintf(catalog.KeyTitleAnswer)
	}
	doc.SetTitle(title, true)

	r := renderer{doc: doc, family: family}
	for _, page := range pages {
		header := p.Sprintf(catalog.KeyHeaderNumber, strconv.Itoa(page.Number))
		if opts.Header == HeaderDate {
			header = p.Sprintf(catalog.KeyHeaderDate, opts.Date)
		}
		score := p.Sprintf(catalog.KeyHeaderScore, "________", strconv.Itoa(page.Total))
		grouping := page.Questions
		if opts.View == sheet.ViewAnswer {
			grouping = page.Answers
		}
		r.page(header, score, title, grouping)
		if doc.Err() {
			return fmt.Errorf("render page %d: %w", page.Number, doc.Error())
		}
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

type renderer struct {
	doc    *fpdf.Fpdf
	family string
}

func (r renderer) page(header, score, title string, g sheet.Grouping) {
	d := r.doc
	d.AddPage()
	pageWidth, _ := d.GetPageSize()
	contentWidth := pageWidth - marginLeft - marginRight

	d.SetTextColor(0, 0, 0)
	d.SetFont(r.family, "", 14)
	d.CellFormat(0, 7, header, "", 1, "R", false, 0, "")
	d.CellFormat(0, 7, score, "", 1, "R", false, 0, "")
	d.Ln(4)

	d.SetFont(r.family, "B", 26)
	d.CellFormat(0, 14, title, "", 1, "C", false, 0, "")
	d.Ln(6)

	columnWidth := contentWidth / sheet.Columns
	for _, row := range g.Rows {
		y := d.GetY()
		for i, slot := range row.Slots {
			if slot.Empty() {
				continue
			}
			d.SetXY(marginLeft+float64(i)*columnWidth, y)
			r.question(*slot.Question, g.View)
		}
		d.SetXY(marginLeft, y+rowHeight)
		if !row.Last {
			d.Ln(rowGap)
		}
	}
}

func (r renderer) question(q sheet.Question, view sheet.View) {
	d := r.doc
	d.SetTextColor(0, 0, 200)
	d.SetFont(r.family, "", 10)
	d.CellFormat(numberWidth, rowHeight, "("+strconv.Itoa(q.Number)+")", "", 0, "R", false, 0, "")
	d.CellFormat(2, rowHeight, "", "", 0, "", false, 0, "")

	r.expr(q.LHS(view))
	d.SetTextColor(0, 0, 0)
	d.SetFont(r.family, "", expressionPts)
	d.CellFormat(d.GetStringWidth("=")+1, rowHeight, "=", "", 0, "C", false, 0, "")
	r.expr(q.RHS(view))
}

func (r renderer) expr(expr sheet.Expr) {
	d := r.doc
	for _, tok := range expr {
		d.SetTextColor(0, 0, 0)
		d.SetFont(r.family, "", expressionPts)
		switch tok.Kind {
		case sheet.TokenBlank:
			d.CellFormat(blankWidth, rowHeight, "", "B", 0, "C", false, 0, "")
		case sheet.TokenRevealed:
			d.SetTextColor(200, 0, 0)
			d.SetFont(r.family, "B", expressionPts)
			d.CellFormat(blankWidth, rowHeight, strconv.Itoa(tok.Value), "B", 0, "C", false, 0, "")
		default:
			text := sheet.FormatText(sheet.Expr{tok})
			d.CellFormat(d.GetStringWidth(text)+1, rowHeight, text, "", 0, "C", false, 0, "")
		}
	}
}
