package report

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/pribylovaa/trends-service/internal/models"
)

// ErrRender — ошибка построения PDF.
var ErrRender = errors.New("pdf render failed")

const (
	// margin — 0.75 дюйма.
	margin     = 0.75 * 72
	linkIndent = 10
	bullet     = "• "
)

type style struct {
	font   string
	size   float64
	rgb    [3]int
	lineH  float64
	after  float64
	align  string
	indent float64
}

var styles = map[Kind]style{
	KindTitle:     {font: "B", size: 24, rgb: [3]int{0x1a, 0x1a, 0x1a}, lineH: 29, after: 12, align: "C"},
	KindSubtitle:  {font: "I", size: 10, rgb: [3]int{0x66, 0x66, 0x66}, lineH: 12, after: 20, align: "C"},
	KindHeading:   {font: "B", size: 16, rgb: [3]int{0x2c, 0x3e, 0x50}, lineH: 19, after: 6, align: "L"},
	KindMeta:      {font: "I", size: 9, rgb: [3]int{0x7f, 0x8c, 0x8d}, lineH: 11, after: 4, align: "L"},
	KindParagraph: {font: "", size: 11, rgb: [3]int{0x34, 0x49, 0x5e}, lineH: 14, after: 8, align: "L"},
	KindLabel:     {font: "B", size: 11, rgb: [3]int{0x34, 0x49, 0x5e}, lineH: 14, after: 2, align: "L"},
	KindLink:      {font: "", size: 8, rgb: [3]int{0x34, 0x98, 0xdb}, lineH: 10, after: 2, align: "L", indent: linkIndent},
}

// PDF раскладывает и рисует отчёт.
func PDF(items []models.TrendingItem, asOf string, now time.Time) ([]byte, error) {
	return Render(Build(items, asOf, now))
}

// Render рисует Story на странице US Letter.
// Одинаковая Story даёт побайтно одинаковый результат: даты метаданных
// берутся из Story.CreatedAt, каталоги сортируются.
func Render(s Story) ([]byte, error) {
	const op = "report.Render"

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(s.CreatedAt)
	pdf.SetModificationDate(s.CreatedAt)
	pdf.SetTitle(ReportTitle, true)
	pdf.SetCreator("trends-service", true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	width := pageW - 2*margin

	for _, el := range s.Elements {
		switch el.Kind {
		case KindSpacer:
			pdf.Ln(el.Height)
		case KindPageBreak:
			pdf.AddPage()
		case KindLink:
			st := apply(pdf, el.Kind)
			w := width - st.indent
			for _, line := range wrap(pdf, tr(bullet+Unescape(el.Text)), w) {
				pdf.SetX(margin + st.indent)
				pdf.CellFormat(w, st.lineH, line, "", 1, st.align, false, 0, Unescape(el.Href))
			}
			pdf.Ln(st.after)
		default:
			st := apply(pdf, el.Kind)
			pdf.MultiCell(width, st.lineH, tr(el.Text), "", st.align, false)
			pdf.Ln(st.after)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrRender, err)
	}

	return buf.Bytes(), nil
}

func apply(pdf *fpdf.Fpdf, k Kind) style {
	st := styles[k]
	pdf.SetFont("Helvetica", st.font, st.size)
	pdf.SetTextColor(st.rgb[0], st.rgb[1], st.rgb[2])
	return st
}

// wrap режет однобайтовую (cp1252) строку по ширине w текущего шрифта.
// Ссылки не содержат пробелов, поэтому перенос посимвольный.
func wrap(pdf *fpdf.Fpdf, s string, w float64) []string {
	var lines []string

	start := 0
	for i := 1; i <= len(s); i++ {
		if pdf.GetStringWidth(s[start:i]) > w && i-1 > start {
			lines = append(lines, s[start:i-1])
			start = i - 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}

	return lines
}
