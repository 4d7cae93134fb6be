// report — PDF-отчёт по трендовым историям.
//
// Рендер двухэтапный: Build раскладывает истории в плоскую последовательность
// элементов (Story), Render рисует её через go-pdf/fpdf. Раскладка — чистая
// функция, поэтому правила нумерации, экранирования и разрывов страниц
// проверяются без разбора PDF.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/trends-service/internal/models"
)

// Kind — тип элемента раскладки.
type Kind int

const (
	KindTitle Kind = iota
	KindSubtitle
	KindSpacer
	KindHeading
	KindMeta
	KindParagraph
	KindLabel
	KindLink
	KindPageBreak
)

func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindSubtitle:
		return "subtitle"
	case KindSpacer:
		return "spacer"
	case KindHeading:
		return "heading"
	case KindMeta:
		return "meta"
	case KindParagraph:
		return "paragraph"
	case KindLabel:
		return "label"
	case KindLink:
		return "link"
	case KindPageBreak:
		return "page_break"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Element — один элемент раскладки.
type Element struct {
	Kind Kind
	Text string
	// Href — цель ссылки (только KindLink), в экранированном виде.
	Href string
	// Height — высота отступа в пунктах (только KindSpacer).
	Height float64
}

// Story — результат раскладки.
type Story struct {
	Elements []Element
	// CreatedAt фиксирует даты в метаданных PDF.
	CreatedAt time.Time
}

const (
	ReportTitle = "Trending News Report"

	// AsOfLayout — формат строки "As of:".
	AsOfLayout = "January 02, 2006 at 03:04 PM UTC"

	// itemsPerPage — разрыв страницы после каждой третьей истории.
	itemsPerPage = 3

	headerGap = 0.2 * 72
	itemGap   = 0.3 * 72
)

// Build раскладывает истории в Story. asOf пустой — берётся now;
// распознанный — переводится в UTC; иначе выводится как есть.
func Build(items []models.TrendingItem, asOf string, now time.Time) Story {
	created, label := resolveAsOf(asOf, now)

	els := make([]Element, 0, 3+len(items)*6)
	els = append(els,
		Element{Kind: KindTitle, Text: ReportTitle},
		Element{Kind: KindSubtitle, Text: "As of: " + label},
		Element{Kind: KindSpacer, Height: headerGap},
	)

	for i, it := range items {
		idx := i + 1

		els = append(els,
			Element{Kind: KindHeading, Text: fmt.Sprintf("%d. %s", idx, orDefault(it.Title, models.DefaultTitle))},
			Element{Kind: KindMeta, Text: fmt.Sprintf("Category: %s | Audience: %s", it.CategoryLabel(), orDefault(it.Audience, models.DefaultAudience))},
			Element{Kind: KindParagraph, Text: orDefault(it.Summary, models.DefaultSummary)},
		)

		if len(it.Items) > 0 {
			els = append(els, Element{Kind: KindLabel, Text: "Sources:"})
			for _, src := range it.Items {
				safe := Escape(src)
				els = append(els, Element{Kind: KindLink, Text: safe, Href: safe})
			}
		}

		els = append(els, Element{Kind: KindSpacer, Height: itemGap})

		if idx%itemsPerPage == 0 && idx < len(items) {
			els = append(els, Element{Kind: KindPageBreak})
		}
	}

	return Story{Elements: els, CreatedAt: created}
}

var asOfLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// epoch — дата метаданных, когда asOf задан, но не распознан.
var epoch = time.Unix(0, 0).UTC()

// resolveAsOf возвращает момент для метаданных PDF и подпись для подзаголовка.
func resolveAsOf(asOf string, now time.Time) (time.Time, string) {
	now = now.UTC()

	asOf = strings.TrimSpace(asOf)
	if asOf == "" {
		return now, now.Format(AsOfLayout)
	}

	for _, l := range asOfLayouts {
		if t, err := time.Parse(l, asOf); err == nil {
			t = t.UTC()
			return t, t.Format(AsOfLayout)
		}
	}

	return epoch, asOf
}

var (
	escaper   = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	unescaper = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">")
)

// Escape экранирует &, < и > в строке ссылки.
func Escape(s string) string { return escaper.Replace(s) }

// Unescape — обратное к Escape.
func Unescape(s string) string { return unescaper.Replace(s) }

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
