// format — текстовые дайджесты трендов для ответов инструментов.
// Чистые функции без I/O; порядок входа сохраняется.
package format

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pribylovaa/trends-service/internal/models"
)

const (
	// Separator — горизонтальная линия между записями.
	Separator = "\n\n---\n\n"

	// DateLayout — человекочитаемая дата в дайджестах.
	DateLayout = "Mon, 02 Jan 2006 15:04 UTC"

	UnknownDate = "Unknown date"
	NoLinks     = "No links"
	NoArticles  = "No articles found"
	NoTraffic   = "N/A"
)

// Topics рендерит записи социальной ленты. Пустой вход — пустая строка.
func Topics(records []models.TopicRecord) string {
	blocks := make([]string, 0, len(records))
	for _, r := range records {
		blocks = append(blocks, topic(r))
	}
	return strings.Join(blocks, Separator)
}

func topic(r models.TopicRecord) string {
	var b strings.Builder

	title := r.Title
	if title == "" {
		title = models.DefaultTitle
	}
	b.WriteString("**" + title + "**\n")

	date := UnknownDate
	if r.PublishedAt != nil {
		date = r.PublishedAt.UTC().Format(DateLayout)
	}
	b.WriteString("*" + date + "*\n")

	if r.Summary != "" {
		b.WriteString("\n" + r.Summary + "\n")
	}

	b.WriteString("\n")
	if len(r.Links) == 0 {
		b.WriteString(NoLinks)
	} else {
		for i, l := range r.Links {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("- " + l)
		}
	}

	return b.String()
}

// TrendItems рендерит темы Google Trends. Пустой вход — пустая строка.
func TrendItems(items []models.GoogleTrendItem) string {
	caser := cases.Title(language.English)

	blocks := make([]string, 0, len(items))
	for _, it := range items {
		blocks = append(blocks, trendItem(caser, it))
	}
	return strings.Join(blocks, Separator)
}

func trendItem(caser cases.Caser, it models.GoogleTrendItem) string {
	var b strings.Builder

	topic := it.Topic
	if topic == "" {
		topic = models.DefaultTitle
	}
	b.WriteString("## " + caser.String(topic) + "\n")
	b.WriteString("Published at: " + PrettyISO(it.PublishedAt) + "\n")

	traffic := it.ApproxTraffic
	if traffic == "" {
		traffic = NoTraffic
	}
	b.WriteString("Approximate traffic: " + traffic + "\n")

	b.WriteString("Articles:")
	if len(it.Candidates) == 0 {
		b.WriteString("\n" + NoArticles)
		return b.String()
	}

	for _, c := range it.Candidates {
		title := c.Title
		if title == "" {
			title = models.DefaultTitle
		}
		b.WriteString("\n- " + title)
		if c.Source != "" {
			b.WriteString(" (" + c.Source + ")")
		}
		b.WriteString("\n  " + c.URL)
	}

	return b.String()
}

// PrettyISO переводит RFC3339-строку в DateLayout.
// Пустое значение — UnknownDate, нераспознанное возвращается как есть.
func PrettyISO(iso string) string {
	if iso == "" {
		return UnknownDate
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}

	return t.UTC().Format(DateLayout)
}
