// models содержит доменные сущности trends-service.
// Все записи живут в пределах одного вызова инструмента и нигде не сохраняются.
package models

import (
	"strings"
	"time"
)

// TopicRecord — нормализованная запись социальной ленты (Reddit).
type TopicRecord struct {
	// Title — заголовок без хвостовых [тегов].
	Title string
	// Summary — краткое описание; пустая строка, если у записи его нет.
	Summary string
	// Links — ссылки записи в порядке ленты, без дублей.
	Links []string
	// PublishedAt — время публикации (UTC), nil — неизвестно.
	PublishedAt *time.Time
}

// NewTopicRecord собирает запись, приводя поля к инвариантам:
// trim строк, Links != nil, пустые ссылки и дубли отбрасываются, время — в UTC.
func NewTopicRecord(title, summary string, links []string, published *time.Time) TopicRecord {
	rec := TopicRecord{
		Title:   strings.TrimSpace(title),
		Summary: strings.TrimSpace(summary),
		Links:   make([]string, 0, len(links)),
	}

	seen := make(map[string]struct{}, len(links))
	for _, l := range links {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		rec.Links = append(rec.Links, l)
	}

	if published != nil && !published.IsZero() {
		t := published.UTC()
		rec.PublishedAt = &t
	}

	return rec
}
