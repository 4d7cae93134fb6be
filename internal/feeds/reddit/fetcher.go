// reddit — фетчер социальной ленты (Reddit discover.rss).
package reddit

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/pribylovaa/trends-service/internal/config"
	"github.com/pribylovaa/trends-service/internal/feeds"
	"github.com/pribylovaa/trends-service/internal/metrics"
	"github.com/pribylovaa/trends-service/internal/models"
	"github.com/pribylovaa/trends-service/pkg/log"
	"github.com/pribylovaa/trends-service/pkg/redact"
)

const source = "reddit"

// Fetcher реализует service.TopicFetcher поверх gofeed.
// Безопасен для конкурентного использования: состояние только read-only.
type Fetcher struct {
	client   *feeds.Client
	url      string
	defLimit int
	maxLimit int
}

// New создаёт фетчер. Адрес ленты и лимиты берутся из конфигурации.
func New(client *feeds.Client, fc config.FeedsConfig, lc config.LimitsConfig) *Fetcher {
	return &Fetcher{
		client:   client,
		url:      fc.RedditURL,
		defLimit: lc.Default,
		maxLimit: lc.Max,
	}
}

// Fetch возвращает не более limit записей в порядке ленты.
// Ошибки не пробрасываются: они логируются (reddit_fetch_failed)
// и учитываются в метриках, а вызывающий получает пустой срез.
func (f *Fetcher) Fetch(ctx context.Context, limit int) []models.TopicRecord {
	const op = "reddit.Fetch"

	limit = feeds.ClampLimit(limit, f.defLimit, f.maxLimit)

	out, err := f.fetch(ctx, limit)
	if err != nil {
		kind := feeds.KindOf(err)
		metrics.FeedFailures.WithLabelValues(source, string(kind)).Inc()
		log.From(ctx).Warn("reddit_fetch_failed",
			slog.String("op", op),
			slog.String("kind", string(kind)),
			slog.String("url", redact.URL(f.url)),
			slog.String("err", err.Error()),
		)
		return []models.TopicRecord{}
	}

	metrics.FeedItems.WithLabelValues(source).Add(float64(len(out)))
	log.From(ctx).Debug("reddit_fetched",
		slog.String("op", op),
		slog.Int("limit", limit),
		slog.Int("items", len(out)),
	)

	return out
}

func (f *Fetcher) fetch(ctx context.Context, limit int) ([]models.TopicRecord, error) {
	const op = "reddit.fetch"

	body, err := f.client.Get(ctx, f.url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, &feeds.FetchError{Kind: feeds.KindParse, URL: f.url, Err: err})
	}

	return collect(feed.Items, limit), nil
}

// collect просматривает не более 2*limit записей и останавливается на limit.
func collect(items []*gofeed.Item, limit int) []models.TopicRecord {
	scan := min(len(items), 2*limit)
	out := make([]models.TopicRecord, 0, min(scan, limit))

	for _, it := range items[:scan] {
		if it == nil {
			continue
		}

		out = append(out, toRecord(it))
		if len(out) >= limit {
			break
		}
	}

	return out
}

func toRecord(it *gofeed.Item) models.TopicRecord {
	summary := it.Description
	if strings.TrimSpace(summary) == "" {
		summary = it.Content
	}

	links := it.Links
	if len(links) == 0 && it.Link != "" {
		links = []string{it.Link}
	}

	published := it.PublishedParsed
	if published == nil {
		published = it.UpdatedParsed
	}

	return models.NewTopicRecord(CleanTitle(it.Title), summary, links, published)
}

var reTag = regexp.MustCompile(`\s*\[[^\]]+\]\s*`)

// CleanTitle убирает [теги] из заголовка: "Title [discussion]" -> "Title".
func CleanTitle(title string) string {
	return strings.TrimSpace(reTag.ReplaceAllString(title, " "))
}
