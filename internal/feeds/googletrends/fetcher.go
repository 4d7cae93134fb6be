// googletrends — фетчер RSS Google Trends (trending/rss) с расширениями ht:.
package googletrends

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/pribylovaa/trends-service/internal/config"
	"github.com/pribylovaa/trends-service/internal/feeds"
	"github.com/pribylovaa/trends-service/internal/metrics"
	"github.com/pribylovaa/trends-service/internal/models"
	"github.com/pribylovaa/trends-service/pkg/log"
	"github.com/pribylovaa/trends-service/pkg/redact"
)

const (
	source = "google"
	// htPrefix — префикс пространства имён https://trends.google.com/trending/rss.
	htPrefix = "ht"
)

// Fetcher реализует service.TrendFetcher.
type Fetcher struct {
	client  *feeds.Client
	baseURL string
	geo     string
}

// New создаёт фетчер. geo из конфигурации используется, если в Fetch передан пустой.
func New(client *feeds.Client, fc config.FeedsConfig) *Fetcher {
	geo := fc.GoogleGeo
	if geo == "" {
		geo = "US"
	}

	return &Fetcher{client: client, baseURL: fc.GoogleTrendsURL, geo: geo}
}

// URL строит адрес ленты для региона: {base}?geo={geo}.
func (f *Fetcher) URL(geo string) string {
	if geo = strings.TrimSpace(geo); geo == "" {
		geo = f.geo
	}

	u, err := url.Parse(f.baseURL)
	if err != nil {
		return f.baseURL + "?geo=" + url.QueryEscape(geo)
	}

	q := u.Query()
	q.Set("geo", geo)
	u.RawQuery = q.Encode()

	return u.String()
}

// Fetch загружает и разбирает ленту региона geo.
// Две независимые точки отказа (загрузка и разбор) логируются отдельно
// (google_fetch_failed / google_parse_failed) и дают пустой срез.
func (f *Fetcher) Fetch(ctx context.Context, geo string) []models.GoogleTrendItem {
	const op = "googletrends.Fetch"

	lg := log.From(ctx)
	src := f.URL(geo)

	body, err := f.client.Get(ctx, src)
	if err != nil {
		kind := feeds.KindOf(err)
		metrics.FeedFailures.WithLabelValues(source, string(kind)).Inc()
		lg.Warn("google_fetch_failed",
			slog.String("op", op),
			slog.String("kind", string(kind)),
			slog.String("url", redact.URL(src)),
			slog.String("err", err.Error()),
		)
		return []models.GoogleTrendItem{}
	}

	items, err := Parse(body)
	if err != nil {
		metrics.FeedFailures.WithLabelValues(source, string(feeds.KindParse)).Inc()
		lg.Warn("google_parse_failed",
			slog.String("op", op),
			slog.String("url", redact.URL(src)),
			slog.String("err", err.Error()),
		)
		return []models.GoogleTrendItem{}
	}

	metrics.FeedItems.WithLabelValues(source).Add(float64(len(items)))
	lg.Info("google_fetched",
		slog.String("op", op),
		slog.String("geo", geo),
		slog.Int("items", len(items)),
	)

	return items
}

// Parse разбирает документ RSS в список GoogleTrendItem.
func Parse(body []byte) ([]models.GoogleTrendItem, error) {
	const op = "googletrends.Parse"

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.GoogleTrendItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		out = append(out, toItem(it))
	}

	return out, nil
}

func toItem(it *gofeed.Item) models.GoogleTrendItem {
	item := models.GoogleTrendItem{
		Topic:       strings.TrimSpace(it.Title),
		PublishedAt: publishedISO(it),
		Candidates:  []models.NewsCandidate{},
	}

	ht := it.Extensions[htPrefix]
	if ht == nil {
		return item
	}

	item.ApproxTraffic = firstValue(ht["approx_traffic"])

	for _, ni := range ht["news_item"] {
		item.AddCandidate(
			firstValue(ni.Children["news_item_title"]),
			firstValue(ni.Children["news_item_url"]),
			firstValue(ni.Children["news_item_source"]),
		)
	}

	return item
}

// publishedISO нормализует pubDate в RFC3339 UTC; "" — дата не распознана.
func publishedISO(it *gofeed.Item) string {
	if t, err := parsePubDate(it.Published); err == nil {
		return t.Format(time.RFC3339)
	}

	if it.PublishedParsed != nil {
		return it.PublishedParsed.UTC().Format(time.RFC3339)
	}

	return ""
}

func firstValue(exts []ext.Extension) string {
	if len(exts) == 0 {
		return ""
	}
	return strings.TrimSpace(exts[0].Value)
}

var errEmptyDate = errors.New("empty date")

// parsePubDate пробует набор популярных форматов и возвращает UTC-время.
// Значения без зоны трактуются как UTC, с зоной — переводятся в UTC.
func parsePubDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errEmptyDate
	}

	layouts := []string{
		time.RFC1123Z,                    // Mon, 02 Jan 2006 15:04:05 -0700
		time.RFC1123,                     // Mon, 02 Jan 2006 15:04:05 MST
		"Mon, 2 Jan 2006 15:04:05 -0700", // однозначный день
		"Mon, 02 Jan 06 15:04:05 -0700",  // двузначный год
		time.RFC822Z,                     // 02 Jan 06 15:04 -0700
		time.RFC822,                      // 02 Jan 06 15:04 MST
		time.RFC3339,                     // 2006-01-02T15:04:05Z07:00
		// Без зоны.
		"Mon, 02 Jan 2006 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}

	var lastErr error
	for _, l := range layouts {
		t, err := time.Parse(l, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}

	return time.Time{}, lastErr
}
