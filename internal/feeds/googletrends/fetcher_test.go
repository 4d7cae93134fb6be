package googletrends

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/trends-service/internal/config"
	"github.com/pribylovaa/trends-service/internal/feeds"
	"github.com/pribylovaa/trends-service/pkg/log"
)

// capHandler — минимальный slog.Handler: сообщения и атрибуты последней записи.
type capHandler struct {
	mu    sync.Mutex
	msgs  []string
	attrs map[string]any
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, r.Message)
	h.attrs = map[string]any{}
	r.Attrs(func(a slog.Attr) bool {
		h.attrs[a.Key] = a.Value.Any()
		return true
	})
	return nil
}

func (h *capHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *capHandler) WithGroup(string) slog.Handler      { return h }

// mkRSS — документ trending/rss с пространством имён ht.
func mkRSS(items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom" xmlns:ht="https://trends.google.com/trending/rss">
  <channel>
    <title>Daily Search Trends</title>
    ` + strings.Join(items, "\n") + `
  </channel>
</rss>`
}

const sampleItem = `<item>
  <title>world series</title>
  <ht:approx_traffic>500K+</ht:approx_traffic>
  <pubDate>Tue, 16 Sep 2025 12:34:56 -0700</pubDate>
  <ht:news_item>
    <ht:news_item_title>Game 1 recap</ht:news_item_title>
    <ht:news_item_url>https://news.example/game1</ht:news_item_url>
    <ht:news_item_source>Example News</ht:news_item_source>
  </ht:news_item>
  <ht:news_item>
    <ht:news_item_title>No url here</ht:news_item_title>
    <ht:news_item_url></ht:news_item_url>
    <ht:news_item_source>Ghost</ht:news_item_source>
  </ht:news_item>
  <ht:news_item>
    <ht:news_item_title>Odds &amp; ends</ht:news_item_title>
    <ht:news_item_url>https://sports.example/odds?a=1&amp;b=2</ht:news_item_url>
    <ht:news_item_source>Sports</ht:news_item_source>
  </ht:news_item>
</item>`

func newFetcher(t *testing.T, h http.HandlerFunc) *Fetcher {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return New(
		feeds.NewClient(&http.Client{Timeout: 2 * time.Second}, "trends-test/1.0"),
		config.FeedsConfig{GoogleTrendsURL: srv.URL + "/trending/rss", GoogleGeo: "US"},
	)
}

func serve(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}
}

func TestParsePubDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"Tue, 16 Sep 2025 12:34:56 +0300", time.Date(2025, 9, 16, 9, 34, 56, 0, time.UTC), true},
		{"Tue, 16 Sep 2025 12:34:56 -0700", time.Date(2025, 9, 16, 19, 34, 56, 0, time.UTC), true},
		{"Tue, 16 Sep 2025 12:34:56 GMT", time.Date(2025, 9, 16, 12, 34, 56, 0, time.UTC), true},
		{"2025-09-16T12:34:56+03:00", time.Date(2025, 9, 16, 9, 34, 56, 0, time.UTC), true},
		// Без зоны — считается UTC.
		{"2025-09-16T12:34:56", time.Date(2025, 9, 16, 12, 34, 56, 0, time.UTC), true},
		{"2025-09-16 12:34:56", time.Date(2025, 9, 16, 12, 34, 56, 0, time.UTC), true},
		{"Tue, 16 Sep 2025 12:34:56", time.Date(2025, 9, 16, 12, 34, 56, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday-ish", time.Time{}, false},
	}

	for _, c := range cases {
		got, err := parsePubDate(c.in)
		if !c.ok {
			require.Error(t, err, c.in)
			continue
		}
		require.NoError(t, err, c.in)
		require.True(t, got.Equal(c.want), "in=%q got=%s want=%s", c.in, got, c.want)
		require.Equal(t, time.UTC, got.Location())
	}
}

func TestFetcher_URL(t *testing.T) {
	t.Parallel()

	f := New(nil, config.FeedsConfig{GoogleTrendsURL: "https://trends.google.com/trending/rss", GoogleGeo: "GB"})

	require.Equal(t, "https://trends.google.com/trending/rss?geo=GB", f.URL(""))
	require.Equal(t, "https://trends.google.com/trending/rss?geo=US", f.URL("US"))

	u, err := url.Parse(f.URL("a b&c"))
	require.NoError(t, err)
	require.Equal(t, "a b&c", u.Query().Get("geo"))
}

func TestFetch_HappyPath(t *testing.T) {
	t.Parallel()

	queries := make(chan url.Values, 1)
	f := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.Query()
		serve(mkRSS(sampleItem))(w, r)
	})

	got := f.Fetch(context.Background(), "CA")
	require.Equal(t, "CA", (<-queries).Get("geo"))
	require.Len(t, got, 1)

	it := got[0]
	require.Equal(t, "world series", it.Topic)
	require.Equal(t, "500K+", it.ApproxTraffic)
	require.Equal(t, "2025-09-16T19:34:56Z", it.PublishedAt)

	// Кандидат без URL отброшен.
	require.Len(t, it.Candidates, 2)
	require.Equal(t, "Game 1 recap", it.Candidates[0].Title)
	require.Equal(t, "https://news.example/game1", it.Candidates[0].URL)
	require.Equal(t, "Example News", it.Candidates[0].Source)
	require.Equal(t, "Odds & ends", it.Candidates[1].Title)
	require.Equal(t, "https://sports.example/odds?a=1&b=2", it.Candidates[1].URL)
	for _, c := range it.Candidates {
		require.NotEmpty(t, c.URL)
	}
}

func TestParse_NaiveDateIsUTC_AndMissingExtensions(t *testing.T) {
	t.Parallel()

	items, err := Parse([]byte(mkRSS(
		`<item><title>naive</title><pubDate>2025-01-02T03:04:05</pubDate></item>`,
		`<item><title>broken date</title><pubDate>not a date</pubDate></item>`,
	)))
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.Equal(t, "2025-01-02T03:04:05Z", items[0].PublishedAt)
	require.Equal(t, "", items[0].ApproxTraffic)
	require.NotNil(t, items[0].Candidates)
	require.Empty(t, items[0].Candidates)

	require.Equal(t, "", items[1].PublishedAt)
}

// TestFetch_FailSoft — загрузка и разбор логируются раздельно.
func TestFetch_FailSoft(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		h    http.HandlerFunc
		msg  string
	}{
		{"status_503", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) }, "google_fetch_failed"},
		{"not_xml", serve("<<<<"), "google_parse_failed"},
		{"html_page", serve("<html><body>captcha</body></html>"), "google_parse_failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := &capHandler{}
			ctx := log.Into(context.Background(), slog.New(h))

			got := newFetcher(t, tc.h).Fetch(ctx, "")
			require.NotNil(t, got)
			require.Empty(t, got)
			require.Contains(t, h.msgs, tc.msg)
		})
	}
}

// TestFetch_Timeout — медленный источник упирается в таймаут клиента.
func TestFetch_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	f := New(
		feeds.NewClient(&http.Client{Timeout: 50 * time.Millisecond}, ""),
		config.FeedsConfig{GoogleTrendsURL: srv.URL},
	)

	h := &capHandler{}
	ctx := log.Into(context.Background(), slog.New(h))

	require.Empty(t, f.Fetch(ctx, "US"))
	require.Contains(t, h.msgs, "google_fetch_failed")
	require.Equal(t, "request", h.attrs["kind"])
}
