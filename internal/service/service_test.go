package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/trends-service/internal/config"
	"github.com/pribylovaa/trends-service/internal/format"
	"github.com/pribylovaa/trends-service/internal/models"
	"github.com/pribylovaa/trends-service/internal/storage"
	"github.com/pribylovaa/trends-service/mocks"
)

var fixedNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testConfig() config.Config {
	return config.Config{
		Feeds:  config.FeedsConfig{GoogleGeo: "US"},
		Limits: config.LimitsConfig{Default: 10, Max: 50},
	}
}

type deps struct {
	topics *mocks.MockTopicFetcher
	trends *mocks.MockTrendFetcher
	store  *mocks.MockReportStore
}

func newService(t *testing.T, opts ...Option) (*Service, deps) {
	t.Helper()

	ctrl := gomock.NewController(t)
	d := deps{
		topics: mocks.NewMockTopicFetcher(ctrl),
		trends: mocks.NewMockTrendFetcher(ctrl),
		store:  mocks.NewMockReportStore(ctrl),
	}

	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "rep-1" }),
	}

	return New(d.topics, d.trends, d.store, testConfig(), append(base, opts...)...), d
}

func mkTrending(t *testing.T, n int) []models.TrendingItem {
	t.Helper()

	out := make([]models.TrendingItem, 0, n)
	for i := 0; i < n; i++ {
		it, err := models.NewTrendingItem(models.TrendingInput{Title: fmt.Sprintf("S%d", i), Category: "POLITICS"})
		require.NoError(t, err)
		out = append(out, it)
	}
	return out
}

func TestRedditDigest_DefaultLimit(t *testing.T) {
	t.Parallel()

	svc, d := newService(t)

	recs := []models.TopicRecord{models.NewTopicRecord("A", "", nil, nil)}
	d.topics.EXPECT().Fetch(gomock.Any(), 10).Return(recs)

	require.Equal(t, format.Topics(recs), svc.RedditDigest(context.Background(), 0))
}

func TestRedditDigest_ClampsAndTruncates(t *testing.T) {
	t.Parallel()

	svc, d := newService(t)

	recs := make([]models.TopicRecord, 0, 60)
	for i := 0; i < 60; i++ {
		recs = append(recs, models.NewTopicRecord(fmt.Sprintf("T%d", i), "", nil, nil))
	}
	d.topics.EXPECT().Fetch(gomock.Any(), 50).Return(recs)

	out := svc.RedditDigest(context.Background(), 1000)
	require.Len(t, strings.Split(out, format.Separator), 50)
}

// TestRedditDigest_EmptyFeed — fail soft фетчера превращается в пустую строку.
func TestRedditDigest_EmptyFeed(t *testing.T) {
	t.Parallel()

	svc, d := newService(t)
	d.topics.EXPECT().Fetch(gomock.Any(), 3).Return([]models.TopicRecord{})

	require.Equal(t, "", svc.RedditDigest(context.Background(), 3))
}

func TestGoogleDigest_DefaultGeoAndLimit(t *testing.T) {
	t.Parallel()

	svc, d := newService(t)

	items := []models.GoogleTrendItem{{Topic: "a"}, {Topic: "b"}, {Topic: "c"}}
	d.trends.EXPECT().Fetch(gomock.Any(), "US").Return(items)

	out := svc.GoogleDigest(context.Background(), 2, "")
	require.Equal(t, format.TrendItems(items[:2]), out)
}

func TestGoogleDigest_ExplicitGeo(t *testing.T) {
	t.Parallel()

	svc, d := newService(t)
	d.trends.EXPECT().Fetch(gomock.Any(), "DE").Return(nil)

	require.Equal(t, "", svc.GoogleDigest(context.Background(), 5, "DE"))
}

func TestCreateReport_OK(t *testing.T) {
	t.Parallel()

	var gotAsOf string
	var gotNow time.Time
	svc, d := newService(t, WithRenderer(func(items []models.TrendingItem, asOf string, now time.Time) ([]byte, error) {
		gotAsOf, gotNow = asOf, now
		return []byte("%PDF-fake"), nil
	}))

	d.store.EXPECT().
		UploadPDF(gomock.Any(), []byte("%PDF-fake"), "", map[string]string{
			"generator": "trends-service",
			"report-id": "rep-1",
			"items":     "2",
			"as-of":     "2024-01-01T00:00:00Z",
		}).
		Return("https://cdn.x/trending-news/20240101_000000.pdf", nil)

	url, err := svc.CreateReport(context.Background(), models.ReportRequest{
		AsOf:     "2024-01-01T00:00:00Z",
		Trending: mkTrending(t, 2),
	})
	require.NoError(t, err)
	require.Equal(t, "https://cdn.x/trending-news/20240101_000000.pdf", url)
	require.Equal(t, "2024-01-01T00:00:00Z", gotAsOf)
	require.Equal(t, fixedNow, gotNow)
}

// TestCreateReport_RealRenderer — по умолчанию в хранилище уходит настоящий PDF.
func TestCreateReport_RealRenderer(t *testing.T) {
	t.Parallel()

	svc, d := newService(t)

	d.store.EXPECT().
		UploadPDF(gomock.Any(), gomock.Any(), "", gomock.Any()).
		DoAndReturn(func(_ context.Context, body []byte, _ string, meta map[string]string) (string, error) {
			require.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
			require.NotContains(t, meta, "as-of")
			return "https://b.s3.amazonaws.com/k.pdf", nil
		})

	_, err := svc.CreateReport(context.Background(), models.ReportRequest{Trending: mkTrending(t, 4)})
	require.NoError(t, err)
}

func TestCreateReport_Empty(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)

	_, err := svc.CreateReport(context.Background(), models.ReportRequest{})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateReport_RenderError_NoUpload(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	svc, _ := newService(t, WithRenderer(func([]models.TrendingItem, string, time.Time) ([]byte, error) {
		return nil, boom
	}))

	_, err := svc.CreateReport(context.Background(), models.ReportRequest{Trending: mkTrending(t, 1)})
	require.ErrorIs(t, err, boom)
}

// TestCreateReport_StorageErrorsKeepIdentity — fail loud с сохранением вида ошибки.
func TestCreateReport_StorageErrorsKeepIdentity(t *testing.T) {
	t.Parallel()

	t.Run("missing_credentials", func(t *testing.T) {
		t.Parallel()

		svc, d := newService(t)
		d.store.EXPECT().UploadPDF(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", fmt.Errorf("storage/minio/Upload: %w", storage.ErrMissingCredentials))

		_, err := svc.CreateReport(context.Background(), models.ReportRequest{Trending: mkTrending(t, 1)})
		require.ErrorIs(t, err, storage.ErrMissingCredentials)
	})

	t.Run("provider", func(t *testing.T) {
		t.Parallel()

		svc, d := newService(t)
		d.store.EXPECT().UploadPDF(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", &storage.ProviderError{Code: "NoSuchBucket", Message: "gone", StatusCode: 404})

		_, err := svc.CreateReport(context.Background(), models.ReportRequest{Trending: mkTrending(t, 1)})

		var pe *storage.ProviderError
		require.ErrorAs(t, err, &pe)
		require.Equal(t, "NoSuchBucket", pe.Code)
	})
}

func TestHeaderSafe(t *testing.T) {
	t.Parallel()

	require.Equal(t, "2024-01-01", headerSafe(" 2024-01-01\n"))
	require.Equal(t, "caf", headerSafe("café"))
	require.Equal(t, "", headerSafe(""))
}
