package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/trends-service/internal/models"
)

func TestTopics_Empty(t *testing.T) {
	t.Parallel()
	require.Equal(t, "", Topics(nil))
	require.Equal(t, "", Topics([]models.TopicRecord{}))
}

func TestTopics_Render(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 9, 16, 9, 34, 56, 0, time.UTC)
	recs := []models.TopicRecord{
		models.NewTopicRecord("First", "short one", []string{"https://a/1", "https://a/2"}, &ts),
		models.NewTopicRecord("Second", "", nil, nil),
	}

	want := "**First**\n" +
		"*Tue, 16 Sep 2025 09:34 UTC*\n" +
		"\nshort one\n" +
		"\n- https://a/1\n- https://a/2" +
		Separator +
		"**Second**\n" +
		"*Unknown date*\n" +
		"\nNo links"

	require.Equal(t, want, Topics(recs))
}

func TestTopics_PreservesOrder(t *testing.T) {
	t.Parallel()

	recs := []models.TopicRecord{
		models.NewTopicRecord("c", "", nil, nil),
		models.NewTopicRecord("a", "", nil, nil),
		models.NewTopicRecord("b", "", nil, nil),
	}

	blocks := strings.Split(Topics(recs), Separator)
	require.Len(t, blocks, 3)
	require.True(t, strings.HasPrefix(blocks[0], "**c**"))
	require.True(t, strings.HasPrefix(blocks[1], "**a**"))
	require.True(t, strings.HasPrefix(blocks[2], "**b**"))
}

func TestTrendItems_Render(t *testing.T) {
	t.Parallel()

	items := []models.GoogleTrendItem{
		{
			Topic:         "world series",
			PublishedAt:   "2025-09-16T19:34:56Z",
			ApproxTraffic: "500K+",
			Candidates: []models.NewsCandidate{
				{Title: "Game 1 recap", URL: "https://news.example/game1", Source: "Example News"},
				{Title: "Odds", URL: "https://sports.example/odds"},
			},
		},
		{Topic: "quiet topic"},
	}

	want := "## World Series\n" +
		"Published at: Tue, 16 Sep 2025 19:34 UTC\n" +
		"Approximate traffic: 500K+\n" +
		"Articles:\n" +
		"- Game 1 recap (Example News)\n  https://news.example/game1\n" +
		"- Odds\n  https://sports.example/odds" +
		Separator +
		"## Quiet Topic\n" +
		"Published at: Unknown date\n" +
		"Approximate traffic: N/A\n" +
		"Articles:\n" +
		"No articles found"

	require.Equal(t, want, TrendItems(items))
	require.Equal(t, "", TrendItems(nil))
}

func TestPrettyISO(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Unknown date", PrettyISO(""))
	require.Equal(t, "Tue, 16 Sep 2025 09:34 UTC", PrettyISO("2025-09-16T12:34:56+03:00"))
	require.Equal(t, "garbage", PrettyISO("garbage"))
}
