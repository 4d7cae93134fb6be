package service

import (
	"context"
	"log/slog"

	"github.com/pribylovaa/trends-service/internal/feeds"
	"github.com/pribylovaa/trends-service/internal/format"
	"github.com/pribylovaa/trends-service/pkg/log"
)

// RedditDigest возвращает текстовый дайджест социальной ленты.
// Ошибки источника скрыты фетчером: пустая лента — пустая строка.
func (s *Service) RedditDigest(ctx context.Context, limit int) string {
	const op = "service/digest/RedditDigest"

	limit = s.clamp(limit)
	records := s.topics.Fetch(ctx, limit)
	if len(records) > limit {
		records = records[:limit]
	}

	log.From(ctx).Info("reddit_digest",
		slog.String("op", op),
		slog.Int("limit", limit),
		slog.Int("records", len(records)),
	)

	return format.Topics(records)
}

// GoogleDigest возвращает текстовый дайджест Google Trends для региона geo
// (пустой — из конфигурации), не более limit тем.
func (s *Service) GoogleDigest(ctx context.Context, limit int, geo string) string {
	const op = "service/digest/GoogleDigest"

	if geo == "" {
		geo = s.cfg.Feeds.GoogleGeo
	}

	limit = s.clamp(limit)
	items := s.trends.Fetch(ctx, geo)
	if len(items) > limit {
		items = items[:limit]
	}

	log.From(ctx).Info("google_digest",
		slog.String("op", op),
		slog.String("geo", geo),
		slog.Int("limit", limit),
		slog.Int("items", len(items)),
	)

	return format.TrendItems(items)
}

func (s *Service) clamp(limit int) int {
	def, maxLimit := s.cfg.Limits.Default, s.cfg.Limits.Max
	if def <= 0 {
		def = 10
	}
	return feeds.ClampLimit(limit, def, maxLimit)
}
