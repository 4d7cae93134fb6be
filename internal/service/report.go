package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pribylovaa/trends-service/internal/metrics"
	"github.com/pribylovaa/trends-service/internal/models"
	"github.com/pribylovaa/trends-service/pkg/log"
)

const generator = "trends-service"

// CreateReport рендерит PDF по историям и загружает его в хранилище.
// Возвращает публичный URL. Вход уже провалидирован (models.NewTrendingItem);
// пустой список историй — ErrInvalidArgument. Ошибки хранилища
// оборачиваются с сохранением идентичности.
func (s *Service) CreateReport(ctx context.Context, req models.ReportRequest) (string, error) {
	const op = "service/report/CreateReport"

	if len(req.Trending) == 0 {
		return "", fmt.Errorf("%s: %w: trending must not be empty", op, ErrInvalidArgument)
	}

	id := s.newID()
	ctx, lg := log.With(ctx, slog.String("report_id", id))

	body, err := s.render(req.Trending, req.AsOf, s.now())
	if err != nil {
		return "", fmt.Errorf("%s: render: %w", op, err)
	}
	metrics.ReportBytes.Observe(float64(len(body)))

	meta := map[string]string{
		"generator": generator,
		"report-id": id,
		"items":     strconv.Itoa(len(req.Trending)),
	}
	if asOf := headerSafe(req.AsOf); asOf != "" {
		meta["as-of"] = asOf
	}

	url, err := s.store.UploadPDF(ctx, body, "", meta)
	if err != nil {
		lg.Error("report_upload_failed",
			slog.String("op", op),
			slog.Int("size", len(body)),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: upload: %w", op, err)
	}

	lg.Info("report_created",
		slog.String("op", op),
		slog.Int("items", len(req.Trending)),
		slog.Int("size", len(body)),
		slog.String("url", url),
	)

	return url, nil
}

// headerSafe оставляет только печатный ASCII: значение уходит в x-amz-meta-*.
func headerSafe(v string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return -1
		}
		return r
	}, v))
}
