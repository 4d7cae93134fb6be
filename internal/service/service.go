// service содержит бизнес-логику trends-service: оркестрацию фетчеров,
// форматирования, рендера отчёта и загрузки в хранилище.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/trends-service/internal/config"
	"github.com/pribylovaa/trends-service/internal/models"
	"github.com/pribylovaa/trends-service/internal/report"
)

var (
	// ErrInvalidArgument — некорректные входные аргументы.
	// Транспорт: tool error result.
	ErrInvalidArgument = errors.New("invalid argument")
)

// TopicFetcher — источник социальной ленты.
// Реализация работает по fail soft: при ошибке — пустой срез, не nil-паника.
type TopicFetcher interface {
	Fetch(ctx context.Context, limit int) []models.TopicRecord
}

// TrendFetcher — источник поисковых трендов по региону.
// Пустой geo — регион по умолчанию из конфигурации.
type TrendFetcher interface {
	Fetch(ctx context.Context, geo string) []models.GoogleTrendItem
}

// ReportStore — загрузка готового PDF; возвращает публичный URL.
// Ошибки (storage.ErrMissingCredentials, *storage.ProviderError, ...)
// должны сохранять идентичность для errors.Is/As.
type ReportStore interface {
	UploadPDF(ctx context.Context, body []byte, key string, metadata map[string]string) (string, error)
}

// RenderFunc строит PDF по историям.
type RenderFunc func(items []models.TrendingItem, asOf string, now time.Time) ([]byte, error)

// Service — бизнес-логика trends-service. Без изменяемого состояния:
// безопасен для конкурентных вызовов.
type Service struct {
	topics TopicFetcher
	trends TrendFetcher
	store  ReportStore
	cfg    config.Config

	render RenderFunc
	now    func() time.Time
	newID  func() string
}

// Option настраивает Service (в основном для тестов).
type Option func(*Service)

// WithRenderer подменяет рендер отчёта.
func WithRenderer(r RenderFunc) Option { return func(s *Service) { s.render = r } }

// WithClock подменяет часы.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithIDGenerator подменяет генератор идентификаторов отчётов.
func WithIDGenerator(f func() string) Option { return func(s *Service) { s.newID = f } }

// New создает новый экземпляр Service.
func New(topics TopicFetcher, trends TrendFetcher, store ReportStore, cfg config.Config, opts ...Option) *Service {
	s := &Service{
		topics: topics,
		trends: trends,
		store:  store,
		cfg:    cfg,
		render: report.PDF,
		now:    time.Now,
		newID:  uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}
