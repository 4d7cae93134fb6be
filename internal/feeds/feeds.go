// feeds — общий HTTP-слой для внешних лент трендов.
//
// Фетчеры (reddit, googletrends) работают по политике fail soft: ошибки
// сети, статуса и парсинга не уходят вызывающему, а логируются и считаются
// в метриках. Здесь собраны общие части: клиент с заголовками, типизированная
// ошибка загрузки и нормализация limit.
package feeds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pribylovaa/trends-service/pkg/redact"
)

// DefaultTimeout — таймаут HTTP-клиента по умолчанию для всех источников.
const DefaultTimeout = 15 * time.Second

// maxBodySize — предел чтения тела ответа ленты.
const maxBodySize = 8 << 20

// Kind — класс ошибки загрузки ленты.
type Kind string

const (
	KindRequest Kind = "request"
	KindStatus  Kind = "status"
	KindParse   Kind = "parse"
)

// ErrEmptyURL — не задан адрес ленты.
var ErrEmptyURL = errors.New("empty feed url")

// FetchError — ошибка загрузки/разбора ленты с указанием класса.
type FetchError struct {
	Kind       Kind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("feed %s: %s: unexpected status %d", redact.URL(e.URL), e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("feed %s: %s: %v", redact.URL(e.URL), e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// KindOf возвращает класс ошибки или KindRequest для прочих ошибок.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindRequest
}

// Client — HTTP-клиент для лент. Таймаут задаётся извне через http.Client,
// отмена — через ctx.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient создаёт клиент. nil — http.Client с DefaultTimeout.
func NewClient(httpClient *http.Client, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{http: httpClient, userAgent: userAgent}
}

// Get загружает документ ленты и возвращает тело ответа.
// Любой статус, кроме 200, — FetchError{Kind: KindStatus}.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	const op = "feeds.Get"

	if rawURL == "" {
		return nil, fmt.Errorf("%s: %w", op, &FetchError{Kind: KindRequest, Err: ErrEmptyURL})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, &FetchError{Kind: KindRequest, URL: rawURL, Err: err})
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, &FetchError{Kind: KindRequest, URL: rawURL, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: %w", op, &FetchError{Kind: KindStatus, URL: rawURL, StatusCode: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, &FetchError{Kind: KindRequest, URL: rawURL, Err: err})
	}

	return body, nil
}

// ClampLimit нормализует limit: <= 0 -> defLimit, > maxLimit -> maxLimit.
func ClampLimit(limit, defLimit, maxLimit int) int {
	if limit <= 0 {
		limit = defLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return limit
}
