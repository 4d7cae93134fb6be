// minio реализует storage.Uploader поверх minio-go (DigitalOcean Spaces, AWS S3, MinIO).
// minio.go — конструктор: разрешает настройки один раз, без сетевых вызовов.
// upload.go — загрузка объекта и построение публичного URL.
package minio

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/s3utils"

	"github.com/pribylovaa/trends-service/internal/config"
	"github.com/pribylovaa/trends-service/internal/storage"
)

const (
	defaultEndpoint = "s3.amazonaws.com"
	defaultRegion   = "us-east-1"

	// maxRetries — одна попытка: загрузка не повторяется ни на каком уровне.
	maxRetries = 1
	// iamTimeout ограничивает обращение к metadata-эндпоинту IAM.
	iamTimeout = 2 * time.Second
)

// Uploader — адаптер minio-go для загрузки отчётов.
type Uploader struct {
	client *mclient.Client
	creds  *credentials.Credentials

	bucket       string
	cdnBaseURL   string
	endpointHost string

	now func() time.Time
}

type options struct {
	explicit  config.StorageConfig
	creds     *credentials.Credentials
	transport http.RoundTripper
	now       func() time.Time
}

// Option настраивает Uploader.
type Option func(*options)

// WithExplicit задаёт явные настройки; их непустые поля важнее окружения.
func WithExplicit(s config.StorageConfig) Option {
	return func(o *options) { o.explicit = s }
}

// WithCredentials подменяет цепочку поиска ключей.
func WithCredentials(c *credentials.Credentials) Option {
	return func(o *options) { o.creds = c }
}

// WithTransport задаёт HTTP-транспорт клиента.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithClock задаёт часы для генерации ключей.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New разрешает настройки и создаёт клиент.
// Пустой или недопустимый для S3 бакет, битый endpoint — storage.ErrInvalidConfig
// до любого сетевого вызова.
func New(env config.StorageConfig, opts ...Option) (*Uploader, error) {
	const op = "storage/minio/New"

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := env.Merge(o.explicit)

	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("%s: %w: bucket is required (SPACES_BUCKET)", op, storage.ErrInvalidConfig)
	}
	if err := s3utils.CheckValidBucketName(cfg.Bucket); err != nil {
		return nil, fmt.Errorf("%s: %w: bucket %q: %v", op, storage.ErrInvalidConfig, cfg.Bucket, err)
	}

	endpoint, secure, err := parseEndpoint(cfg.EndpointURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: endpoint: %v", op, storage.ErrInvalidConfig, err)
	}

	creds := o.creds
	if creds == nil {
		creds = resolveCredentials(cfg)
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:      creds,
		Secure:     secure,
		Region:     region,
		Transport:  o.transport,
		MaxRetries: maxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, storage.ErrInvalidConfig, err)
	}

	u := &Uploader{
		client:     client,
		creds:      creds,
		bucket:     cfg.Bucket,
		cdnBaseURL: strings.TrimRight(cfg.CDNBaseURL, "/"),
		now:        o.now,
	}
	if cfg.EndpointURL != "" {
		u.endpointHost = endpoint
	}

	return u, nil
}

// parseEndpoint убирает схему из endpoint и подбирает Secure по ней.
// Пустой endpoint — AWS S3 по HTTPS.
func parseEndpoint(raw string) (host string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultEndpoint, true, nil
	}

	if !strings.Contains(raw, "://") {
		return strings.TrimRight(raw, "/"), true, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false, err
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("endpoint %q has no host", raw)
	}

	return u.Host, u.Scheme == "https", nil
}

// resolveCredentials: SPACES_* -> AWS_* -> окружение/файлы/IAM через цепочку minio-go.
func resolveCredentials(cfg config.StorageConfig) *credentials.Credentials {
	if ak, sk, ok := cfg.Credentials(); ok {
		return credentials.NewStaticV4(ak, sk, "")
	}

	return credentials.NewChainCredentials(credentialChain())
}

// credentialChain — провайдеры ключей без явной пары в конфиге.
// IAM опрашивается с коротким таймаутом: вне облака metadata-эндпоинт не отвечает.
func credentialChain() []credentials.Provider {
	return []credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.EnvMinio{},
		&credentials.FileAWSCredentials{},
		&credentials.IAM{Client: &http.Client{Transport: http.DefaultTransport, Timeout: iamTimeout}},
	}
}

var _ storage.Uploader = (*Uploader)(nil)
