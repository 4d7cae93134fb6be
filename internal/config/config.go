// config предоставляет структуру конфигурации trends-service
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
//
// ENV перекрывает значения из YAML (поведение cleanenv.ReadConfig).
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	GRPC     GRPCConfig    `yaml:"grpc"`
	Feeds    FeedsConfig   `yaml:"feeds"`
	Limits   LimitsConfig  `yaml:"limits"`
	Storage  StorageConfig `yaml:"storage"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// HTTPConfig — HTTP-сервер с MCP-эндпоинтом, health и /metrics.
type HTTPConfig struct {
	Host    string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port    string `yaml:"port" env:"HTTP_PORT" env-default:"8000"`
	MCPPath string `yaml:"mcp_path" env:"MCP_PATH" env-default:"/mcp"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// GRPCConfig — admin gRPC-сервер (health-check, reflection).
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50061"`
}

// Addr возвращает адрес в формате host:port.
func (g GRPCConfig) Addr() string {
	return net.JoinHostPort(g.Host, g.Port)
}

// FeedsConfig — внешние источники трендов.
type FeedsConfig struct {
	RedditURL       string `yaml:"reddit_url" env:"REDDIT_FEED_URL" env-default:"https://www.reddit.com/discover.rss"`
	GoogleTrendsURL string `yaml:"google_trends_url" env:"GOOGLE_TRENDS_URL" env-default:"https://trends.google.com/trending/rss"`
	GoogleGeo       string `yaml:"google_geo" env:"GOOGLE_TRENDS_GEO" env-default:"US"`
	UserAgent       string `yaml:"user_agent" env:"USER_AGENT" env-default:"Mozilla/5.0 (compatible; trends-service/1.0)"`
	// Timeout — единый таймаут HTTP-запроса к любому источнику.
	Timeout time.Duration `yaml:"timeout" env:"FETCH_TIMEOUT" env-default:"15s"`
}

// LimitsConfig — ограничения на количество записей в дайджесте.
type LimitsConfig struct {
	// Применяется при limit <= 0.
	Default int `yaml:"default" env:"DEFAULT_LIMIT" env-default:"10"`
	// Верхняя граница для limit.
	Max int `yaml:"max" env:"MAX_LIMIT" env-default:"50"`
}

// StorageConfig — S3-совместимое хранилище для PDF-отчётов (Spaces/S3/MinIO).
//
// Bucket не обязателен на этапе загрузки конфига: без него работают текстовые
// инструменты, а инструменты отчётов вернут ошибку конфигурации.
type StorageConfig struct {
	Bucket      string `yaml:"bucket" env:"SPACES_BUCKET"`
	CDNBaseURL  string `yaml:"cdn_base_url" env:"SPACES_CDN_BASE_URL"`
	EndpointURL string `yaml:"endpoint_url" env:"SPACES_ENDPOINT_URL"`
	Region      string `yaml:"region" env:"SPACES_REGION"`

	AccessKey    string `yaml:"access_key" env:"SPACES_KEY"`
	SecretKey    string `yaml:"secret_key" env:"SPACES_SECRET"`
	AWSAccessKey string `yaml:"-" env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey string `yaml:"-" env:"AWS_SECRET_ACCESS_KEY"`
}

// Credentials возвращает пару ключей: сначала SPACES_*, затем AWS_*.
// Пара берётся только целиком; ok=false — ключи не заданы.
func (s StorageConfig) Credentials() (accessKey, secretKey string, ok bool) {
	if s.AccessKey != "" && s.SecretKey != "" {
		return s.AccessKey, s.SecretKey, true
	}

	if s.AWSAccessKey != "" && s.AWSSecretKey != "" {
		return s.AWSAccessKey, s.AWSSecretKey, true
	}

	return "", "", false
}

// Merge возвращает копию, в которой непустые поля explicit перекрывают текущие.
// Так явные аргументы конструктора uploader'а побеждают значения из окружения.
func (s StorageConfig) Merge(explicit StorageConfig) StorageConfig {
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	out := s
	pick(&out.Bucket, explicit.Bucket)
	pick(&out.CDNBaseURL, explicit.CDNBaseURL)
	pick(&out.EndpointURL, explicit.EndpointURL)
	pick(&out.Region, explicit.Region)
	pick(&out.AccessKey, explicit.AccessKey)
	pick(&out.SecretKey, explicit.SecretKey)
	pick(&out.AWSAccessKey, explicit.AWSAccessKey)
	pick(&out.AWSSecretKey, explicit.AWSSecretKey)

	return out
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	// Service — дедлайн на один вызов инструмента (POST /mcp).
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"60s"`
	// Admin — дедлайн вызова admin gRPC (health), если клиент не задал свой.
	Admin time.Duration `yaml:"admin" env:"ADMIN_TIMEOUT" env-default:"5s"`
	// Shutdown — время на graceful shutdown.
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// localFile — конфиг в рабочей директории для локального запуска.
const localFile = "local.yaml"

// Load загружает конфигурацию: файл выбирается через configFile,
// без файла читаются только переменные окружения.
func Load(path string) (*Config, error) {
	var cfg Config

	if file := configFile(path); file != "" {
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", file)
		}
		if err := cleanenv.ReadConfig(file, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// configFile выбирает файл по приоритету: явный путь, CONFIG_PATH, ./local.yaml.
// Пустая строка — файла нет, конфигурация только из ENV.
func configFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if _, err := os.Stat(localFile); err == nil {
		return localFile
	}
	return ""
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.Limits.Default <= 0 {
		return fmt.Errorf("limits.default must be > 0")
	}
	if c.Limits.Max <= 0 {
		return fmt.Errorf("limits.max must be > 0")
	}
	if c.Limits.Default > c.Limits.Max {
		return fmt.Errorf("limits.default must be <= limits.max")
	}
	if c.Feeds.Timeout <= 0 {
		return fmt.Errorf("feeds.timeout must be > 0")
	}
	if c.Feeds.GoogleGeo == "" {
		return fmt.Errorf("feeds.google_geo is required")
	}
	for name, raw := range map[string]string{
		"feeds.reddit_url":        c.Feeds.RedditURL,
		"feeds.google_trends_url": c.Feeds.GoogleTrendsURL,
	} {
		if !isHTTPURL(raw) {
			return fmt.Errorf("%s must be an absolute http(s) URL", name)
		}
	}
	if c.Storage.EndpointURL != "" && !isHTTPURL(c.Storage.EndpointURL) {
		return fmt.Errorf("storage.endpoint_url must be an absolute http(s) URL")
	}
	if c.Storage.CDNBaseURL != "" && !isHTTPURL(c.Storage.CDNBaseURL) {
		return fmt.Errorf("storage.cdn_base_url must be an absolute http(s) URL")
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
