package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mclient "github.com/minio/minio-go/v7"

	"github.com/pribylovaa/trends-service/internal/config"
	"github.com/pribylovaa/trends-service/internal/metrics"
	"github.com/pribylovaa/trends-service/internal/storage"
	"github.com/pribylovaa/trends-service/pkg/log"
)

const (
	ContentTypePDF = "application/pdf"

	keyPrefix = "trending-news/"
	keyLayout = "20060102_150405"
)

// Upload кладёт body одним PUT (объект появляется целиком или не появляется)
// с публичным чтением и возвращает публичный URL.
func (u *Uploader) Upload(ctx context.Context, body []byte, key, contentType string, metadata map[string]string) (string, error) {
	const op = "storage/minio/Upload"

	key = ObjectKey(key, u.now())

	v, err := u.creds.Get()
	if err != nil || v.AccessKeyID == "" {
		metrics.UploadFailures.WithLabelValues("credentials").Inc()
		return "", fmt.Errorf("%s: %w", op, storage.ErrMissingCredentials)
	}

	meta := make(map[string]string, len(metadata)+1)
	for k, val := range metadata {
		meta[k] = val
	}
	meta["x-amz-acl"] = "public-read"

	info, err := u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(body), int64(len(body)), mclient.PutObjectOptions{
		ContentType:      contentType,
		UserMetadata:     meta,
		DisableMultipart: true,
	})
	if err != nil {
		if pe := toProviderError(err); pe != nil {
			metrics.UploadFailures.WithLabelValues("provider").Inc()
			return "", fmt.Errorf("%s: %w", op, pe)
		}
		metrics.UploadFailures.WithLabelValues("transport").Inc()
		return "", fmt.Errorf("%s: %w: %w", op, storage.ErrUploadFailed, err)
	}

	public := u.PublicURL(key)

	log.From(ctx).Info("report_uploaded",
		slog.String("op", op),
		slog.String("bucket", u.bucket),
		slog.String("key", key),
		slog.Int64("size", info.Size),
		slog.String("url", public),
	)

	return public, nil
}

// UploadPDF — Upload с Content-Type application/pdf.
func (u *Uploader) UploadPDF(ctx context.Context, body []byte, key string, metadata map[string]string) (string, error) {
	return u.Upload(ctx, body, key, ContentTypePDF, metadata)
}

// PublicURL строит адрес объекта по настройкам загрузчика.
func (u *Uploader) PublicURL(key string) string {
	return publicURL(u.bucket, u.cdnBaseURL, u.endpointHost, key)
}

// ResolvePublicURL строит адрес объекта прямо по настройкам хранилища,
// без создания клиента. Битый endpoint считается отсутствующим.
func ResolvePublicURL(cfg config.StorageConfig, key string) string {
	var host string
	if cfg.EndpointURL != "" {
		if h, _, err := parseEndpoint(cfg.EndpointURL); err == nil {
			host = h
		}
	}
	return publicURL(cfg.Bucket, strings.TrimRight(cfg.CDNBaseURL, "/"), host, key)
}

// publicURL: CDN + "/" + key; иначе https://{bucket}.{endpoint-host}/{key};
// иначе https://{bucket}.s3.amazonaws.com/{key}.
func publicURL(bucket, cdnBaseURL, endpointHost, key string) string {
	switch {
	case cdnBaseURL != "":
		return cdnBaseURL + "/" + key
	case endpointHost != "":
		return "https://" + bucket + "." + endpointHost + "/" + key
	default:
		return "https://" + bucket + "." + defaultEndpoint + "/" + key
	}
}

// ObjectKey убирает ведущие "/" из key; пустой key заменяется на
// trending-news/{YYYYMMDD_HHMMSS}.pdf по времени now в UTC.
func ObjectKey(key string, now time.Time) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return keyPrefix + now.UTC().Format(keyLayout) + ".pdf"
	}
	return key
}

// toProviderError возвращает ошибку провайдера или nil, если ответа не было.
func toProviderError(err error) *storage.ProviderError {
	er := mclient.ToErrorResponse(err)
	if er.Code == "" && !errors.As(err, &er) {
		return nil
	}
	if er.Code == "" {
		return nil
	}

	return &storage.ProviderError{
		Code:       er.Code,
		Message:    er.Message,
		StatusCode: er.StatusCode,
	}
}
