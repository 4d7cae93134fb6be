// storage — контракт загрузки отчётов в объектное хранилище
// и различимые виды ошибок.
//
// В отличие от фетчеров, хранилище работает по политике fail loud:
// каждая ошибка доходит до вызывающего.
package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig — не задан бакет или некорректны настройки.
	ErrInvalidConfig = errors.New("invalid storage config")
	// ErrMissingCredentials — ключи доступа не найдены ни в одном источнике.
	ErrMissingCredentials = errors.New("missing storage credentials")
	// ErrUploadFailed — сбой загрузки без ответа провайдера (сеть, таймаут).
	ErrUploadFailed = errors.New("upload failed")
)

// ProviderError — ошибка, возвращённая S3-совместимым провайдером.
// Code и Message передаются без изменений.
type ProviderError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("storage provider error: %s (status %d): %s", e.Code, e.StatusCode, e.Message)
}

// Uploader — загрузка готового документа с публичным чтением.
type Uploader interface {
	// Upload кладёт body под key и возвращает публичный URL.
	// Пустой key — ключ генерируется по текущему времени.
	Upload(ctx context.Context, body []byte, key, contentType string, metadata map[string]string) (string, error)
	// UploadPDF — Upload с Content-Type application/pdf.
	UploadPDF(ctx context.Context, body []byte, key string, metadata map[string]string) (string, error)
}

// Unavailable — заглушка на случай, когда хранилище не сконфигурировано.
// Любая загрузка сразу возвращает Err, сетевых вызовов нет.
type Unavailable struct {
	Err error
}

func (u Unavailable) Upload(context.Context, []byte, string, string, map[string]string) (string, error) {
	return "", u.Err
}

func (u Unavailable) UploadPDF(context.Context, []byte, string, map[string]string) (string, error) {
	return "", u.Err
}

var _ Uploader = Unavailable{}
