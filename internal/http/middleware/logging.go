package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	logctx "github.com/pribylovaa/trends-service/pkg/log"
)

// Logging кладёт request-scoped логгер в контекст и пишет запись "http"
// по завершении запроса. Пробы (/livez, /healthz, /metrics) пишутся на Debug.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := l
			if rid := r.Header.Get(HeaderRequestID); rid != "" {
				reqLogger = reqLogger.With(slog.String("request_id", rid))
			}
			r = r.WithContext(logctx.Into(r.Context(), reqLogger))

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)
			dur := time.Since(start)

			level := slog.LevelInfo
			if isProbe(r.URL.Path) && sw.status < http.StatusInternalServerError {
				level = slog.LevelDebug
			}

			reqLogger.LogAttrs(r.Context(), level, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("dur", dur),
				slog.Int("bytes", sw.count),
			)
		})
	}
}

func isProbe(path string) bool {
	switch strings.TrimSuffix(path, "/") {
	case "/livez", "/healthz", "/metrics":
		return true
	}
	return false
}
