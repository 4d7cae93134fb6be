package middleware

import (
	"context"
	"net/http"
	"slices"
	"time"
)

// Timeout ограничивает запрос дедлайном d.
//
// methods сужает действие мидлвара: без них дедлайн получают все запросы.
// Для MCP это POST (вызов инструмента); GET держит SSE-поток сколь угодно долго.
// Существующий дедлайн не переопределяется, d <= 0 — no-op.
func Timeout(d time.Duration, methods ...string) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(methods) > 0 && !slices.Contains(methods, r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
