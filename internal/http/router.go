package http

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apierrors "github.com/pribylovaa/trends-service/internal/errors"
	"github.com/pribylovaa/trends-service/internal/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger *slog.Logger
	// Timeout — дедлайн на один POST в MCP-эндпоинт (вызов инструмента).
	// GET (SSE-поток) и DELETE (закрытие сессии) им не ограничены.
	Timeout time.Duration
	// MCPPath — путь MCP-эндпоинта, по умолчанию "/mcp".
	MCPPath string
	// Ready — флаг готовности для /healthz; nil — сервис всегда готов.
	Ready *atomic.Bool
	// Metrics — обработчик /metrics; nil — promhttp.Handler().
	Metrics http.Handler
}

// NewRouter собирает http.Handler: MCP streamable HTTP, пробы и метрики.
func NewRouter(mcp http.Handler, opts Options) http.Handler {
	if opts.MCPPath == "" {
		opts.MCPPath = "/mcp"
	}
	if opts.Metrics == nil {
		opts.Metrics = promhttp.Handler()
	}

	r := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	r.Use(
		middleware.RequestID(),
		middleware.Logging(opts.Logger),
		middleware.Recover(),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		apierrors.WriteError(w, req, apierrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		apierrors.WriteError(w, req, apierrors.ErrMethodNotAllowed)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(opts.Timeout, http.MethodPost))
		r.Post(opts.MCPPath, mcp.ServeHTTP)
		r.Get(opts.MCPPath, mcp.ServeHTTP)
		r.Delete(opts.MCPPath, mcp.ServeHTTP)
	})

	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if opts.Ready != nil && !opts.Ready.Load() {
			apierrors.WriteError(w, req, apierrors.ErrNotReady)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", opts.Metrics)

	return r
}
