package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"

	"github.com/pribylovaa/trends-service/internal/config"
	"github.com/pribylovaa/trends-service/internal/feeds"
	"github.com/pribylovaa/trends-service/internal/feeds/googletrends"
	"github.com/pribylovaa/trends-service/internal/feeds/reddit"
	trendshttp "github.com/pribylovaa/trends-service/internal/http"
	"github.com/pribylovaa/trends-service/internal/service"
	"github.com/pribylovaa/trends-service/internal/storage"
	"github.com/pribylovaa/trends-service/internal/storage/minio"
	"github.com/pribylovaa/trends-service/internal/transport/admin"
	"github.com/pribylovaa/trends-service/internal/transport/mcp"
	"github.com/pribylovaa/trends-service/pkg/redact"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// version подставляется при сборке: -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting trends-service", "env", cfg.Env, "version", version)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	client := feeds.NewClient(&http.Client{Timeout: cfg.Feeds.Timeout}, cfg.Feeds.UserAgent)
	topics := reddit.New(client, cfg.Feeds, cfg.Limits)
	trends := googletrends.New(client, cfg.Feeds)

	var (
		store     service.ReportStore
		storageOK bool
	)
	uploader, err := minio.New(cfg.Storage)
	switch {
	case err == nil:
		store, storageOK = uploader, true
		ak, _, _ := cfg.Storage.Credentials()
		log.Info("storage_initialized",
			slog.String("bucket", cfg.Storage.Bucket),
			slog.String("endpoint", redact.URL(cfg.Storage.EndpointURL)),
			slog.String("access_key", redact.Key(ak)),
		)
	case errors.Is(err, storage.ErrInvalidConfig):
		// Текстовые инструменты работают и без хранилища.
		store = storage.Unavailable{Err: err}
		log.Warn("storage_disabled", slog.String("err", err.Error()))
	default:
		log.Error("storage_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	svc := service.New(topics, trends, store, *cfg)
	tools := mcp.NewServer(svc, version, cfg.Limits.Default)
	log.Info("service_initialized")

	// HTTP: MCP, пробы, метрики.
	var ready atomic.Bool

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr: httpAddr,
		Handler: trendshttp.NewRouter(tools.Handler(), trendshttp.Options{
			Logger:  log,
			Timeout: cfg.Timeouts.Service,
			MCPPath: cfg.HTTP.MCPPath,
			Ready:   &ready,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	httpLn, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("http_listen_start", slog.String("addr", httpAddr), slog.String("mcp_path", cfg.HTTP.MCPPath))

	// gRPC: admin-порт с health-check по компонентам.
	grpc_prometheus.EnableHandlingTimeHistogram()

	adminSrv := admin.New(admin.Options{
		Logger:     log,
		Timeout:    cfg.Timeouts.Admin,
		Reflection: cfg.Env == envLocal || cfg.Env == envDev,
	})

	grpcAddr := cfg.GRPC.Addr()
	grpcLn, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Error("grpc_listen_failed", slog.String("addr", grpcAddr), slog.String("err", err.Error()))
		_ = httpLn.Close()
		os.Exit(1)
	}
	log.Info("grpc_listen_start", slog.String("addr", grpcAddr))

	serveErrCh := make(chan error, 2)
	go func() {
		if err := httpSrv.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
	}()
	go func() {
		if err := adminSrv.Serve(grpcLn); err != nil {
			serveErrCh <- err
		}
	}()

	adminSrv.SetComponent(admin.ComponentStorage, storageOK)
	adminSrv.SetComponent(admin.ComponentMCP, true)
	adminSrv.SetServing(true)
	ready.Store(true)
	log.Info("service_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		log.Error("serve_failed", slog.String("err", err.Error()))
	}

	adminSrv.Drain()
	ready.Store(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	if err := adminSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("grpc_force_stop", slog.String("err", err.Error()))
	} else {
		log.Info("grpc_stopped")
	}

	log.Info("service_stopped")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
