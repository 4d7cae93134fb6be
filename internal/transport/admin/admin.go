// admin — служебный gRPC-сервер trends-service.
//
// Что отдаёт:
//   - grpc.health.v1 с общим статусом ("") и статусами компонентов
//     (ComponentMCP, ComponentStorage): оркестратор видит, что сервис жив,
//     но загрузка отчётов отключена;
//   - метрики grpc_prometheus по admin-вызовам;
//   - reflection (только если включён в Options).
package admin

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Имена компонентов в health-сервисе.
const (
	ComponentMCP     = "trends.v1.Mcp"
	ComponentStorage = "trends.v1.Storage"
)

// Options — настройки admin-сервера.
type Options struct {
	Logger *slog.Logger
	// Timeout — дедлайн вызова, если клиент не задал свой; 0 — без дедлайна.
	Timeout    time.Duration
	Reflection bool
}

// Server — gRPC-сервер с health-статусами компонентов.
type Server struct {
	srv    *grpc.Server
	health *health.Server
	log    *slog.Logger
}

// New собирает сервер. Все статусы стартуют в NOT_SERVING.
func New(opts Options) *Server {
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			unaryInterceptor(l, opts.Timeout),
			grpc_prometheus.UnaryServerInterceptor,
		),
		grpc.ChainStreamInterceptor(
			grpc_prometheus.StreamServerInterceptor,
		),
	)

	hs := health.NewServer()
	for _, name := range []string{"", ComponentMCP, ComponentStorage} {
		hs.SetServingStatus(name, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	healthpb.RegisterHealthServer(srv, hs)

	if opts.Reflection {
		reflection.Register(srv)
	}
	grpc_prometheus.Register(srv)

	return &Server{srv: srv, health: hs, log: l}
}

// SetServing меняет общий статус сервиса.
func (s *Server) SetServing(ok bool) {
	s.SetComponent("", ok)
}

// SetComponent меняет статус компонента name.
func (s *Server) SetComponent(name string, ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(name, st)

	s.log.Debug("admin_health_status",
		slog.String("component", componentName(name)),
		slog.String("status", st.String()),
	)
}

// Serve блокируется до остановки сервера; штатная остановка не ошибка.
func (s *Server) Serve(lis net.Listener) error {
	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Drain переводит все статусы в NOT_SERVING; последующие SetComponent игнорируются.
func (s *Server) Drain() {
	s.health.Shutdown()
}

// Shutdown — Drain и graceful stop; по истечении ctx соединения рвутся.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Drain()

	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.srv.Stop()
		return ctx.Err()
	}
}

func componentName(name string) string {
	if name == "" {
		return "service"
	}
	return name
}
