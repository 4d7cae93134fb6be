package admin

import (
	"context"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/pribylovaa/trends-service/pkg/log"
)

const requestIDKey = "x-request-id"

// healthMethods — префикс методов health; успешные опросы пишутся на Debug.
var healthMethods = "/" + healthpb.Health_ServiceDesc.ServiceName + "/"

// unaryInterceptor кладёт в контекст логгер с request_id, навешивает
// дедлайн timeout (если клиент не задал свой), превращает панику в
// codes.Internal и пишет одну запись admin_call на вызов.
func unaryInterceptor(base *slog.Logger, timeout time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()

		l := base.With(
			slog.String("request_id", requestID(ctx)),
			slog.String("method", info.FullMethod),
		)
		ctx = log.Into(ctx, l)

		if _, ok := ctx.Deadline(); !ok && timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		defer func() {
			if r := recover(); r != nil {
				l.Error("admin_panic",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				)
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}

			level := slog.LevelInfo
			if err == nil && strings.HasPrefix(info.FullMethod, healthMethods) {
				level = slog.LevelDebug
			}
			l.LogAttrs(context.Background(), level, "admin_call",
				slog.String("code", status.Code(err).String()),
				slog.Duration("dur", time.Since(start)),
			)
		}()

		return handler(ctx, req)
	}
}

// requestID — x-request-id из metadata, иначе новый UUID.
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		for _, v := range md.Get(requestIDKey) {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return uuid.NewString()
}
