// mcp содержит реализацию инструментов trends-service поверх mark3labs/mcp-go.
//
// Принципы:
//   - аргументы инструментов маппятся в вызовы service без потерь контекста;
//   - текстовые инструменты всегда возвращают строку (возможно пустую);
//   - ошибки инструментов отчёта возвращаются как tool error result (isError),
//     виды ошибок транслируются в понятные сообщения:
//   - validate.ErrInvalidInput / service.ErrInvalidArgument -> "invalid input: ...";
//   - storage.ErrInvalidConfig, storage.ErrMissingCredentials -> подсказка по окружению;
//   - *storage.ProviderError -> код и сообщение провайдера;
//   - иные ошибки -> единое безопасное сообщение.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pribylovaa/trends-service/internal/metrics"
	"github.com/pribylovaa/trends-service/internal/service"
	"github.com/pribylovaa/trends-service/internal/storage"
	"github.com/pribylovaa/trends-service/internal/validate"
	"github.com/pribylovaa/trends-service/pkg/log"
)

// ServerName — имя сервера в ответе initialize.
const ServerName = "Trends"

const (
	ToolReddit = "get_reddit_trending_topics"
	ToolGoogle = "get_google_trending_topics"
	ToolPDF    = "create_trending_news_pdf"
	ToolReport = "create_trending_topics_report"
)

// Server — набор инструментов MCP поверх service.Service.
type Server struct {
	service  *service.Service
	mcp      *server.MCPServer
	defLimit int

	handlers map[string]server.ToolHandlerFunc
}

// NewServer создаёт MCP-сервер и регистрирует четыре инструмента.
// defLimit — значение limit по умолчанию в схеме и при его отсутствии.
func NewServer(svc *service.Service, version string, defLimit int) *Server {
	if defLimit <= 0 {
		defLimit = 10
	}

	s := &Server{
		service:  svc,
		defLimit: defLimit,
		mcp: server.NewMCPServer(ServerName, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		handlers: make(map[string]server.ToolHandlerFunc, 4),
	}

	s.register(mcpgo.NewTool(ToolReddit,
		mcpgo.WithDescription("Get trending topics from the Reddit discover feed as formatted text."),
		mcpgo.WithNumber("limit",
			mcpgo.Description("Maximum number of topics to return"),
			mcpgo.DefaultNumber(float64(defLimit)),
			mcpgo.Min(1),
		),
	), s.reddit)

	s.register(mcpgo.NewTool(ToolGoogle,
		mcpgo.WithDescription("Get trending searches from the Google Trends RSS feed as formatted text."),
		mcpgo.WithNumber("limit",
			mcpgo.Description("Maximum number of topics to return"),
			mcpgo.DefaultNumber(float64(defLimit)),
			mcpgo.Min(1),
		),
		mcpgo.WithString("geo",
			mcpgo.Description("Region code, e.g. US, GB, DE"),
		),
	), s.google)

	s.register(mcpgo.NewToolWithRawSchema(ToolPDF,
		"Render trending stories into a PDF report, upload it and return its public URL.",
		validate.PDFSchema(),
	), s.pdf)

	s.register(mcpgo.NewToolWithRawSchema(ToolReport,
		"Render validated trending stories into a PDF report stamped with the current time and return its public URL.",
		validate.ReportSchema(),
	), s.report)

	return s
}

// MCP возвращает нижележащий сервер mcp-go.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Handler возвращает streamable HTTP обработчик (POST/GET/DELETE).
func (s *Server) Handler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

// toolFunc — обработчик инструмента, возвращающий исход для метрик.
type toolFunc func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, string)

func (s *Server) register(tool mcpgo.Tool, fn toolFunc) {
	h := instrument(tool.Name, fn)
	s.handlers[tool.Name] = h
	s.mcp.AddTool(tool, h)
}

// instrument добавляет логгер с именем инструмента, метрики и лог вызова.
func instrument(tool string, fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		start := time.Now()
		ctx, lg := log.With(ctx, slog.String("tool", tool))

		res, outcome := fn(ctx, req)

		dur := time.Since(start)
		metrics.ToolCalls.WithLabelValues(tool, outcome).Inc()
		metrics.ToolDuration.WithLabelValues(tool).Observe(dur.Seconds())

		level := slog.LevelInfo
		if outcome == metrics.OutcomeError {
			level = slog.LevelError
		}
		lg.LogAttrs(ctx, level, "tool_call",
			slog.String("outcome", outcome),
			slog.Duration("dur", dur),
		)

		return res, nil
	}
}

func (s *Server) reddit(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, string) {
	limit := req.GetInt("limit", s.defLimit)
	return mcpgo.NewToolResultText(s.service.RedditDigest(ctx, limit)), metrics.OutcomeOK
}

func (s *Server) google(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, string) {
	limit := req.GetInt("limit", s.defLimit)
	geo := req.GetString("geo", "")
	return mcpgo.NewToolResultText(s.service.GoogleDigest(ctx, limit, geo)), metrics.OutcomeOK
}

func (s *Server) pdf(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, string) {
	return s.createReport(ctx, req, false, "Trending news PDF created: ")
}

func (s *Server) report(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, string) {
	return s.createReport(ctx, req, true, "Trending topics report created: ")
}

// createReport — общий путь двух инструментов отчёта.
// strict: все поля истории обязательны, asOf игнорируется (текущее время).
func (s *Server) createReport(ctx context.Context, req mcpgo.CallToolRequest, strict bool, prefix string) (*mcpgo.CallToolResult, string) {
	const op = "transport/mcp/createReport"

	in, err := validate.ReportRequest(req.GetArguments(), strict)
	if err != nil {
		return toolError(ctx, op, err)
	}
	if strict {
		in.AsOf = ""
	}

	url, err := s.service.CreateReport(ctx, in)
	if err != nil {
		return toolError(ctx, op, err)
	}

	return mcpgo.NewToolResultText(prefix + url), metrics.OutcomeOK
}

// toolError переводит ошибку в tool error result и исход для метрик.
func toolError(ctx context.Context, op string, err error) (*mcpgo.CallToolResult, string) {
	var pe *storage.ProviderError

	switch {
	case errors.Is(err, validate.ErrInvalidInput), errors.Is(err, service.ErrInvalidArgument):
		return mcpgo.NewToolResultError("invalid input: " + cause(err, inputMarkers...)), metrics.OutcomeInvalidInput
	case errors.Is(err, storage.ErrInvalidConfig):
		msg := "storage is not configured"
		if detail := cause(err, storage.ErrInvalidConfig.Error()+": "); detail != err.Error() {
			msg += ": " + detail
		}
		return mcpgo.NewToolResultError(msg), metrics.OutcomeError
	case errors.Is(err, storage.ErrMissingCredentials):
		return mcpgo.NewToolResultError("storage credentials are missing: set SPACES_KEY/SPACES_SECRET or AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY"), metrics.OutcomeError
	case errors.As(err, &pe):
		return mcpgo.NewToolResultError(fmt.Sprintf("storage provider error: %s: %s", pe.Code, pe.Message)), metrics.OutcomeError
	default:
		log.From(ctx).Error("tool_internal_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return mcpgo.NewToolResultError("internal error"), metrics.OutcomeError
	}
}

var inputMarkers = []string{validate.ErrInvalidInput.Error() + ": ", service.ErrInvalidArgument.Error() + ": "}

// cause срезает op-префиксы: остаётся текст после последнего маркера
// (например "invalid input: "). Без маркера возвращается err.Error().
func cause(err error, markers ...string) string {
	msg := err.Error()
	for _, marker := range markers {
		if i := strings.LastIndex(msg, marker); i >= 0 {
			return msg[i+len(marker):]
		}
	}
	return msg
}
