// validate — проверка входа инструментов отчёта по JSON Schema (draft-07).
// Те же документы схем публикуются как input schema инструментов MCP,
// поэтому клиент и сервер проверяют вход одинаково.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/pribylovaa/trends-service/internal/models"
)

// ErrInvalidInput — вход не прошёл проверку схемы или доменных правил.
var ErrInvalidInput = errors.New("invalid input")

var (
	pdfSchemaDoc    = mustMarshal(schemaDoc(false))
	reportSchemaDoc = mustMarshal(schemaDoc(true))

	pdfSchema    = mustCompile(pdfSchemaDoc)
	reportSchema = mustCompile(reportSchemaDoc)
)

// PDFSchema — схема create_trending_news_pdf: asOf и истории с необязательными полями.
func PDFSchema() json.RawMessage { return clone(pdfSchemaDoc) }

// ReportSchema — схема create_trending_topics_report: все поля истории обязательны.
func ReportSchema() json.RawMessage { return clone(reportSchemaDoc) }

// Document проверяет произвольный документ (map/struct) по схеме.
func Document(doc any, strict bool) error {
	schema := pdfSchema
	if strict {
		schema = reportSchema
	}

	res, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, desc := range res.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
	}

	return nil
}

type rawRequest struct {
	AsOf     string                 `json:"asOf"`
	Trending []models.TrendingInput `json:"trending"`
}

// ReportRequest проверяет аргументы инструмента и строит models.ReportRequest.
// Ошибки доменных конструкторов (категория, URL) оборачиваются в ErrInvalidInput.
func ReportRequest(args map[string]any, strict bool) (models.ReportRequest, error) {
	const op = "validate.ReportRequest"

	if args == nil {
		args = map[string]any{}
	}

	if err := Document(args, strict); err != nil {
		return models.ReportRequest{}, fmt.Errorf("%s: %w", op, err)
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return models.ReportRequest{}, fmt.Errorf("%s: %w: %v", op, ErrInvalidInput, err)
	}

	var in rawRequest
	if err := json.Unmarshal(raw, &in); err != nil {
		return models.ReportRequest{}, fmt.Errorf("%s: %w: %v", op, ErrInvalidInput, err)
	}

	req := models.ReportRequest{
		AsOf:     in.AsOf,
		Trending: make([]models.TrendingItem, 0, len(in.Trending)),
	}
	for i, ti := range in.Trending {
		item, err := models.NewTrendingItem(ti)
		if err != nil {
			return models.ReportRequest{}, fmt.Errorf("%s: %w: trending.%d: %w", op, ErrInvalidInput, i, err)
		}
		req.Trending = append(req.Trending, item)
	}

	return req, nil
}

func schemaDoc(strict bool) map[string]any {
	categories := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		categories = append(categories, string(c))
	}

	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":    map[string]any{"type": "string", "description": "Headline of the story"},
			"summary":  map[string]any{"type": "string", "description": "Short summary paragraph"},
			"category": map[string]any{"type": "string", "enum": categories},
			"audience": map[string]any{"type": "string", "description": "Intended audience"},
			"items": map[string]any{
				"type":        "array",
				"description": "Source URLs",
				"items":       map[string]any{"type": "string", "format": "uri"},
			},
		},
	}
	if strict {
		item["required"] = []string{"title", "summary", "category", "audience", "items"}
	}

	props := map[string]any{
		"trending": map[string]any{
			"type":        "array",
			"description": "Trending stories in report order",
			"items":       item,
		},
	}
	if !strict {
		props["asOf"] = map[string]any{
			"type":        "string",
			"description": "Report timestamp (ISO-8601); current time when omitted",
		}
	}

	return map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": props,
		"required":   []string{"trending"},
	}
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func mustCompile(doc []byte) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		panic(err)
	}
	return s
}

func clone(b []byte) json.RawMessage {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
