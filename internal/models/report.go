package models

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrInvalidCategory — категория вне перечисления Category.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidURL — ссылка источника не является абсолютным URL.
	ErrInvalidURL = errors.New("invalid url")
)

// Значения по умолчанию для незаполненных полей отчёта.
const (
	DefaultTitle    = "Untitled"
	DefaultCategory = "N/A"
	DefaultAudience = "N/A"
	DefaultSummary  = "No summary available"
)

// Category — рубрика трендовой истории.
type Category string

const (
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryBusiness      Category = "BUSINESS"
	CategoryPolitics      Category = "POLITICS"
	CategorySports        Category = "SPORTS"
)

// Categories — допустимые значения в порядке объявления.
var Categories = []Category{
	CategoryEntertainment,
	CategoryBusiness,
	CategoryPolitics,
	CategorySports,
}

// ParseCategory приводит строку к Category без учёта регистра.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// TrendingItem — одна история PDF-отчёта.
// Строится только через NewTrendingItem: поля уже прошли валидацию и дефолты.
type TrendingItem struct {
	Title    string
	Summary  string
	Category Category
	Audience string
	// Items — ссылки на источники (валидные абсолютные URL).
	Items []string
}

// TrendingInput — «сырые» поля истории в том виде, в каком их прислал клиент.
type TrendingInput struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Category string   `json:"category"`
	Audience string   `json:"audience"`
	Items    []string `json:"items"`
}

// NewTrendingItem валидирует вход и подставляет дефолты.
//
// Правила:
//   - пустой title -> DefaultTitle, пустой summary -> DefaultSummary, пустой audience -> DefaultAudience;
//   - пустая категория допустима (рендерится как DefaultCategory), иначе — одно из Categories;
//   - каждая ссылка — абсолютный URL со схемой и хостом, иначе ErrInvalidURL.
func NewTrendingItem(in TrendingInput) (TrendingItem, error) {
	item := TrendingItem{
		Title:    orDefault(in.Title, DefaultTitle),
		Summary:  orDefault(in.Summary, DefaultSummary),
		Audience: orDefault(in.Audience, DefaultAudience),
		Items:    make([]string, 0, len(in.Items)),
	}

	if strings.TrimSpace(in.Category) != "" {
		c, err := ParseCategory(in.Category)
		if err != nil {
			return TrendingItem{}, err
		}
		item.Category = c
	}

	for _, raw := range in.Items {
		u, err := ParseSourceURL(raw)
		if err != nil {
			return TrendingItem{}, err
		}
		item.Items = append(item.Items, u)
	}

	return item, nil
}

// CategoryLabel — подпись категории для рендера.
func (t TrendingItem) CategoryLabel() string {
	if t.Category == "" {
		return DefaultCategory
	}
	return string(t.Category)
}

// ParseSourceURL проверяет, что строка — абсолютный URL (схема и хост обязательны).
func ParseSourceURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	return s, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

// ReportRequest — вход инструментов отчёта.
type ReportRequest struct {
	// AsOf — отметка времени для подзаголовка; пусто — текущее время.
	AsOf     string
	Trending []TrendingItem
}
