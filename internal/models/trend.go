package models

import "strings"

// GoogleTrendItem — тема из RSS Google Trends.
type GoogleTrendItem struct {
	Topic string
	// PublishedAt — ISO-8601 в UTC; пустая строка — дата не распознана.
	PublishedAt   string
	ApproxTraffic string
	Candidates    []NewsCandidate
}

// NewsCandidate — статья, связанная с темой.
type NewsCandidate struct {
	Title  string
	URL    string
	Source string
}

// AddCandidate добавляет статью, если у неё непустой URL.
// Возвращает false, если кандидат отброшен.
func (g *GoogleTrendItem) AddCandidate(title, url, source string) bool {
	url = strings.TrimSpace(url)
	if url == "" {
		return false
	}

	g.Candidates = append(g.Candidates, NewsCandidate{
		Title:  strings.TrimSpace(title),
		URL:    url,
		Source: strings.TrimSpace(source),
	})

	return true
}
