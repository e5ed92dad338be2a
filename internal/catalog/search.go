package catalog

import (
	"strings"

	"syntax_feed_backend/internal/model"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// SearchParams filters the explore view. Empty fields match everything.
type SearchParams struct {
	Query  string
	Level  model.Level
	Topics []string
	Page   int
	Limit  int
}

type SearchResult struct {
	Collections []model.Course `json:"collections"`
	Total       int            `json:"total"`
	Page        int            `json:"page"`
	Limit       int            `json:"limit"`
}

// Normalize applies paging defaults and bounds.
func (p SearchParams) Normalize() SearchParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	p.Query = strings.TrimSpace(p.Query)
	return p
}

// Search matches the query against course title and description. A course
// matches the topic filter when it carries one of the requested topics.
// Results are course summaries without curricula.
func (c *Catalog) Search(params SearchParams) SearchResult {
	params = params.Normalize()
	q := strings.ToLower(params.Query)

	var hits []model.Course
	for _, co := range c.courses {
		if params.Level != "" && co.Level != params.Level {
			continue
		}
		if len(params.Topics) > 0 && !matchesTopic(co, params.Topics) {
			continue
		}
		if q != "" && !matchesQuery(co, q) {
			continue
		}
		hits = append(hits, co.Summary())
	}

	res := SearchResult{Total: len(hits), Page: params.Page, Limit: params.Limit, Collections: []model.Course{}}
	start := (params.Page - 1) * params.Limit
	if start >= len(hits) {
		return res
	}
	end := start + params.Limit
	if end > len(hits) {
		end = len(hits)
	}
	res.Collections = hits[start:end]
	return res
}

func matchesTopic(co model.Course, topics []string) bool {
	for _, want := range topics {
		for _, t := range co.Topics {
			if strings.EqualFold(t, want) {
				return true
			}
		}
	}
	return false
}

func matchesQuery(co model.Course, q string) bool {
	return strings.Contains(strings.ToLower(co.Title), q) ||
		strings.Contains(strings.ToLower(co.Description), q)
}
