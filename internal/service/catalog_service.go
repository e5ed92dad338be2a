package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/model"
	"syntax_feed_backend/pkg/logger"
	"syntax_feed_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const exploreCachePrefix = "explore:"

type CatalogService struct {
	Catalog   *catalog.Catalog
	Redis     *redis.Client
	CacheTTL  time.Duration
	PublicURL string
	Growth    *GrowthService
}

func NewCatalogService(cat *catalog.Catalog, rdb *redis.Client, cacheTTL time.Duration, publicURL string, growth *GrowthService) *CatalogService {
	return &CatalogService{
		Catalog:   cat,
		Redis:     rdb,
		CacheTTL:  cacheTTL,
		PublicURL: strings.TrimRight(publicURL, "/"),
		Growth:    growth,
	}
}

// Lesson returns one lesson. Viewing it counts as activity for a known
// learner.
func (s *CatalogService) Lesson(learnerID, id string) (*model.Lesson, error) {
	l, err := s.Catalog.Lesson(id)
	if err != nil {
		return nil, err
	}
	if learnerID != "" && s.Growth != nil {
		if err := s.Growth.Record(learnerID, model.ActivityLessonView); err != nil {
			logger.Log.Warn("Failed to record lesson view", zap.String("lessonId", id), zap.Error(err))
		}
	}
	return &l, nil
}

// SharePayload is what a native share sheet needs; clients without one copy
// URL to the clipboard instead.
type SharePayload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

func (s *CatalogService) ShareLesson(id string) (*SharePayload, error) {
	l, err := s.Catalog.Lesson(id)
	if err != nil {
		return nil, err
	}
	return &SharePayload{
		Title: l.Title,
		Text:  fmt.Sprintf("%s by %s: %s", l.Title, l.Creator, l.Caption),
		URL:   s.PublicURL + "/lesson/" + l.ID,
	}, nil
}

type ExploreRequest struct {
	Query  string `form:"q"`
	Level  string `form:"level" binding:"omitempty,level"`
	Topics string `form:"topics"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

func (r ExploreRequest) params() catalog.SearchParams {
	var topics []string
	for _, t := range strings.Split(r.Topics, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return catalog.SearchParams{
		Query:  r.Query,
		Level:  model.Level(r.Level),
		Topics: topics,
		Page:   r.Page,
		Limit:  r.Limit,
	}.Normalize()
}

func exploreCacheKey(p catalog.SearchParams) string {
	topics := make([]string, len(p.Topics))
	for i, t := range p.Topics {
		topics[i] = strings.ToLower(t)
	}
	sort.Strings(topics)
	return fmt.Sprintf("%s%s|%s|%s|%d|%d", exploreCachePrefix,
		strings.ToLower(p.Query), strings.ToLower(string(p.Level)), strings.Join(topics, ","), p.Page, p.Limit)
}

// Explore searches course collections. Results are cached in Redis when it is
// configured; the catalog is immutable so entries only expire by TTL.
func (s *CatalogService) Explore(ctx context.Context, req ExploreRequest) (*catalog.SearchResult, error) {
	params := req.params()
	if s.Redis == nil {
		res := s.Catalog.Search(params)
		return &res, nil
	}

	key := exploreCacheKey(params)
	cached, err := s.Redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var res catalog.SearchResult
		if jsonErr := json.Unmarshal(cached, &res); jsonErr == nil {
			monitoring.CacheRequests.WithLabelValues("hit").Inc()
			return &res, nil
		}
	case !errors.Is(err, redis.Nil):
		logger.Log.Warn("Explore cache read failed", zap.Error(err))
	}
	monitoring.CacheRequests.WithLabelValues("miss").Inc()

	res := s.Catalog.Search(params)
	if data, err := json.Marshal(res); err == nil {
		if err := s.Redis.Set(ctx, key, data, s.CacheTTL).Err(); err != nil {
			logger.Log.Warn("Explore cache write failed", zap.Error(err))
		}
	}
	return &res, nil
}

func (s *CatalogService) Courses() []model.Course {
	return s.Catalog.Courses()
}
