package service

import (
	"context"
	"testing"
	"time"

	"syntax_feed_backend/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogServiceLessonAndShare(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCatalogService(env.catalog, nil, time.Minute, "https://syntax.example/", env.growth)

	l, err := svc.Lesson("l1", "1")
	require.NoError(t, err)
	assert.Equal(t, "1", l.ID)

	streak, err := env.growth.Streak("l1")
	require.NoError(t, err)
	assert.Equal(t, 1, streak.TotalDays)

	_, err = svc.Lesson("", "404")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	share, err := svc.ShareLesson("1")
	require.NoError(t, err)
	assert.Equal(t, l.Title, share.Title)
	assert.Equal(t, l.Title+" by "+l.Creator+": "+l.Caption, share.Text)
	assert.Equal(t, "https://syntax.example/lesson/1", share.URL)
}

func TestCatalogServiceExplore(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCatalogService(env.catalog, nil, time.Minute, "", nil)

	all, err := svc.Explore(context.Background(), ExploreRequest{})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Total)
	assert.Len(t, all.Collections, 4)
	assert.Equal(t, 1, all.Page)
	assert.Equal(t, catalog.DefaultPageSize, all.Limit)

	page2, err := svc.Explore(context.Background(), ExploreRequest{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page2.Collections, 1)

	web, err := svc.Explore(context.Background(), ExploreRequest{Topics: " Web Development , "})
	require.NoError(t, err)
	require.Equal(t, 2, web.Total)
	for _, co := range web.Collections {
		assert.Contains(t, co.Topics, "Web Development", co.ID)
	}

	desc, err := svc.Explore(context.Background(), ExploreRequest{Query: "HANDS-ON"})
	require.NoError(t, err)
	require.Equal(t, 1, desc.Total)
	assert.Equal(t, "Python Fundamentals", desc.Collections[0].Title)
}

func TestExploreCacheKey(t *testing.T) {
	a := ExploreRequest{Query: "Loops", Topics: "React,python"}.params()
	b := ExploreRequest{Query: "loops ", Topics: "Python, react", Page: 1, Limit: 10}.params()
	assert.Equal(t, exploreCacheKey(a), exploreCacheKey(b))
	assert.Equal(t, "explore:loops||python,react|1|10", exploreCacheKey(a))
}
