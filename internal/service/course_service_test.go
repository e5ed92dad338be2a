package service

import (
	"testing"
	"time"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseServiceDetail(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCourseService(env.catalog, env.progress)

	assert.Len(t, svc.List(), 4)

	detail, err := svc.Detail("l1", "1")
	require.NoError(t, err)
	assert.Equal(t, "Python Fundamentals", detail.Title)
	require.Len(t, detail.Curriculum, 12)
	assert.Zero(t, detail.Completed)

	detail, err = svc.SetComplete("l1", "1", 2, true)
	require.NoError(t, err)
	assert.True(t, detail.Curriculum[1].Completed)
	assert.Equal(t, 1, detail.Completed)
	assert.Equal(t, 8, detail.Progress)

	// idempotent
	detail, err = svc.SetComplete("l1", "1", 2, true)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Completed)

	detail, err = svc.SetComplete("l1", "1", 2, false)
	require.NoError(t, err)
	assert.Zero(t, detail.Completed)

	_, err = svc.SetComplete("l1", "1", 99, true)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	_, err = svc.Detail("l1", "nope")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	// anonymous detail has no completion
	anon, err := svc.Detail("", "1")
	require.NoError(t, err)
	assert.Zero(t, anon.Completed)
}

func TestCourseServiceMyCourses(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCourseService(env.catalog, env.progress)

	for _, id := range []int{1, 2, 3} {
		_, err := svc.SetComplete("l1", "1", id, true)
		require.NoError(t, err)
	}
	time.Sleep(10 * time.Millisecond)
	_, err := svc.SetComplete("l1", "2", 1, true)
	require.NoError(t, err)

	recent, err := svc.MyCourses("l1", "")
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "2", recent[0].ID)
	assert.Equal(t, 1, recent[0].Completed)
	assert.Equal(t, 8, recent[0].Total)
	assert.Equal(t, 12, recent[0].Progress)
	assert.Empty(t, recent[0].Curriculum)

	byProgress, err := svc.MyCourses("l1", SortProgress)
	require.NoError(t, err)
	assert.Equal(t, "1", byProgress[0].ID)
	assert.Equal(t, 25, byProgress[0].Progress)

	alpha, err := svc.MyCourses("l1", SortAlphabetical)
	require.NoError(t, err)
	assert.Equal(t, "JavaScript ES6+", alpha[0].Title)

	_, err = svc.MyCourses("l1", "popular")
	assert.ErrorIs(t, err, util.ErrInvalidSort)

	none, err := svc.MyCourses("l2", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}
