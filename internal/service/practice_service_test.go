package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/grader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPracticeServiceRun(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPracticeService(env.catalog, grader.NewMockGrader(0, 0, rand.New(rand.NewSource(1))), env.attempts, env.growth)

	list, err := svc.List("l1", "python")
	require.NoError(t, err)
	assert.Len(t, list, 4)
	assert.Equal(t, 3, list[0].HintCount)
	assert.False(t, list[0].Solved)

	report, err := svc.Run(context.Background(), "l1", "ex-1", "print('hi')")
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Zero(t, report.Passed)
	assert.False(t, report.AllPassed)

	ex, err := svc.Get("l1", "ex-1")
	require.NoError(t, err)
	assert.False(t, ex.Solved)

	svc.SetGrader(grader.NewMockGrader(0, 1, rand.New(rand.NewSource(1))))
	report, err = svc.Run(context.Background(), "l1", "ex-1", "print('hi')")
	require.NoError(t, err)
	assert.True(t, report.AllPassed)
	assert.Equal(t, grader.ModeMock, report.Grader)

	ex, err = svc.Get("l1", "ex-1")
	require.NoError(t, err)
	assert.True(t, ex.Solved)

	runs, err := env.attempts.CountByLearner("l1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, runs)

	streak, err := env.growth.Streak("l1")
	require.NoError(t, err)
	assert.True(t, streak.TodayComplete)
}

func TestPracticeServiceRunErrors(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPracticeService(env.catalog, grader.NewMockGrader(time.Minute, 1, nil), env.attempts, nil)

	_, err := svc.Run(context.Background(), "l1", "ex-404", "x")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = svc.Run(context.Background(), "l1", "ex-1", "   ")
	assert.ErrorIs(t, err, grader.ErrEmptyCode)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Run(ctx, "l1", "ex-1", "print(1)")
	assert.ErrorIs(t, err, context.Canceled)

	runs, err := env.attempts.CountByLearner("l1")
	require.NoError(t, err)
	assert.Zero(t, runs)
}

func TestPracticeServiceHint(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPracticeService(env.catalog, grader.NewMockGrader(0, 1, nil), env.attempts, env.growth)

	h, err := svc.Hint("ex-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Shown)
	assert.Equal(t, 3, h.Total)
	assert.Equal(t, "Store numbers you have already seen in a dict", h.Hint)

	h, err = svc.Hint("ex-1", 7)
	require.NoError(t, err)
	assert.Equal(t, 3, h.Shown)
	assert.Equal(t, "Keep the index as the dict value", h.Hint)

	_, err = svc.Hint("ex-404", 0)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}
