package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tuesday
var growthToday = time.Date(2026, time.March, 10, 15, 4, 0, 0, time.UTC)

func TestComputeStreak(t *testing.T) {
	days := []string{
		"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05",
		"2026-03-08", "2026-03-09", "2026-03-10",
		"2026-03-10", // duplicates are ignored
	}
	got := ComputeStreak(days, growthToday, 5)

	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 4, got.LongestStreak)
	assert.True(t, got.TodayComplete)
	assert.Equal(t, 7, got.TotalDays)
	assert.Equal(t, 5, got.WeeklyGoal)
	// week started Monday the 9th
	assert.Equal(t, 2, got.WeeklyProgress)
}

func TestComputeStreakCountsFromYesterday(t *testing.T) {
	got := ComputeStreak([]string{"2026-03-08", "2026-03-09"}, growthToday, 0)
	assert.Equal(t, 2, got.CurrentStreak)
	assert.False(t, got.TodayComplete)
	assert.Equal(t, DefaultWeeklyGoal, got.WeeklyGoal)
}

func TestComputeStreakBroken(t *testing.T) {
	got := ComputeStreak([]string{"2026-03-07", "bogus"}, growthToday, 5)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 1, got.LongestStreak)
	assert.Equal(t, 1, got.TotalDays)
	assert.Equal(t, 0, got.WeeklyProgress)
}

func TestComputeStreakAcrossMonths(t *testing.T) {
	now := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
	got := ComputeStreak([]string{"2026-02-27", "2026-02-28", "2026-03-01"}, now, 5)
	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 3, got.LongestStreak)
}

func TestIntensity(t *testing.T) {
	cases := map[int]int{-1: 0, 0: 0, 1: 1, 2: 2, 3: 2, 4: 3, 6: 3, 7: 4, 50: 4}
	for count, want := range cases {
		assert.Equal(t, want, Intensity(count), "count %d", count)
	}
}

func TestGrowthService(t *testing.T) {
	env := newTestEnv(t)
	clock := newClock(growthToday.AddDate(0, 0, -1))
	svc := env.growth
	svc.now = clock.Now

	require.NoError(t, svc.Record("l1", "quiz"))
	clock.Advance(24 * time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record("l1", "lesson_view"))
	}

	streak, err := svc.Streak("l1")
	require.NoError(t, err)
	assert.Equal(t, 2, streak.CurrentStreak)
	assert.True(t, streak.TodayComplete)

	cal, err := svc.Calendar("l1", 0)
	require.NoError(t, err)
	require.Len(t, cal, CalendarDays)
	assert.Equal(t, "2026-03-10", cal[len(cal)-1].Date)
	assert.Equal(t, 3, cal[len(cal)-1].Count)
	assert.Equal(t, 2, cal[len(cal)-1].Intensity)
	assert.Equal(t, 1, cal[len(cal)-2].Intensity)
	assert.Equal(t, 0, cal[0].Intensity)
	assert.Equal(t, "2026-02-09", cal[0].Date)

	achievements, err := svc.Achievements("l1")
	require.NoError(t, err)
	require.Len(t, achievements, 5)
	for _, a := range achievements {
		assert.Equal(t, a.StreakRequired <= 2, a.Unlocked, a.ID)
	}

	svc.PublicURL = "https://syntax.example"
	share, err := svc.ShareStreak("l1")
	require.NoError(t, err)
	assert.Equal(t, "🔥 2-day learning streak on Syntax! Join me in learning to code! #SyntaxApp #CodingStreak", share.Text)
	assert.Equal(t, "https://syntax.example", share.URL)

	empty, err := svc.Streak("nobody")
	require.NoError(t, err)
	assert.Zero(t, empty.CurrentStreak)
}
