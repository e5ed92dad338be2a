package repository

import (
	"testing"

	"syntax_feed_backend/internal/model"
	"syntax_feed_backend/internal/util"
	"syntax_feed_backend/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func TestLearnerRepository(t *testing.T) {
	repo := NewLearnerRepository(newTestDB(t))

	l := &model.Learner{DisplayName: "guest"}
	require.NoError(t, repo.Create(l))
	require.NotEmpty(t, l.ID)

	got, err := repo.FindByID(l.ID)
	require.NoError(t, err)
	assert.Equal(t, "guest", got.DisplayName)

	_, err = repo.FindByID("missing")
	assert.ErrorIs(t, err, util.ErrLearnerNotFound)
}

func TestReactionRepository(t *testing.T) {
	repo := NewReactionRepository(newTestDB(t))

	require.NoError(t, repo.SetReaction("l1", "3", true, false))
	require.NoError(t, repo.SetReaction("l1", "3", true, true))
	require.NoError(t, repo.SetReaction("l1", "3", false, true))
	require.NoError(t, repo.SetReaction("l1", "5", true, true))
	require.NoError(t, repo.SetReaction("l1", "5", false, false))

	rows, err := repo.FindByLearner("l1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byLesson := map[string]model.LessonReaction{}
	for _, r := range rows {
		byLesson[r.LessonID] = r
	}
	assert.False(t, byLesson["3"].Liked)
	assert.True(t, byLesson["3"].Saved)
	assert.False(t, byLesson["5"].Liked, "false overwrites a stored true")
	assert.False(t, byLesson["5"].Saved)
}

func TestProgressRepository(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	require.NoError(t, repo.MarkComplete("l1", "1", 1))
	require.NoError(t, repo.MarkComplete("l1", "1", 1))
	require.NoError(t, repo.MarkComplete("l1", "1", 2))
	require.NoError(t, repo.MarkComplete("l1", "2", 4))

	done, err := repo.CompletedLessons("l1", "1")
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 2: true}, done)

	require.NoError(t, repo.MarkIncomplete("l1", "1", 2))
	require.NoError(t, repo.MarkComplete("l1", "1", 2), "can complete again after undo")

	enrolled, err := repo.EnrolledCourses("l1")
	require.NoError(t, err)
	require.Len(t, enrolled, 2)
	counts := map[string]int{}
	for _, e := range enrolled {
		counts[e.CourseID] = e.Completed
	}
	assert.Equal(t, map[string]int{"1": 2, "2": 1}, counts)
}

func TestProfileRepository(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t))

	p, err := repo.FindOnboarding("l1")
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, repo.SaveOnboarding(&model.OnboardingProfile{LearnerID: "l1", SkillLevel: "beginner", Languages: []string{"python"}}))
	require.NoError(t, repo.SaveOnboarding(&model.OnboardingProfile{LearnerID: "l1", SkillLevel: "advanced", Languages: []string{"go", "rust"}, Goals: []string{"career"}}))

	p, err = repo.FindOnboarding("l1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "advanced", p.SkillLevel)
	assert.Equal(t, []string{"go", "rust"}, p.Languages)

	s := model.DefaultSettings("l1")
	s.Autoplay = false
	require.NoError(t, repo.SaveSettings(s))
	got, err := repo.FindSettings("l1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Autoplay)
	assert.Equal(t, model.DataUsageWifi, got.DataUsage)
}

func TestCommunityRepository(t *testing.T) {
	repo := NewCommunityRepository(newTestDB(t))

	on, err := repo.ToggleFollow("l1", "f-1")
	require.NoError(t, err)
	assert.True(t, on)

	following, err := repo.Following("l1")
	require.NoError(t, err)
	assert.True(t, following["f-1"])

	on, err = repo.ToggleFollow("l1", "f-1")
	require.NoError(t, err)
	assert.False(t, on)

	on, err = repo.ToggleFollow("l1", "f-1")
	require.NoError(t, err)
	assert.True(t, on)
}

func TestWorkshopRepository(t *testing.T) {
	repo := NewWorkshopRepository(newTestDB(t))

	require.NoError(t, repo.Register(&model.WorkshopRegistration{LearnerID: "a", WorkshopID: "w"}, 2))
	assert.ErrorIs(t, repo.Register(&model.WorkshopRegistration{LearnerID: "a", WorkshopID: "w"}, 2), util.ErrAlreadyRegistered)
	require.NoError(t, repo.Register(&model.WorkshopRegistration{LearnerID: "b", WorkshopID: "w"}, 2))
	assert.ErrorIs(t, repo.Register(&model.WorkshopRegistration{LearnerID: "c", WorkshopID: "w"}, 2), util.ErrWorkshopFull)

	counts, err := repo.CountByWorkshop()
	require.NoError(t, err)
	assert.Equal(t, 2, counts["w"])

	mine, err := repo.RegisteredWorkshops("b")
	require.NoError(t, err)
	assert.True(t, mine["w"])
}

func TestAttemptRepository(t *testing.T) {
	repo := NewAttemptRepository(newTestDB(t))

	require.NoError(t, repo.Create(&model.ExerciseAttempt{LearnerID: "l1", ExerciseID: "ex-1", Passed: 1, Total: 3}))
	require.NoError(t, repo.Create(&model.ExerciseAttempt{LearnerID: "l1", ExerciseID: "ex-1", Passed: 3, Total: 3, AllPassed: true}))
	require.NoError(t, repo.Create(&model.ExerciseAttempt{LearnerID: "l1", ExerciseID: "ex-2", Passed: 0, Total: 2}))

	solved, err := repo.SolvedExercises("l1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"ex-1": true}, solved)

	n, err := repo.CountByLearner("l1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestActivityRepository(t *testing.T) {
	repo := NewActivityRepository(newTestDB(t))

	require.NoError(t, repo.Increment("l1", "2026-01-02"))
	require.NoError(t, repo.Increment("l1", "2026-01-02"))
	require.NoError(t, repo.Increment("l1", "2026-01-01"))
	require.NoError(t, repo.Increment("l2", "2026-01-02"))

	days, err := repo.FindByLearner("l1")
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-01-01", days[0].Day)
	assert.Equal(t, 2, days[1].Count)

	since, err := repo.FindSince("l1", "2026-01-02")
	require.NoError(t, err)
	assert.Len(t, since, 1)

	n, err := repo.ActiveLearnersOn("2026-01-02")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
