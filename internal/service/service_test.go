package service

import (
	"sync"
	"testing"
	"time"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/feed"
	"syntax_feed_backend/internal/repository"
	"syntax_feed_backend/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db      *gorm.DB
	catalog *catalog.Catalog

	learners  *repository.LearnerRepository
	reactions *repository.ReactionRepository
	progress  *repository.ProgressRepository
	profiles  *repository.ProfileRepository
	community *repository.CommunityRepository
	workshops *repository.WorkshopRepository
	attempts  *repository.AttemptRepository
	activity  *repository.ActivityRepository

	growth *GrowthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	cat, err := catalog.Default()
	require.NoError(t, err)

	env := &testEnv{
		db:        db,
		catalog:   cat,
		learners:  repository.NewLearnerRepository(db),
		reactions: repository.NewReactionRepository(db),
		progress:  repository.NewProgressRepository(db),
		profiles:  repository.NewProfileRepository(db),
		community: repository.NewCommunityRepository(db),
		workshops: repository.NewWorkshopRepository(db),
		attempts:  repository.NewAttemptRepository(db),
		activity:  repository.NewActivityRepository(db),
	}
	env.growth = NewGrowthService(env.activity, cat)
	return env
}

// fixedClock returns a settable clock for services that take a now func.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *fixedClock { return &fixedClock{t: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// stepScheduler keeps auto-advance callbacks until the test fires them.
type stepScheduler struct {
	mu      sync.Mutex
	pending []func()
}

type stepTimer struct{}

func (stepTimer) Stop() bool { return true }

func (s *stepScheduler) AfterFunc(d time.Duration, f func()) feed.Timer {
	s.mu.Lock()
	s.pending = append(s.pending, f)
	s.mu.Unlock()
	return stepTimer{}
}

func (s *stepScheduler) fire() int {
	s.mu.Lock()
	fns := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, f := range fns {
		f()
	}
	return len(fns)
}

func intPtr(v int) *int { return &v }
