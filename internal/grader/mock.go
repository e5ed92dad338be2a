package grader

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"syntax_feed_backend/internal/model"
)

const (
	DefaultRunDelay = time.Second
	DefaultPassRate = 0.7
)

// MockGrader does not execute code. After RunDelay each declared test passes
// with probability PassRate.
type MockGrader struct {
	RunDelay time.Duration
	PassRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMockGrader uses a time-seeded source when rnd is nil.
func NewMockGrader(runDelay time.Duration, passRate float64, rnd *rand.Rand) *MockGrader {
	if runDelay < 0 {
		runDelay = DefaultRunDelay
	}
	if passRate < 0 || passRate > 1 {
		passRate = DefaultPassRate
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MockGrader{RunDelay: runDelay, PassRate: passRate, rnd: rnd}
}

func (g *MockGrader) Name() string { return ModeMock }

func (g *MockGrader) Grade(ctx context.Context, ex model.PracticeExercise, code string) (*Report, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrEmptyCode
	}
	started := time.Now()

	if g.RunDelay > 0 {
		t := time.NewTimer(g.RunDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	g.mu.Lock()
	results := make([]TestResult, len(ex.Tests))
	for i, tc := range ex.Tests {
		results[i] = TestResult{
			Index:       i,
			Description: tc.Description,
			Input:       tc.Input,
			Expected:    tc.Expected,
			Output:      fmt.Sprintf("Mock output %d", i+1),
			Passed:      g.rnd.Float64() < g.PassRate,
		}
	}
	g.mu.Unlock()

	return newReport(g.Name(), ex, results, started), nil
}
