package grader

import (
	"context"
	"errors"
	"time"

	"syntax_feed_backend/internal/model"
)

const (
	ModeMock   = "mock"
	ModeJudge0 = "judge0"
)

var (
	ErrEmptyCode           = errors.New("code is empty")
	ErrUnsupportedLanguage = errors.New("language not supported by grader")
	ErrGraderUnavailable   = errors.New("grader unavailable")
)

// Grader runs a learner's code against an exercise's declared tests.
type Grader interface {
	Name() string
	Grade(ctx context.Context, ex model.PracticeExercise, code string) (*Report, error)
}

type TestResult struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Input       string `json:"input"`
	Expected    string `json:"expected"`
	Output      string `json:"output"`
	Passed      bool   `json:"passed"`
}

// Report is one grading run. AllPassed marks the exercise complete.
type Report struct {
	ExerciseID string        `json:"exerciseId"`
	Grader     string        `json:"grader"`
	Results    []TestResult  `json:"results"`
	Passed     int           `json:"passed"`
	Total      int           `json:"total"`
	AllPassed  bool          `json:"allPassed"`
	Duration   time.Duration `json:"duration"`
}

func newReport(grader string, ex model.PracticeExercise, results []TestResult, started time.Time) *Report {
	r := &Report{
		ExerciseID: ex.ID,
		Grader:     grader,
		Results:    results,
		Total:      len(results),
		Duration:   time.Since(started),
	}
	for _, res := range results {
		if res.Passed {
			r.Passed++
		}
	}
	r.AllPassed = r.Passed == r.Total
	return r
}

// NextHint returns how many hints are visible after asking for one more,
// never more than the exercise has.
func NextHint(ex model.PracticeExercise, shown int) (int, string) {
	if shown < 0 {
		shown = 0
	}
	if len(ex.Hints) == 0 {
		return 0, ""
	}
	if shown >= len(ex.Hints) {
		return len(ex.Hints), ex.Hints[len(ex.Hints)-1]
	}
	return shown + 1, ex.Hints[shown]
}

// Config selects and tunes the grader.
type Config struct {
	Mode     string        `mapstructure:"mode"`
	PassRate float64       `mapstructure:"pass_rate"`
	RunDelay time.Duration `mapstructure:"run_delay"`
	Judge0   Judge0Config  `mapstructure:"judge0"`
}

// New builds the grader named by cfg.Mode. Anything but judge0 gets the mock.
func New(cfg Config) Grader {
	if cfg.Mode == ModeJudge0 && cfg.Judge0.URL != "" {
		return NewJudge0Grader(cfg.Judge0)
	}
	return NewMockGrader(cfg.RunDelay, cfg.PassRate, nil)
}
