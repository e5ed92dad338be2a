package service

import (
	"context"
	"errors"
	"sync"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/grader"
	"syntax_feed_backend/internal/model"
	"syntax_feed_backend/internal/repository"
	"syntax_feed_backend/pkg/logger"
	"syntax_feed_backend/pkg/monitoring"
	"syntax_feed_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

type PracticeService struct {
	Catalog     *catalog.Catalog
	AttemptRepo *repository.AttemptRepository
	Growth      *GrowthService

	mu     sync.RWMutex
	grader grader.Grader
}

func NewPracticeService(cat *catalog.Catalog, g grader.Grader, attemptRepo *repository.AttemptRepository, growth *GrowthService) *PracticeService {
	return &PracticeService{Catalog: cat, AttemptRepo: attemptRepo, Growth: growth, grader: g}
}

// SetGrader swaps the grader after a config reload. Runs in flight finish on
// the old one.
func (s *PracticeService) SetGrader(g grader.Grader) {
	s.mu.Lock()
	s.grader = g
	s.mu.Unlock()
	logger.Log.Info("Practice grader set", zap.String("grader", g.Name()))
}

func (s *PracticeService) Grader() grader.Grader {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grader
}

type ExerciseSummary struct {
	model.PracticeExercise
	HintCount int  `json:"hintCount"`
	Solved    bool `json:"solved"`
}

func (s *PracticeService) List(learnerID, language string) ([]ExerciseSummary, error) {
	solved := map[string]bool{}
	if learnerID != "" {
		var err error
		if solved, err = s.AttemptRepo.SolvedExercises(learnerID); err != nil {
			return nil, err
		}
	}
	exercises := s.Catalog.Exercises(language)
	out := make([]ExerciseSummary, len(exercises))
	for i, ex := range exercises {
		out[i] = ExerciseSummary{PracticeExercise: ex, HintCount: len(ex.Hints), Solved: solved[ex.ID]}
	}
	return out, nil
}

func (s *PracticeService) Get(learnerID, id string) (*ExerciseSummary, error) {
	ex, err := s.Catalog.Exercise(id)
	if err != nil {
		return nil, err
	}
	sum := &ExerciseSummary{PracticeExercise: ex, HintCount: len(ex.Hints)}
	if learnerID != "" {
		solved, err := s.AttemptRepo.SolvedExercises(learnerID)
		if err != nil {
			return nil, err
		}
		sum.Solved = solved[id]
	}
	return sum, nil
}

type RunRequest struct {
	Code string `json:"code" binding:"required,max=65536"`
}

// Run grades code against the exercise and records the attempt.
func (s *PracticeService) Run(ctx context.Context, learnerID, exerciseID, code string) (*grader.Report, error) {
	ex, err := s.Catalog.Exercise(exerciseID)
	if err != nil {
		return nil, err
	}
	g := s.Grader()

	ctx, span := tracing.StartSpan(ctx, "practice.run",
		attribute.String("exercise.id", ex.ID),
		attribute.String("exercise.language", ex.Language),
		attribute.String("grader", g.Name()))
	defer span.End()

	report, err := g.Grade(ctx, ex, code)
	if err != nil {
		result := "error"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result = "cancelled"
		}
		monitoring.GraderRuns.WithLabelValues(g.Name(), result).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := "failed"
	if report.AllPassed {
		result = "passed"
	}
	monitoring.GraderRuns.WithLabelValues(g.Name(), result).Inc()
	monitoring.GraderDuration.WithLabelValues(g.Name()).Observe(report.Duration.Seconds())
	span.SetAttributes(attribute.Int("tests.passed", report.Passed), attribute.Int("tests.total", report.Total))

	attempt := &model.ExerciseAttempt{
		LearnerID:  learnerID,
		ExerciseID: ex.ID,
		Grader:     g.Name(),
		Passed:     report.Passed,
		Total:      report.Total,
		AllPassed:  report.AllPassed,
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		logger.Log.Error("Failed to store attempt", zap.String("exerciseId", ex.ID), zap.Error(err))
	}
	if s.Growth != nil {
		if err := s.Growth.Record(learnerID, model.ActivityPractice); err != nil {
			logger.Log.Warn("Failed to record practice activity", zap.Error(err))
		}
	}
	return report, nil
}

type HintRequest struct {
	Shown int `json:"shown" binding:"min=0"`
}

type HintResponse struct {
	Shown int    `json:"shown"`
	Total int    `json:"total"`
	Hint  string `json:"hint"`
}

func (s *PracticeService) Hint(exerciseID string, shown int) (*HintResponse, error) {
	ex, err := s.Catalog.Exercise(exerciseID)
	if err != nil {
		return nil, err
	}
	n, hint := grader.NextHint(ex, shown)
	return &HintResponse{Shown: n, Total: len(ex.Hints), Hint: hint}, nil
}
