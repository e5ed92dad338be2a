package repository

import (
	"syntax_feed_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(a *model.ExerciseAttempt) error {
	return r.DB.Create(a).Error
}

// SolvedExercises lists exercises the learner passed at least once.
func (r *AttemptRepository) SolvedExercises(learnerID string) (map[string]bool, error) {
	var ids []string
	err := r.DB.Model(&model.ExerciseAttempt{}).
		Where("learner_id = ? AND all_passed = ?", learnerID, true).
		Distinct().
		Pluck("exercise_id", &ids).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *AttemptRepository) CountByLearner(learnerID string) (int64, error) {
	var n int64
	err := r.DB.Model(&model.ExerciseAttempt{}).Where("learner_id = ?", learnerID).Count(&n).Error
	return n, err
}
