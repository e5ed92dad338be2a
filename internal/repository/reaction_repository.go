package repository

import (
	"syntax_feed_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReactionRepository struct {
	DB *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{DB: db}
}

// SetReaction stores both flags for the lesson. Callers pass the full state
// the learner sees so an untouched flag is never reset to false.
func (r *ReactionRepository) SetReaction(learnerID, lessonID string, liked, saved bool) error {
	row := model.LessonReaction{LearnerID: learnerID, LessonID: lessonID, Liked: liked, Saved: saved}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "learner_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"liked", "saved", "updated_at"}),
	}).Create(&row).Error
}

func (r *ReactionRepository) FindByLearner(learnerID string) ([]model.LessonReaction, error) {
	var rows []model.LessonReaction
	err := r.DB.Where("learner_id = ?", learnerID).Order("updated_at DESC").Find(&rows).Error
	return rows, err
}
