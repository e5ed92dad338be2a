package repository

import (
	"syntax_feed_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

// Increment bumps the learner's counter for day (YYYY-MM-DD), creating it.
func (r *ActivityRepository) Increment(learnerID, day string) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "learner_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("activity_days.count + 1"),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&model.ActivityDay{LearnerID: learnerID, Day: day, Count: 1}).Error
}

// FindByLearner returns every active day in ascending order.
func (r *ActivityRepository) FindByLearner(learnerID string) ([]model.ActivityDay, error) {
	var days []model.ActivityDay
	err := r.DB.Where("learner_id = ? AND count > 0", learnerID).Order("day ASC").Find(&days).Error
	return days, err
}

func (r *ActivityRepository) FindSince(learnerID, fromDay string) ([]model.ActivityDay, error) {
	var days []model.ActivityDay
	err := r.DB.Where("learner_id = ? AND day >= ?", learnerID, fromDay).Order("day ASC").Find(&days).Error
	return days, err
}

// ActiveLearnersOn counts learners with any activity on day.
func (r *ActivityRepository) ActiveLearnersOn(day string) (int64, error) {
	var n int64
	err := r.DB.Model(&model.ActivityDay{}).Where("day = ? AND count > 0", day).Count(&n).Error
	return n, err
}
