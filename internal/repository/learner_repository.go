package repository

import (
	"errors"
	"time"

	"syntax_feed_backend/internal/model"
	"syntax_feed_backend/internal/util"

	"gorm.io/gorm"
)

type LearnerRepository struct {
	DB *gorm.DB
}

func NewLearnerRepository(db *gorm.DB) *LearnerRepository {
	return &LearnerRepository{DB: db}
}

func (r *LearnerRepository) Create(learner *model.Learner) error {
	return r.DB.Create(learner).Error
}

func (r *LearnerRepository) FindByID(id string) (*model.Learner, error) {
	var learner model.Learner
	if err := r.DB.First(&learner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLearnerNotFound
		}
		return nil, err
	}
	return &learner, nil
}

func (r *LearnerRepository) Touch(id string, at time.Time) error {
	return r.DB.Model(&model.Learner{}).Where("id = ?", id).Update("last_seen", at).Error
}
