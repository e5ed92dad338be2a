package repository

import (
	"errors"

	"syntax_feed_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

// FindOnboarding returns nil, nil when the learner has not onboarded yet.
func (r *ProfileRepository) FindOnboarding(learnerID string) (*model.OnboardingProfile, error) {
	var p model.OnboardingProfile
	if err := r.DB.Where("learner_id = ?", learnerID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) SaveOnboarding(p *model.OnboardingProfile) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "learner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"skill_level", "languages", "goals", "updated_at"}),
	}).Create(p).Error
}

// FindSettings returns nil, nil when nothing was saved yet.
func (r *ProfileRepository) FindSettings(learnerID string) (*model.LearnerSettings, error) {
	var s model.LearnerSettings
	if err := r.DB.Where("learner_id = ?", learnerID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *ProfileRepository) SaveSettings(s *model.LearnerSettings) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "learner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"notifications", "autoplay", "data_usage", "languages", "updated_at"}),
	}).Create(s).Error
}
