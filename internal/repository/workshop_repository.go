package repository

import (
	"syntax_feed_backend/internal/model"
	"syntax_feed_backend/internal/util"

	"gorm.io/gorm"
)

type WorkshopRepository struct {
	DB *gorm.DB
}

func NewWorkshopRepository(db *gorm.DB) *WorkshopRepository {
	return &WorkshopRepository{DB: db}
}

func (r *WorkshopRepository) CountByWorkshop() (map[string]int, error) {
	var rows []struct {
		WorkshopID string
		Count      int
	}
	err := r.DB.Model(&model.WorkshopRegistration{}).
		Select("workshop_id, COUNT(*) AS count").
		Group("workshop_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.WorkshopID] = row.Count
	}
	return out, nil
}

func (r *WorkshopRepository) RegisteredWorkshops(learnerID string) (map[string]bool, error) {
	var ids []string
	if err := r.DB.Model(&model.WorkshopRegistration{}).Where("learner_id = ?", learnerID).Pluck("workshop_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// Register inserts reg unless the learner is already registered or the
// workshop already holds seats registrations.
func (r *WorkshopRepository) Register(reg *model.WorkshopRegistration, seats int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&model.WorkshopRegistration{}).
			Where("learner_id = ? AND workshop_id = ?", reg.LearnerID, reg.WorkshopID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return util.ErrAlreadyRegistered
		}

		var taken int64
		if err := tx.Model(&model.WorkshopRegistration{}).
			Where("workshop_id = ?", reg.WorkshopID).
			Count(&taken).Error; err != nil {
			return err
		}
		if seats > 0 && int(taken) >= seats {
			return util.ErrWorkshopFull
		}
		return tx.Create(reg).Error
	})
}
