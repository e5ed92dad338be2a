package repository

import (
	"syntax_feed_backend/internal/model"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{DB: db}
}

func (r *CommunityRepository) Following(learnerID string) (map[string]bool, error) {
	var ids []string
	if err := r.DB.Model(&model.Follow{}).Where("learner_id = ?", learnerID).Pluck("friend_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// ToggleFollow follows friendID, or unfollows when already following, and
// reports the new state.
func (r *CommunityRepository) ToggleFollow(learnerID, friendID string) (bool, error) {
	following := false
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().
			Where("learner_id = ? AND friend_id = ?", learnerID, friendID).
			Delete(&model.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		following = true
		return tx.Create(&model.Follow{LearnerID: learnerID, FriendID: friendID}).Error
	})
	return following, err
}
