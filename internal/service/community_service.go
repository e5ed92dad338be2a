package service

import (
	"strings"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/model"
	"syntax_feed_backend/internal/repository"
)

type CommunityService struct {
	Catalog       *catalog.Catalog
	CommunityRepo *repository.CommunityRepository
}

func NewCommunityService(cat *catalog.Catalog, communityRepo *repository.CommunityRepository) *CommunityService {
	return &CommunityService{Catalog: cat, CommunityRepo: communityRepo}
}

// Friends lists the non-suggested fixtures, filtered by q against name and
// handle.
func (s *CommunityService) Friends(learnerID, q string) ([]model.Friend, error) {
	return s.list(learnerID, q, false)
}

func (s *CommunityService) Suggestions(learnerID, q string) ([]model.Friend, error) {
	return s.list(learnerID, q, true)
}

func (s *CommunityService) list(learnerID, q string, suggested bool) ([]model.Friend, error) {
	following, err := s.CommunityRepo.Following(learnerID)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))

	out := []model.Friend{}
	for _, f := range s.Catalog.Friends() {
		if f.Suggested != suggested {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(f.Name), q) &&
			!strings.Contains(strings.ToLower(strings.TrimPrefix(f.Handle, "@")), strings.TrimPrefix(q, "@")) {
			continue
		}
		f.Following = following[f.ID]
		out = append(out, f)
	}
	return out, nil
}

type FollowResponse struct {
	FriendID  string `json:"friendId"`
	Following bool   `json:"following"`
}

// ToggleFollow follows or unfollows a fixture.
func (s *CommunityService) ToggleFollow(learnerID, friendID string) (*FollowResponse, error) {
	if _, err := s.Catalog.Friend(friendID); err != nil {
		return nil, err
	}
	following, err := s.CommunityRepo.ToggleFollow(learnerID, friendID)
	if err != nil {
		return nil, err
	}
	return &FollowResponse{FriendID: friendID, Following: following}, nil
}
