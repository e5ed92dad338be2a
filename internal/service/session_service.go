package service

import (
	"errors"
	"strings"
	"time"

	"syntax_feed_backend/internal/config"
	"syntax_feed_backend/internal/model"
	"syntax_feed_backend/internal/repository"
	"syntax_feed_backend/internal/util"
	"syntax_feed_backend/pkg/logger"

	"go.uber.org/zap"
)

type SessionService struct {
	LearnerRepo *repository.LearnerRepository
	Config      *config.Config
}

func NewSessionService(learnerRepo *repository.LearnerRepository, cfg *config.Config) *SessionService {
	return &SessionService{LearnerRepo: learnerRepo, Config: cfg}
}

type SessionRequest struct {
	DisplayName string `json:"displayName" binding:"omitempty,max=100"`
}

type SessionResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Learner   *model.Learner `json:"learner"`
}

// CreateGuest registers an anonymous learner and signs a token for it.
func (s *SessionService) CreateGuest(req SessionRequest) (*SessionResponse, error) {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = "Guest"
	}
	learner := &model.Learner{
		UUIDBase:    model.UUIDBase{ID: model.NewID()},
		DisplayName: name,
		LastSeen:    time.Now(),
	}
	if err := s.LearnerRepo.Create(learner); err != nil {
		return nil, err
	}

	token, exp, err := util.GenerateJWT(learner.ID, s.Config.JWT.Secret, s.Config.JWT.Expire)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Guest session created", zap.String("learnerId", learner.ID))
	return &SessionResponse{Token: token, ExpiresAt: exp, Learner: learner}, nil
}

// Authenticate resolves a token to a learner that still exists.
func (s *SessionService) Authenticate(token string) (*util.Claims, error) {
	claims, err := util.ParseJWT(token, s.Config.JWT.Secret)
	if err != nil {
		return nil, err
	}
	if _, err := s.LearnerRepo.FindByID(claims.LearnerID); err != nil {
		if errors.Is(err, util.ErrLearnerNotFound) {
			return nil, errors.Join(util.ErrInvalidToken, err)
		}
		return nil, err
	}
	if err := s.LearnerRepo.Touch(claims.LearnerID, time.Now()); err != nil {
		logger.Log.Warn("Failed to touch learner", zap.String("learnerId", claims.LearnerID), zap.Error(err))
	}
	return claims, nil
}

func (s *SessionService) Learner(id string) (*model.Learner, error) {
	return s.LearnerRepo.FindByID(id)
}
