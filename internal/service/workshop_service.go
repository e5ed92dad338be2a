package service

import (
	"sort"
	"strings"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/model"
	"syntax_feed_backend/internal/repository"
	"syntax_feed_backend/pkg/logger"

	"go.uber.org/zap"
)

type WorkshopService struct {
	Catalog      *catalog.Catalog
	WorkshopRepo *repository.WorkshopRepository
}

func NewWorkshopService(cat *catalog.Catalog, workshopRepo *repository.WorkshopRepository) *WorkshopService {
	return &WorkshopService{Catalog: cat, WorkshopRepo: workshopRepo}
}

// List returns workshops by start time with seat counts and the learner's
// registration flag filled in.
func (s *WorkshopService) List(learnerID string) ([]model.Workshop, error) {
	counts, err := s.WorkshopRepo.CountByWorkshop()
	if err != nil {
		return nil, err
	}
	mine := map[string]bool{}
	if learnerID != "" {
		if mine, err = s.WorkshopRepo.RegisteredWorkshops(learnerID); err != nil {
			return nil, err
		}
	}

	list := s.Catalog.Workshops()
	for i := range list {
		list[i].Registered = counts[list[i].ID]
		list[i].IsRegistered = mine[list[i].ID]
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].StartsAt.Before(list[j].StartsAt) })
	return list, nil
}

type WorkshopRegisterRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Email      string `json:"email" binding:"required,email,max=100"`
	Experience string `json:"experience" binding:"required,oneof=beginner some intermediate advanced"`
	AgreeTerms bool   `json:"agreeTerms" binding:"required"`
}

func (s *WorkshopService) Register(learnerID, workshopID string, req WorkshopRegisterRequest) (*model.Workshop, error) {
	ws, err := s.Catalog.Workshop(workshopID)
	if err != nil {
		return nil, err
	}
	reg := &model.WorkshopRegistration{
		LearnerID:  learnerID,
		WorkshopID: ws.ID,
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Experience: req.Experience,
	}
	if err := s.WorkshopRepo.Register(reg, ws.Seats); err != nil {
		return nil, err
	}
	logger.Log.Info("Workshop registration", zap.String("workshopId", ws.ID), zap.String("learnerId", learnerID))

	counts, err := s.WorkshopRepo.CountByWorkshop()
	if err != nil {
		return nil, err
	}
	ws.Registered = counts[ws.ID]
	ws.IsRegistered = true
	return &ws, nil
}
