package service

import (
	"context"

	"chatcuisine/internal/domain"
	"chatcuisine/internal/microservices/tracker/repository"
)

type TrackerServiceInterface interface {
	GetTracking(ctx context.Context, orderID int64) (domain.Tracking, bool, error)
}

type TrackerService struct {
	repo repository.TrackerRepoInterface
}

func NewTrackerService(repo repository.TrackerRepoInterface) *TrackerService {
	return &TrackerService{repo: repo}
}

func (s *TrackerService) GetTracking(ctx context.Context, orderID int64) (domain.Tracking, bool, error) {
	return s.repo.GetTracking(ctx, orderID)
}
