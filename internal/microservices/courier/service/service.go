package service

import (
	"chatcuisine/internal/common/logger"
	"chatcuisine/internal/config"
	"chatcuisine/internal/microservices/courier/repository"
)

type Service struct {
	CourierService CourierServiceInterface
}

func New(db *repository.Repository, broker Broker, cfg config.CourierConfig, lg *logger.Logger) *Service {
	return &Service{
		CourierService: NewCourierService(db.CourierRepo, broker, cfg, lg),
	}
}
