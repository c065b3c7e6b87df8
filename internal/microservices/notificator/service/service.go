package service

import "chatcuisine/internal/common/logger"

type Service struct {
	NotificatorService *NotificatorService
}

func New(rmqClient Subscriber, lg *logger.Logger) *Service {
	return &Service{NotificatorService: NewNotificatorService(rmqClient, lg)}
}
