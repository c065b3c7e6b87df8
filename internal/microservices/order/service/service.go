package service

import (
	"chatcuisine/internal/common/logger"
	"chatcuisine/internal/microservices/order/repository"
)

type Service struct {
	OrderService OrderServiceInterface
	Dispatcher   DispatcherInterface
}

func New(db *repository.Repository, sessions Sessions, tracking TrackingReader, events Publisher, lg *logger.Logger) *Service {
	orders := NewOrderService(db.OrderRepo, sessions, tracking, events, lg)
	return &Service{
		OrderService: orders,
		Dispatcher:   NewDispatcher(orders),
	}
}
