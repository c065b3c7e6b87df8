package handlers

import (
	"chatcuisine/internal/common/logger"
	"chatcuisine/internal/microservices/order/service"
	trackerhandler "chatcuisine/internal/microservices/tracker/handler"
)

type Handler struct {
	OrderHandler   *OrderHandler
	TrackerHandler *trackerhandler.TrackerHandler
	HealthHandler  *HealthHandler
}

func New(s *service.Service, tracker *trackerhandler.TrackerHandler, checks map[string]Pinger, lg *logger.Logger) *Handler {
	return &Handler{
		OrderHandler:   NewOrderHandler(s.Dispatcher, lg),
		TrackerHandler: tracker,
		HealthHandler:  NewHealthHandler(checks),
	}
}
