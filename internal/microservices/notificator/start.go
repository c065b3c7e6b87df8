package notificator

import (
	"context"

	"chatcuisine/internal/common/logger"
	"chatcuisine/internal/connections/rabbitmq"
	"chatcuisine/internal/microservices/notificator/service"
)

func Start(ctx context.Context, rmqClient *rabbitmq.Client) error {
	lg := logger.New("notification-subscriber")
	svc := service.New(rmqClient, lg)

	lg.Info("service_started", nil)
	return svc.NotificatorService.Notify(ctx)
}
