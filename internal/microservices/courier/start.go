package courier

import (
	"context"

	"chatcuisine/internal/common/logger"
	"chatcuisine/internal/config"
	"chatcuisine/internal/connections/database"
	"chatcuisine/internal/connections/rabbitmq"
	"chatcuisine/internal/microservices/courier/repository"
	"chatcuisine/internal/microservices/courier/service"
)

func Run(ctx context.Context, cfg config.CourierConfig, db *database.DB, rmqClient *rabbitmq.Client) error {
	lg := logger.New("courier-worker")
	svc := service.New(repository.New(db), rmqClient, cfg, lg)

	if err := svc.CourierService.Run(ctx); err != nil {
		lg.Error("worker_stopped", err, map[string]any{"worker": cfg.WorkerName})
		return err
	}
	return nil
}
