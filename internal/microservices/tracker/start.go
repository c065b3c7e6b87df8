package tracker

import (
	"context"
	"fmt"

	"chatcuisine/internal/common/httpx"
	"chatcuisine/internal/common/logger"
	"chatcuisine/internal/connections/database"
	"chatcuisine/internal/microservices/tracker/handler"
	"chatcuisine/internal/microservices/tracker/repository"
	"chatcuisine/internal/microservices/tracker/service"
)

// Start serves the read-only tracking API on port until ctx is done.
func Start(ctx context.Context, port int, db *database.DB) error {
	lg := logger.New("tracking-service")
	svc := service.NewTrackerService(repository.NewTrackerRepo(db))
	srv := httpx.New(fmt.Sprintf(":%d", port), handler.Router(handler.NewTrackerHandler(svc, lg)))

	lg.Info("service_started", map[string]any{"port": port})
	return srv.Run(ctx)
}
