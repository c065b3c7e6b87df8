package order

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"chatcuisine/internal/common/httpx"
	"chatcuisine/internal/common/logger"
	"chatcuisine/internal/config"
	"chatcuisine/internal/connections/database"
	"chatcuisine/internal/connections/rabbitmq"
	"chatcuisine/internal/microservices/order/handlers"
	"chatcuisine/internal/microservices/order/repository"
	"chatcuisine/internal/microservices/order/service"
	trackerhandler "chatcuisine/internal/microservices/tracker/handler"
	trackerrepo "chatcuisine/internal/microservices/tracker/repository"
	trackerservice "chatcuisine/internal/microservices/tracker/service"
	"chatcuisine/internal/session"
)

// Run serves the webhook until ctx is done. rmqClient may be nil, in which
// case placed orders are not announced.
func Run(ctx context.Context, cfg *config.Config, db *database.DB, rmqClient *rabbitmq.Client) error {
	lg := logger.New("webhook-service")

	sessions := session.New(cfg.Session.TTL, session.WithLogger(lg))
	tracking := trackerservice.NewTrackerService(trackerrepo.NewTrackerRepo(db))

	checks := map[string]handlers.Pinger{"database": handlers.PingFunc(db.PingContext)}
	var events service.Publisher
	if rmqClient != nil {
		events = rmqClient
		checks["rabbitmq"] = handlers.PingFunc(func(context.Context) error { return rmqClient.Ping() })
	}

	svc := service.New(repository.New(db), sessions, tracking, events, lg)
	h := handlers.New(svc, trackerhandler.NewTrackerHandler(tracking, lg), checks, lg)
	srv := httpx.New(fmt.Sprintf(":%d", cfg.Server.Port), handlers.NewRouter(h, cfg.Server.MaxConcurrent, lg))

	lg.Info("service_started", map[string]any{
		"port":           cfg.Server.Port,
		"max_concurrent": cfg.Server.MaxConcurrent,
		"session_ttl":    cfg.Session.TTL.String(),
		"events":         rmqClient != nil,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return sessions.Run(gctx, cfg.Session.SweepInterval) })
	err := g.Wait()

	lg.Info("service_stopped", map[string]any{"sessions_open": sessions.Len()})
	return err
}
