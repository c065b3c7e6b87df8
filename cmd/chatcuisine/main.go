package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"chatcuisine/internal/common/logger"
	"chatcuisine/internal/config"
	"chatcuisine/internal/connections/database"
	"chatcuisine/internal/connections/rabbitmq"
	"chatcuisine/internal/microservices/courier"
	"chatcuisine/internal/microservices/notificator"
	"chatcuisine/internal/microservices/order"
	"chatcuisine/internal/microservices/tracker"
)

var configPath string

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.New("bootstrap").Error("fatal", err, nil)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chatcuisine",
		Short:         "Conversational food ordering backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config (default: ./config.yaml)")

	root.AddCommand(
		newWebhookCmd(),
		newCourierCmd(),
		newNotifierCmd(),
		newTrackingCmd(),
		newMigrateCmd(),
	)
	return root
}

func newWebhookCmd() *cobra.Command {
	var (
		port          int
		maxConcurrent int
	)
	cmd := &cobra.Command{
		Use:   "webhook-service",
		Short: "Serve the conversational agent's fulfillment webhook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("max-concurrent") {
				cfg.Server.MaxConcurrent = maxConcurrent
			}

			ctx := cmd.Context()
			db, err := connectDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			// The broker is optional here; without it placed orders are not announced.
			var rmq *rabbitmq.Client
			if cfg.RabbitMQ.Enabled() {
				if rmq, err = connectRabbit(cfg); err != nil {
					return err
				}
				defer rmq.Close()
			}
			return order.Run(ctx, cfg, db, rmq)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (overrides server.port)")
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 0, "max in-flight webhook requests (overrides server.max_concurrent)")
	return cmd
}

func newCourierCmd() *cobra.Command {
	var (
		workerName string
		prefetch   int
	)
	cmd := &cobra.Command{
		Use:   "courier-worker",
		Short: "Move placed orders through delivery",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if workerName != "" {
				cfg.Courier.WorkerName = workerName
			}
			if cmd.Flags().Changed("prefetch") {
				cfg.Courier.Prefetch = prefetch
			}
			if cfg.Courier.WorkerName == "" {
				return errors.New("--worker-name is required for courier-worker")
			}
			if !cfg.RabbitMQ.Enabled() {
				return errors.New("courier-worker needs rabbitmq.host")
			}

			ctx := cmd.Context()
			db, err := connectDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			rmq, err := connectRabbit(cfg)
			if err != nil {
				return err
			}
			defer rmq.Close()

			return courier.Run(ctx, cfg.Courier, db, rmq)
		},
	}
	cmd.Flags().StringVar(&workerName, "worker-name", "", "unique courier name (overrides courier.worker_name)")
	cmd.Flags().IntVar(&prefetch, "prefetch", 1, "RabbitMQ prefetch")
	return cmd
}

func newNotifierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notification-subscriber",
		Short: "Log every order status change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.RabbitMQ.Enabled() {
				return errors.New("notification-subscriber needs rabbitmq.host")
			}
			rmq, err := connectRabbit(cfg)
			if err != nil {
				return err
			}
			defer rmq.Close()

			return notificator.Start(cmd.Context(), rmq)
		},
	}
}

func newTrackingCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "tracking-service",
		Short: "Serve the read-only order tracking API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := connectDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			return tracker.Start(cmd.Context(), port, db)
		},
	}
	cmd.Flags().IntVar(&port, "port", 3002, "HTTP port")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the order store schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := connectDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			logger.New("bootstrap").Info("schema_migrated", map[string]any{"driver": db.Driver})
			return nil
		},
	}
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.FindConfig()
		if err != nil {
			return nil, fmt.Errorf("no config file found, pass --config: %w", err)
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	return cfg, nil
}

// connectDB waits for the database and brings the schema up to date.
func connectDB(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.New("bootstrap").Info("db_connected", map[string]any{"driver": db.Driver})
	return db, nil
}

func connectRabbit(cfg *config.Config) (*rabbitmq.Client, error) {
	rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
	if err != nil {
		return nil, err
	}
	if err := rmq.DeclareTopology(); err != nil {
		rmq.Close()
		return nil, err
	}
	logger.New("bootstrap").Info("rabbitmq_connected", map[string]any{"host": cfg.RabbitMQ.Host})
	return rmq, nil
}
