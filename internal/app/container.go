package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/sharvarianand/tasktuner/internal/productivity/application/queries"
	"github.com/sharvarianand/tasktuner/internal/productivity/application/services"
	"github.com/sharvarianand/tasktuner/internal/productivity/application/subscribers"
	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
	"github.com/sharvarianand/tasktuner/internal/productivity/infrastructure/adjustment"
	"github.com/sharvarianand/tasktuner/internal/productivity/infrastructure/persistence"
	"github.com/sharvarianand/tasktuner/internal/productivity/infrastructure/usercontext"
	"github.com/sharvarianand/tasktuner/internal/shared/infrastructure/database"
	_ "github.com/sharvarianand/tasktuner/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/sharvarianand/tasktuner/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/sharvarianand/tasktuner/internal/shared/infrastructure/eventbus"
	"github.com/sharvarianand/tasktuner/pkg/config"
	"github.com/sharvarianand/tasktuner/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Observability
	Metrics    observability.Metrics
	Prometheus *observability.PrometheusMetrics
	Health     *observability.HealthRegistry

	// Task store, nil when DATABASE_DRIVER is none
	DBConn     database.Connection
	TaskReader task.Reader

	// Redis, nil when REDIS_URL is unset or unreachable
	RedisClient *redis.Client

	// Engine signals
	UserContexts task.UserContextRepository
	Adjustments  task.AdjustmentSource
	Breaker      *adjustment.BreakerSource

	// Events, nil when EVENTS_ENABLED is false
	EventPublisher eventbus.Publisher

	Engine *services.PriorityEngine

	// Query handlers
	PrioritizeTasksHandler *queries.PrioritizeTasksHandler
	ScoreTaskHandler       *queries.ScoreTaskHandler
	ExplainTaskHandler     *queries.ExplainTaskHandler
}

// NewContainer wires every collaborator named by cfg. Optional collaborators
// that are unreachable degrade to in-process fallbacks outside production.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	prom := observability.NewPrometheusMetrics()
	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Metrics:    prom,
		Prometheus: prom,
		Health:     observability.NewHealthRegistry(),
	}

	engineCfg, err := config.LoadWeightProfile(cfg.WeightProfilePath)
	if err != nil {
		return nil, err
	}
	c.Engine, err = services.NewPriorityEngine(engineCfg, services.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create priority engine: %w", err)
	}

	steps := []func(context.Context) error{
		c.initTaskStore,
		c.initRedis,
		c.initEvents,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}

	deps := queries.Dependencies{
		Tasks:       c.TaskReader,
		Contexts:    c.UserContexts,
		Adjustments: c.Adjustments,
		Publisher:   c.EventPublisher,
		Metrics:     c.Metrics,
		Logger:      logger,
	}
	c.PrioritizeTasksHandler = queries.NewPrioritizeTasksHandler(c.Engine, deps)
	c.ScoreTaskHandler = queries.NewScoreTaskHandler(c.Engine, deps)
	c.ExplainTaskHandler = queries.NewExplainTaskHandler(c.Engine, deps)

	logger.Info("container initialized",
		"task_store", cfg.DatabaseDriver,
		"redis", c.RedisClient != nil,
		"events", c.EventPublisher != nil,
	)
	return c, nil
}

func (c *Container) initTaskStore(ctx context.Context) error {
	if !c.Config.HasTaskStore() {
		c.Logger.Info("no task store configured; tasks must be supplied per request")
		return nil
	}

	driver, err := database.ParseDriver(c.Config.DatabaseDriver)
	if err != nil {
		return err
	}
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     driver,
		URL:        c.Config.DatabaseURL,
		SQLitePath: c.Config.SQLitePath,
		MaxConns:   c.Config.DatabaseMaxConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to task store: %w", err)
	}
	c.DBConn = conn

	if err := database.Migrate(ctx, conn); err != nil {
		return err
	}

	reader, err := persistence.NewTaskReader(conn, c.Metrics)
	if err != nil {
		return err
	}
	c.TaskReader = reader
	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))

	c.Logger.Info("connected to task store", "driver", conn.Driver().String())
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	c.UserContexts = usercontext.NewMemoryStore()
	if c.Config.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if c.Config.IsProduction() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, user contexts stay in memory and ML adjustments are off", "error", err)
		return nil
	}
	c.RedisClient = client

	c.UserContexts = usercontext.NewRedisStore(client, c.Config.UserContextTTL)

	breakerCfg := adjustment.DefaultBreakerConfig()
	breakerCfg.FailureThreshold = uint32(c.Config.MLBreakerFailures)
	breakerCfg.OpenTimeout = c.Config.MLBreakerTimeout
	c.Breaker = adjustment.NewBreakerSource(adjustment.NewRedisSource(client), breakerCfg, c.Metrics, c.Logger)
	c.Adjustments = c.Breaker

	c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Health.Register("ml_adjustments", observability.BreakerHealthChecker("ml_adjustments", c.Breaker.State))

	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) initEvents(_ context.Context) error {
	if !c.Config.EventsEnabled {
		return nil
	}

	if c.Config.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(eventbus.RabbitMQConfig{
			URL:   c.Config.RabbitMQURL,
			AppID: observability.ServiceName,
		}, c.Logger)
		if err == nil {
			c.EventPublisher = publisher
			c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(publisher.Ping))
			return nil
		}
		if c.Config.IsProduction() {
			return err
		}
		c.Logger.Warn("RabbitMQ not available, ranking events stay in process", "error", err)
	}

	bus := eventbus.NewLocalBus(c.Logger)
	bus.RegisterConsumer(subscribers.NewRankingSubscriber(c.Metrics, c.Logger))
	c.EventPublisher = bus
	return nil
}

// Close releases every connection the container opened.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing task store", "error", err)
		} else {
			c.Logger.Info("task store closed", "driver", c.DBConn.Driver().String())
		}
	}
}
