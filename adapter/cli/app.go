package cli

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/sharvarianand/tasktuner/internal/productivity/application/queries"
	"github.com/sharvarianand/tasktuner/pkg/config"
	"github.com/sharvarianand/tasktuner/pkg/observability"
)

// ErrNotInitialized is returned by commands that run before SetApp.
var ErrNotInitialized = errors.New("application not initialized")

// App holds the CLI application dependencies.
type App struct {
	// Query handlers
	PrioritizeTasksHandler *queries.PrioritizeTasksHandler
	ScoreTaskHandler       *queries.ScoreTaskHandler
	ExplainTaskHandler     *queries.ExplainTaskHandler

	// Observability, used by serve and health
	Health         *observability.HealthRegistry
	Metrics        observability.Metrics
	MetricsHandler http.Handler

	Config *config.Config

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	prioritize *queries.PrioritizeTasksHandler,
	score *queries.ScoreTaskHandler,
	explain *queries.ExplainTaskHandler,
) *App {
	return &App{
		PrioritizeTasksHandler: prioritize,
		ScoreTaskHandler:       score,
		ExplainTaskHandler:     explain,
		Health:                 observability.NewHealthRegistry(),
		Metrics:                observability.NoopMetrics{},
		CurrentUserID:          uuid.Nil,
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// SetObservability replaces the health registry, metrics sink and /metrics handler.
func (a *App) SetObservability(health *observability.HealthRegistry, metrics observability.Metrics, handler http.Handler) {
	if health != nil {
		a.Health = health
	}
	if metrics != nil {
		a.Metrics = metrics
	}
	a.MetricsHandler = handler
}

// SetConfig updates the configuration.
func (a *App) SetConfig(cfg *config.Config) {
	a.Config = cfg
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
