package mcp

import (
	"github.com/google/uuid"

	"github.com/sharvarianand/tasktuner/adapter/cli"
	"github.com/sharvarianand/tasktuner/internal/app"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container, currentUser uuid.UUID) *cli.App {
	cliApp := cli.NewApp(
		container.PrioritizeTasksHandler,
		container.ScoreTaskHandler,
		container.ExplainTaskHandler,
	)

	cliApp.SetCurrentUserID(currentUser)
	cliApp.SetConfig(container.Config)
	if container.Prometheus != nil {
		cliApp.SetObservability(container.Health, container.Metrics, container.Prometheus.Handler())
	} else {
		cliApp.SetObservability(container.Health, container.Metrics, nil)
	}

	return cliApp
}
