package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/sharvarianand/tasktuner/pkg/observability"
)

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("cli.health").
		Description("Report the health of the task store, Redis, the event broker and the ML adjustment breaker").
		Handler(func(ctx context.Context, input struct{}) (observability.OverallHealth, error) {
			if app == nil || app.Health == nil {
				return observability.OverallHealth{}, errors.New("app not initialized")
			}
			return app.Health.GetOverallHealth(ctx), nil
		})

	return nil
}
