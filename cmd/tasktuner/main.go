package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sharvarianand/tasktuner/adapter/cli"
	"github.com/sharvarianand/tasktuner/adapter/cli/mcp"
	"github.com/sharvarianand/tasktuner/adapter/cli/priority"
	"github.com/sharvarianand/tasktuner/adapter/cli/serve"
	"github.com/sharvarianand/tasktuner/internal/app"
	mcpinternal "github.com/sharvarianand/tasktuner/internal/mcp"
	"github.com/sharvarianand/tasktuner/pkg/config"
	"github.com/sharvarianand/tasktuner/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger := observability.LoggerFromEnv()
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version))
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cli.SetApp(mcpinternal.NewCLIApp(container, cfg.DefaultUserID()))

	// Register commands
	cli.AddCommand(priority.Cmd)
	cli.AddCommand(serve.Cmd)
	cli.AddCommand(mcp.Cmd)

	// Execute CLI
	cli.Execute(ctx)
}
