// Package serve runs the HTTP API.
package serve

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/sharvarianand/tasktuner/adapter/api"
	"github.com/sharvarianand/tasktuner/adapter/cli"
)

var addr string

// Cmd starts the HTTP API and blocks until interrupted.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.PrioritizeTasksHandler == nil {
			return cli.ErrNotInitialized
		}

		srv := NewServer(app, addr)
		return Run(cmd.Context(), srv)
	},
}

// NewServer builds the API server from the CLI application. An empty addr
// falls back to the configured HTTP_ADDR.
func NewServer(app *cli.App, addr string) *api.Server {
	cfg := api.DefaultServerConfig()
	if app.Config != nil {
		cfg.Addr = app.Config.HTTPAddr
		cfg.RateLimitPerMin = app.Config.RateLimitPerMin
	}
	if addr != "" {
		cfg.Addr = addr
	}

	handler := api.NewPriorityHandler(api.PriorityHandlerConfig{
		Prioritize:    app.PrioritizeTasksHandler,
		Score:         app.ScoreTaskHandler,
		Explain:       app.ExplainTaskHandler,
		DefaultUserID: app.CurrentUserID,
		Logger:        cli.Logger(),
	})
	return api.NewServer(cfg, handler, api.ServerDeps{
		Health:         app.Health,
		MetricsHandler: app.MetricsHandler,
		Metrics:        app.Metrics,
		Logger:         cli.Logger(),
	})
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, srv *api.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "listen address (default HTTP_ADDR)")
}
