package mcp

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/sharvarianand/tasktuner/adapter/cli"
	mcpinternal "github.com/sharvarianand/tasktuner/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Config == nil {
			return cli.ErrNotInitialized
		}

		err := mcpinternal.Serve(cmd.Context(), app.Config, app, cli.Logger())
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
