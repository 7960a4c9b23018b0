package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/sharvarianand/tasktuner/adapter/cli"
	"github.com/sharvarianand/tasktuner/internal/productivity/application/queries"
)

const (
	rankedTasksURI = "tasktuner://tasks/ranked"
	topTasksURI    = "tasktuner://tasks/top"
	topTasksLimit  = 5
)

// RegisterResources registers MCP resources that expose ranked task lists.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	srv.Resource(rankedTasksURI).
		Name("Ranked Tasks").
		Description("Pending tasks of the current user, ranked by priority score").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return rankedResource(ctx, app, uri, 0)
		})

	srv.Resource(topTasksURI).
		Name("Top Tasks").
		Description("The five highest ranked pending tasks").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return rankedResource(ctx, app, uri, topTasksLimit)
		})

	return nil
}

func rankedResource(ctx context.Context, app *cli.App, uri string, limit int) (*mcp.ResourceContent, error) {
	if app == nil || app.PrioritizeTasksHandler == nil {
		return nil, cli.ErrNotInitialized
	}

	result, err := app.PrioritizeTasksHandler.Handle(ctx, queries.PrioritizeTasksQuery{
		UserID: app.CurrentUserID,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, err
	}

	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
