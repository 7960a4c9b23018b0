package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/sharvarianand/tasktuner/adapter/cli"
	"github.com/sharvarianand/tasktuner/internal/productivity/application/queries"
	"github.com/sharvarianand/tasktuner/internal/productivity/application/services"
)

type rankInput struct {
	Tasks       []map[string]any `json:"tasks,omitempty"`
	UserContext map[string]any   `json:"user_context,omitempty"`
	Limit       int              `json:"limit,omitempty"`
}

type scoreInput struct {
	Task         map[string]any `json:"task" jsonschema:"required"`
	UserContext  map[string]any `json:"user_context,omitempty"`
	Now          string         `json:"now,omitempty"`
	MLAdjustment *float64       `json:"ml_adjustment,omitempty"`
}

func registerPriorityTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("priority.rank").
		Description("Rank tasks by priority score, highest first. Omit tasks to rank the user's pending tasks from the task store.").
		Handler(func(ctx context.Context, input rankInput) (*queries.PrioritizeTasksResult, error) {
			return rankTasks(ctx, app, input)
		})

	srv.Tool("priority.score").
		Description("Score a single task and return its components, multipliers and explanation").
		Handler(func(ctx context.Context, input scoreInput) (*services.ScoreResult, error) {
			return scoreTask(ctx, app, input)
		})

	srv.Tool("priority.explain").
		Description("Explain a single task's score factor by factor").
		Handler(func(ctx context.Context, input scoreInput) (*services.FactorExplanation, error) {
			return explainTask(ctx, app, input)
		})

	return nil
}

func rankTasks(ctx context.Context, app *cli.App, input rankInput) (*queries.PrioritizeTasksResult, error) {
	if app == nil || app.PrioritizeTasksHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	if input.Limit < 0 {
		return nil, errors.New("limit must not be negative")
	}

	query := queries.PrioritizeTasksQuery{UserID: app.CurrentUserID, Limit: input.Limit}
	if input.Tasks != nil {
		tasks, err := decodeTasks(input.Tasks)
		if err != nil {
			return nil, err
		}
		query.Tasks = tasks
	}
	uc, err := decodeUserContext(input.UserContext)
	if err != nil {
		return nil, err
	}
	query.UserContext = uc

	return app.PrioritizeTasksHandler.Handle(ctx, query)
}

func singleTaskQuery(app *cli.App, input scoreInput) (queries.ScoreTaskQuery, error) {
	t, err := decodeTask(input.Task)
	if err != nil {
		return queries.ScoreTaskQuery{}, err
	}
	uc, err := decodeUserContext(input.UserContext)
	if err != nil {
		return queries.ScoreTaskQuery{}, err
	}
	now, err := parseNow(input.Now)
	if err != nil {
		return queries.ScoreTaskQuery{}, err
	}
	return queries.ScoreTaskQuery{
		UserID:       app.CurrentUserID,
		Task:         t,
		UserContext:  uc,
		Now:          now,
		MLAdjustment: input.MLAdjustment,
	}, nil
}

func scoreTask(ctx context.Context, app *cli.App, input scoreInput) (*services.ScoreResult, error) {
	if app == nil || app.ScoreTaskHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	query, err := singleTaskQuery(app, input)
	if err != nil {
		return nil, err
	}
	return app.ScoreTaskHandler.Handle(ctx, query)
}

func explainTask(ctx context.Context, app *cli.App, input scoreInput) (*services.FactorExplanation, error) {
	if app == nil || app.ExplainTaskHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	query, err := singleTaskQuery(app, input)
	if err != nil {
		return nil, err
	}
	return app.ExplainTaskHandler.Handle(ctx, query)
}
