package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for prioritization workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("what_next").
		Description("Pick the next task to work on and explain why it comes first.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("What Should I Do Next", `Help me decide what to work on next. Please:

1. Read my ranked tasks from the tasktuner://tasks/top resource
2. Call priority.explain on the first task

Then tell me:
- Which task to start and the main reason it ranks first
- Whether to start now or wait for a better time, using the recommendation
- Any overdue or urgent task further down the list I should not forget`), nil
		})

	srv.Prompt("triage_backlog").
		Description("Review a long task list, spot stale or postponed work, and suggest what to drop or break down.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Backlog Triage", `Help me triage my backlog. Please:

1. Read the full ranking from the tasktuner://tasks/ranked resource
2. Look at tasks with a low score but a high postpone count

For those tasks, suggest whether to break them down, reschedule or drop them.
Use priority.explain when a score looks surprising.`), nil
		})

	return nil
}

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}
