package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
)

// Tool inputs carry tasks as loose JSON objects; the task decoder applies the
// same lenient rules as the HTTP API.

func decodeTask(raw map[string]any) (task.Task, error) {
	if raw == nil {
		return task.Task{}, errors.New("task is required")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return task.Task{}, err
	}
	var t task.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return task.Task{}, fmt.Errorf("invalid task: %w", err)
	}
	return t, nil
}

func decodeTasks(raw []map[string]any) ([]task.Task, error) {
	tasks := make([]task.Task, 0, len(raw))
	for i, r := range raw {
		t, err := decodeTask(r)
		if err != nil {
			return nil, fmt.Errorf("tasks[%d]: %w", i, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func decodeUserContext(raw map[string]any) (*task.UserContext, error) {
	if raw == nil {
		return nil, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var uc task.UserContext
	if err := json.Unmarshal(data, &uc); err != nil {
		return nil, fmt.Errorf("invalid user context: %w", err)
	}
	return &uc, nil
}

// parseNow returns nil for an empty value so the engine clock is used.
func parseNow(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	now := task.ParseTimestamp(value)
	if now == nil {
		return nil, errors.New("now must be an RFC 3339 timestamp")
	}
	return now, nil
}
