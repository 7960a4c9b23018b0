// Package priority holds the ranking and explanation commands.
package priority

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
)

// Cmd is the priority command group.
var Cmd = &cobra.Command{
	Use:   "priority",
	Short: "Rank and explain tasks",
}

func init() {
	Cmd.AddCommand(rankCmd)
	Cmd.AddCommand(explainCmd)
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// decodeTasks accepts a bare JSON array or an object with a "tasks" array.
func decodeTasks(data []byte) ([]task.Task, error) {
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("{")) {
		var wrapper struct {
			Tasks json.RawMessage `json:"tasks"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("decode tasks: %w", err)
		}
		data = bytes.TrimSpace(wrapper.Tasks)
	}
	if !bytes.HasPrefix(data, []byte("[")) {
		return nil, errors.New("tasks must be a JSON array")
	}

	tasks := make([]task.Task, 0)
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

func loadUserContext(cmd *cobra.Command, path string) (*task.UserContext, error) {
	if path == "" {
		return nil, nil
	}
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	var uc task.UserContext
	if err := json.Unmarshal(data, &uc); err != nil {
		return nil, fmt.Errorf("decode user context: %w", err)
	}
	return &uc, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
