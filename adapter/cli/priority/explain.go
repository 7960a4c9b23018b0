package priority

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sharvarianand/tasktuner/adapter/cli"
	"github.com/sharvarianand/tasktuner/internal/productivity/application/queries"
	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
)

var (
	explainFile    string
	explainContext string
	explainNow     string
	explainJSON    bool
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain one task's score factor by factor",
	Long: `Explain how a task's score is built.

Examples:
  tasktuner priority explain --file task.json
  tasktuner priority explain --file task.json --now 2026-03-11T09:00:00Z --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ExplainTaskHandler == nil {
			return cli.ErrNotInitialized
		}

		data, err := readInput(cmd, explainFile)
		if err != nil {
			return err
		}
		var t task.Task
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("task must be a JSON object: %w", err)
		}

		query := queries.ExplainTaskQuery{UserID: app.CurrentUserID, Task: t}
		if query.UserContext, err = loadUserContext(cmd, explainContext); err != nil {
			return err
		}
		if explainNow != "" {
			if query.Now = task.ParseTimestamp(explainNow); query.Now == nil {
				return fmt.Errorf("--now must be an RFC 3339 timestamp")
			}
		}

		result, err := app.ExplainTaskHandler.Handle(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to explain task: %w", err)
		}

		out := cmd.OutOrStdout()
		if explainJSON {
			return writeJSON(out, result)
		}

		title := t.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(out, "%s\n", title)
		fmt.Fprintf(out, "score %.3f (base %.3f), urgency %s\n\n", result.TotalScore, result.BaseScore, result.UrgencyLevel)

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FACTOR\tVALUE\tWEIGHT\tSHARE\tDETAIL")
		for _, f := range result.Factors {
			fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.1f%%\t%s\n", f.Factor, f.RawValue, f.Weight, f.Contribution, f.Description)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\nmultipliers: behavior %.2f, context %.2f, ml %+.2f\n",
			result.Multipliers.Behavior, result.Multipliers.Context, result.Multipliers.MLAdjustment)
		for _, reason := range result.Reasons {
			fmt.Fprintf(out, "- %s\n", reason)
		}
		fmt.Fprintf(out, "recommendation: %s\n", result.Recommendation)
		return nil
	},
}

func init() {
	explainCmd.Flags().StringVarP(&explainFile, "file", "f", "", "task JSON file, - for stdin")
	explainCmd.Flags().StringVar(&explainContext, "context", "", "user context JSON file")
	explainCmd.Flags().StringVar(&explainNow, "now", "", "evaluate at this instant instead of the current time")
	explainCmd.Flags().BoolVar(&explainJSON, "json", false, "print the explanation as JSON")
	_ = explainCmd.MarkFlagRequired("file")
}
