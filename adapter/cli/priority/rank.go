package priority

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sharvarianand/tasktuner/adapter/cli"
	"github.com/sharvarianand/tasktuner/internal/productivity/application/queries"
	"github.com/sharvarianand/tasktuner/internal/productivity/application/services"
)

var (
	rankFile    string
	rankContext string
	rankLimit   int
	rankJSON    bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank tasks, highest priority first",
	Long: `Rank tasks by their blended score.

Without --file the pending tasks of the current user are loaded from the
configured task store.

Examples:
  tasktuner priority rank --file tasks.json
  tasktuner priority rank --file - --limit 5 < tasks.json
  tasktuner priority rank --file tasks.json --context ctx.json --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.PrioritizeTasksHandler == nil {
			return cli.ErrNotInitialized
		}
		if rankLimit < 0 {
			return fmt.Errorf("--limit must not be negative")
		}

		query := queries.PrioritizeTasksQuery{UserID: app.CurrentUserID, Limit: rankLimit}
		if rankFile != "" {
			data, err := readInput(cmd, rankFile)
			if err != nil {
				return err
			}
			if query.Tasks, err = decodeTasks(data); err != nil {
				return err
			}
		}
		uc, err := loadUserContext(cmd, rankContext)
		if err != nil {
			return err
		}
		query.UserContext = uc

		result, err := app.PrioritizeTasksHandler.Handle(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to rank tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if rankJSON {
			return writeJSON(out, result)
		}
		if len(result.Tasks) == 0 {
			fmt.Fprintln(out, "No tasks to rank.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tSCORE\tPRIORITY\tTITLE\tFLAGS\tREASON")
		for _, r := range result.Tasks {
			fmt.Fprintf(tw, "%d\t%.3f\t%d\t%s\t%s\t%s\n",
				r.AIRank, r.AIScore, r.AIPriority, r.Title, flags(r.AIInsights), r.AIInsights.PriorityReason)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		s := result.Summary
		fmt.Fprintf(out, "\n%d tasks, average %.3f, %d urgent, %d overdue\n",
			s.TaskCount, s.AverageScore, s.UrgentCount, s.OverdueCount)
		return nil
	},
}

func flags(in services.Insights) string {
	var parts []string
	if in.IsOverdue {
		parts = append(parts, "overdue")
	} else if in.IsUrgent {
		parts = append(parts, "urgent")
	}
	if in.RequiresFocus {
		parts = append(parts, "focus")
	}
	if in.IsOptimizedForTime {
		parts = append(parts, "timed")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func init() {
	rankCmd.Flags().StringVarP(&rankFile, "file", "f", "", "tasks JSON file, - for stdin")
	rankCmd.Flags().StringVar(&rankContext, "context", "", "user context JSON file")
	rankCmd.Flags().IntVarP(&rankLimit, "limit", "n", 0, "max number of tasks to show (0 = no limit)")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "print the full result as JSON")
}
