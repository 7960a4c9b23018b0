package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sharvarianand/tasktuner/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the configured collaborators",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return ErrNotInitialized
		}

		health := app.Health.GetOverallHealth(cmd.Context())
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "status: %s\n", health.Status)

		names := make([]string, 0, len(health.Checks))
		for name := range health.Checks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			check := health.Checks[name]
			fmt.Fprintf(out, "  %-16s %-10s %s\n", name, check.Status, check.Message)
		}

		if health.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
