package cli

import (
	"errors"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the pipeline's collaborators",
	Long: `Checks that the embedding backend, vector index, generation backend
and document registry are reachable. Exits non-zero when any probe fails.`,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	report := adminService.Health(cmd.Context())

	names := make([]string, 0, len(report.Detail))
	for name := range report.Detail {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd.Printf("  %-14s %s\n", name, report.Detail[name])
	}
	cmd.Println()
	cmd.Printf("Status: %s\n", report.Status)

	if report.Status != domain.HealthOK {
		return errors.New("one or more collaborators are unreachable")
	}
	return nil
}
