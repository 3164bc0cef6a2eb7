// Package cli implements the command line interface for ragpipe.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Services that commands depend on. Wired by SetServices before Execute;
// commands nil-check the ones they use so partial wiring fails cleanly.
var (
	ragService      driving.RagService
	ingestService   driving.IngestService
	adminService    driving.AdminService
	settingsService driving.SettingsService
)

// Services bundles the driving ports the CLI commands call into.
type Services struct {
	Rag      driving.RagService
	Ingest   driving.IngestService
	Admin    driving.AdminService
	Settings driving.SettingsService
}

// SetServices wires the driving ports into the command tree.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	ragService = s.Rag
	ingestService = s.Ingest
	adminService = s.Admin
	settingsService = s.Settings
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "ragpipe",
	Short: "Retrieval-augmented generation pipeline",
	Long: `Ragpipe ingests documents into a vector index and answers questions
about them with retrieved context.

Ingest files or directories, then query them:

  ragpipe ingest file docs/notes.txt
  ragpipe query "what do my notes say about deadlines?"
  ragpipe chat`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose pipeline logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
