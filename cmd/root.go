package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/config"
	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/logger"
)

func NewRootCommand() *cobra.Command {
	var cfg config.GlobalConfig

	rootCmd := &cobra.Command{
		Use:   "snyk-migrate-to-github-app",
		Short: "Migrate Snyk GitHub targets to the GitHub Cloud App integration",
		Long: `Migrate Snyk targets from the GitHub or GitHub Enterprise integration
to the new GitHub Cloud App integration.

The tool classifies every candidate target before touching it: public
targets, targets that already exist under github-cloud-app and targets
outside an optional GitHub organization allowlist are skipped with a
reason. Dry-run is the default; pass --dry-run=false to migrate.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetLevel(cfg.LogLevel)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.SnykToken, "snyk-token", "", "Snyk API token with admin access to the orgs you are migrating (or set SNYK_TOKEN env)")
	rootCmd.PersistentFlags().StringVar(&cfg.Tenant, "tenant", "", "Defaults to US tenant, use 'au' or 'eu' if required (or set SNYK_TENANT env)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug, info, warn, error, fatal)")

	// Use environment variables if flags are not provided
	if cfg.SnykToken == "" {
		cfg.SnykToken = os.Getenv("SNYK_TOKEN")
	}
	if cfg.Tenant == "" {
		cfg.Tenant = os.Getenv("SNYK_TENANT")
	}

	// Add subcommands
	rootCmd.AddCommand(NewMigrateCommand(&cfg))

	return rootCmd
}
