package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/config"
	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/migration"
	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/snyk"
)

func NewMigrateCommand(cfg *config.GlobalConfig) *cobra.Command {
	var migrateConfig config.MigrateConfig

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate GitHub and GitHub Enterprise targets to github-cloud-app",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Argument errors are reported before this point; anything from
			// here on is a runtime failure, not a usage mistake.
			cmd.SilenceUsage = true
			return runMigration(cmd, *cfg, migrateConfig)
		},
	}

	// Migrate command specific flags
	cmd.Flags().StringVar(&migrateConfig.Origin, "origin", "", fmt.Sprintf("Target origin to migrate, one of %q (or set SNYK_ORIGIN env)", snyk.MigratableOrigins))
	cmd.Flags().BoolVar(&migrateConfig.AllOrigins, "all-origins", false, "Migrate both github and github-enterprise targets")
	cmd.Flags().BoolVar(&migrateConfig.AllOrgs, "all-orgs", false, "Migrate all organizations in the Snyk group, default is a single organization")
	cmd.Flags().StringVar(&migrateConfig.OrgID, "org-id", "", "ID of the Snyk organization to migrate (or set SNYK_ORG_ID env)")
	cmd.Flags().StringVar(&migrateConfig.OrgSlug, "org-slug", "", "Slug of the Snyk organization to migrate (or set SNYK_ORG_SLUG env)")
	cmd.Flags().StringSliceVar(&migrateConfig.GitHubOrgs, "github-orgs", nil, "Only migrate targets in these GitHub organizations (comma separated, empty means no restriction)")
	cmd.Flags().BoolVar(&migrateConfig.DryRun, "dry-run", true, "Print the targets that would be migrated without migrating them")
	cmd.Flags().DurationVar(&migrateConfig.Timeout, "timeout", snyk.DefaultTimeout, "Timeout for a single Snyk API request")

	// Use environment variables if flags are not provided
	if migrateConfig.Origin == "" {
		migrateConfig.Origin = os.Getenv("SNYK_ORIGIN")
	}
	if migrateConfig.OrgID == "" {
		migrateConfig.OrgID = os.Getenv("SNYK_ORG_ID")
	}
	if migrateConfig.OrgSlug == "" {
		migrateConfig.OrgSlug = os.Getenv("SNYK_ORG_SLUG")
	}

	return cmd
}

func runMigration(cmd *cobra.Command, cfg config.GlobalConfig, migrateConfig config.MigrateConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := migrateConfig.Validate(); err != nil {
		return err
	}

	client, err := snyk.NewClient(snyk.ClientConfig{
		Token:   cfg.SnykToken,
		Tenant:  cfg.Tenant,
		Timeout: migrateConfig.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create Snyk client: %w", err)
	}

	_, err = migration.Run(cmd.Context(), client, migration.Options{
		AllOrgs:           migrateConfig.AllOrgs,
		OrgID:             migrateConfig.OrgID,
		OrgSlug:           migrateConfig.OrgSlug,
		AllowedOrigins:    migrateConfig.AllowedOrigins(),
		AllowedGitHubOrgs: migrateConfig.GitHubOrgs,
		DryRun:            migrateConfig.DryRun,
	})
	if err != nil {
		return fmt.Errorf("failed to migrate targets: %w", err)
	}
	return nil
}
