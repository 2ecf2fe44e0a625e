package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/logger"
	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/snyk"
)

// API is the subset of the Snyk client the migration flow depends on.
type API interface {
	Organizations(ctx context.Context) ([]snyk.Organization, error)
	OrgIntegrations(ctx context.Context, orgID string) (snyk.Integrations, error)
	TargetLister
	TargetMigrator
}

// Options controls one migration run.
type Options struct {
	// AllOrgs migrates every organization in the group; otherwise exactly
	// one of OrgID or OrgSlug selects a single organization.
	AllOrgs bool
	OrgID   string
	OrgSlug string

	// AllowedOrigins lists the integration types whose targets are
	// candidates for migration.
	AllowedOrigins []string

	// AllowedGitHubOrgs restricts migration to targets in these GitHub
	// organizations; empty means no restriction.
	AllowedGitHubOrgs []string

	// DryRun classifies and reports without issuing any mutation.
	DryRun bool
}

// Run executes a full migration pass: fetch the group organizations,
// resolve the selection, classify each organization's targets and either
// report (dry run) or migrate them. Read-path errors abort the run;
// per-target mutation failures are recorded and the run continues.
func Run(ctx context.Context, api API, opts Options) (Summary, error) {
	orgs, err := api.Organizations(ctx)
	if err != nil {
		return Summary{}, err
	}

	selected, err := selectOrganizations(orgs, opts)
	if err != nil {
		return Summary{}, err
	}

	ledger := NewLedger()
	logger.Info("Starting migration run", "run_id", ledger.RunID(), "organizations", len(selected), "dry_run", opts.DryRun)
	if !opts.DryRun {
		// Each mutation commits immediately; there is no rollback, so an
		// interrupted run leaves the targets migrated so far in place.
		logger.Warn("Deploy mode migrates one target at a time; interrupting the run leaves a partial migration")
	}

	for _, org := range selected {
		logger.Info("Migrating organization", "slug", org.Slug, "org_id", org.ID)

		integrations, err := api.OrgIntegrations(ctx, org.ID)
		if err != nil {
			return Summary{}, err
		}

		targets, err := SelectMigratable(ctx, api, ledger, org.ID, integrations, opts.AllowedOrigins, opts.AllowedGitHubOrgs)
		if err != nil {
			return Summary{}, err
		}
		if len(targets) == 0 {
			logger.Info("No targets to migrate", "slug", org.Slug)
			continue
		}

		if opts.DryRun {
			ledger.DryRun(targets)
			continue
		}
		ledger.Deploy(ctx, api, org.ID, targets)
	}

	summary := ledger.Summarize()
	emitSummary(summary)
	return summary, nil
}

// selectOrganizations resolves the run options to the organizations to
// migrate. Selection by id or slug fails with snyk.ErrNotFound when no
// organization matches.
func selectOrganizations(orgs []snyk.Organization, opts Options) ([]snyk.Organization, error) {
	if opts.AllOrgs {
		return orgs, nil
	}

	if opts.OrgID != "" {
		for _, org := range orgs {
			if org.ID == opts.OrgID {
				logger.Info("Found organization by ID", "org_id", org.ID, "slug", org.Slug)
				return []snyk.Organization{org}, nil
			}
		}
		return nil, fmt.Errorf("%w: id %s", snyk.ErrNotFound, opts.OrgID)
	}

	if opts.OrgSlug != "" {
		for _, org := range orgs {
			if org.Slug == opts.OrgSlug {
				logger.Info("Found organization by slug", "org_id", org.ID, "slug", org.Slug)
				return []snyk.Organization{org}, nil
			}
		}
		return nil, fmt.Errorf("%w: slug %s", snyk.ErrNotFound, opts.OrgSlug)
	}

	return nil, errors.New("no organization selector provided")
}

func emitSummary(summary Summary) {
	for _, line := range summary.Lines {
		logger.Info(line)
	}
	logger.Info("Migration run finished",
		"run_id", summary.RunID,
		"migrated", summary.Migrated,
		"failed", summary.Failed,
		"ignored", summary.Ignored)
}
